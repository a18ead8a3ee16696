/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package specifier classifies partial module specifiers and splits package
// specifiers into package name and subpath.
package specifier

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind indicates the type of specifier.
type Kind int

const (
	// KindRelative is relative to the referencing file ("./a", "../b").
	KindRelative Kind = iota
	// KindAbsolute is an absolute filesystem path.
	KindAbsolute
	// KindPackage names a package, optionally with a subpath ("lodash/fp").
	KindPackage
	// KindCore names a Node.js built-in module ("fs", "node:path").
	KindCore
)

func (k Kind) String() string {
	switch k {
	case KindRelative:
		return "relative"
	case KindAbsolute:
		return "absolute"
	case KindPackage:
		return "package"
	case KindCore:
		return "core"
	default:
		return "unknown"
	}
}

// Specifier represents a parsed partial specifier.
type Specifier struct {
	// Kind is the type of specifier.
	Kind Kind

	// Package is the package name (e.g., "@scope/pkg" or "pkg").
	// Empty unless Kind is KindPackage or KindCore.
	Package string

	// File is the path within the package, or the path itself for
	// relative and absolute specifiers.
	File string

	// Raw is the original specifier string.
	Raw string
}

// packagePattern matches @scope/pkg/path, pkg/path, or bare pkg
var packagePattern = regexp.MustCompile(`^(@[^/]+/[^/]+|[^/]+)(/.*)?$`)

// coreModules are the Node.js built-ins that never resolve to a file.
var coreModules = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "dns": true, "domain": true, "events": true, "fs": true,
	"http": true, "http2": true, "https": true, "inspector": true, "module": true,
	"net": true, "os": true, "path": true, "perf_hooks": true, "process": true,
	"punycode": true, "querystring": true, "readline": true, "repl": true,
	"stream": true, "string_decoder": true, "sys": true, "timers": true,
	"tls": true, "trace_events": true, "tty": true, "url": true, "util": true,
	"v8": true, "vm": true, "wasi": true, "worker_threads": true, "zlib": true,
}

// Parse parses a partial specifier into a Specifier struct.
func Parse(spec string) *Specifier {
	switch {
	case spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../"):
		return &Specifier{Kind: KindRelative, File: spec, Raw: spec}
	case filepath.IsAbs(spec):
		return &Specifier{Kind: KindAbsolute, File: spec, Raw: spec}
	}

	if name, ok := strings.CutPrefix(spec, "node:"); ok {
		return &Specifier{Kind: KindCore, Package: name, Raw: spec}
	}

	matches := packagePattern.FindStringSubmatch(spec)
	if len(matches) != 3 {
		// Empty or otherwise malformed; treat as a path so lookups miss cleanly.
		return &Specifier{Kind: KindRelative, File: spec, Raw: spec}
	}

	if coreModules[matches[1]] && matches[2] == "" {
		return &Specifier{Kind: KindCore, Package: matches[1], Raw: spec}
	}

	return &Specifier{
		Kind:    KindPackage,
		Package: matches[1],
		File:    strings.TrimPrefix(matches[2], "/"),
		Raw:     spec,
	}
}

// IsCore reports whether spec names a Node.js built-in module.
func IsCore(spec string) bool {
	return Parse(spec).Kind == KindCore
}

// IsPackage returns true if this is a package specifier.
func (s *Specifier) IsPackage() bool {
	return s.Kind == KindPackage
}

// IsPath returns true if this is a relative or absolute path.
func (s *Specifier) IsPath() bool {
	return s.Kind == KindRelative || s.Kind == KindAbsolute
}
