/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package lookup defines the resolver capability: one ecosystem's algorithm
// for turning a partial specifier into a filesystem path. Built-in resolvers
// live in the subpackages; callers may supply their own through Func.
package lookup

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
)

var (
	// ErrNotFound indicates a resolver could not locate the target. The
	// dispatcher treats it the same as an empty result.
	ErrNotFound = errors.New("module not found")

	// ErrInvalidRequest indicates a request is missing a required field.
	ErrInvalidRequest = errors.New("invalid resolution request")
)

// Request is a single resolution request.
type Request struct {
	// Partial is the specifier exactly as written in source, e.g. "./bar".
	Partial string

	// Filename is the file the partial was found in.
	Filename string

	// Directory is the project root the lookup is performed against.
	Directory string

	// Config carries resolver-specific options. May be nil.
	Config *config.Config
}

// Validate checks that Filename and Directory are present.
func (r Request) Validate() error {
	if r.Filename == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidRequest)
	}
	if r.Directory == "" {
		return fmt.Errorf("%w: directory is required", ErrInvalidRequest)
	}
	return nil
}

// FileDir returns the directory containing the referencing file.
func (r Request) FileDir() string {
	return filepath.Dir(r.Filename)
}

// Resolver resolves a request to a path. A miss is reported as ("", nil) or
// as an error wrapping ErrNotFound; any other error is a malfunction.
type Resolver interface {
	Resolve(req Request) (string, error)
}

// Func adapts an ordinary function to the Resolver interface.
type Func func(req Request) (string, error)

// Resolve calls f(req).
func (f Func) Resolve(req Request) (string, error) {
	return f(req)
}

// NotFound returns an error wrapping ErrNotFound that names the request.
func NotFound(req Request) error {
	return fmt.Errorf("%w: %q from %s", ErrNotFound, req.Partial, req.Filename)
}

// IsNotFound reports whether err signals a resolution miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRelative reports whether a partial is relative to the referencing file.
func IsRelative(partial string) bool {
	return partial == "." || partial == ".." ||
		strings.HasPrefix(partial, "./") || strings.HasPrefix(partial, "../")
}

// Abs returns an absolute, cleaned form of p. Paths that cannot be made
// absolute are returned cleaned.
func Abs(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// FirstFile returns the first candidate that exists as a regular file.
func FirstFile(filesystem cabfs.FileSystem, candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if cabfs.IsFile(filesystem, candidate) {
			return candidate, true
		}
	}
	return "", false
}

// SearchDirs returns dirs with empty and duplicate entries removed,
// preserving order.
func SearchDirs(dirs ...string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}
