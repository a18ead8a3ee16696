/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package commonjs resolves require() partials with Node's module resolution
// algorithm: files, extension probing, package.json main, index files, and
// node_modules lookup walking up the directory tree.
package commonjs

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/internal/logger"
	"bennypowers.dev/cabinet/lookup"
	"bennypowers.dev/cabinet/specifier"
)

// DefaultExtensions is Node's extension probing order.
var DefaultExtensions = []string{".js", ".json", ".node"}

// DefaultMainFields are the package.json fields naming a package entry point.
var DefaultMainFields = []string{"main"}

// Resolver implements Node-style resolution.
type Resolver struct {
	fs         cabfs.FileSystem
	extensions []string
	mainFields []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtensions replaces the extension probing order. Config
// Resolve.Extensions still takes precedence per request.
func WithExtensions(exts ...string) Option {
	return func(r *Resolver) {
		r.extensions = exts
	}
}

// WithMainFields replaces the package.json entry point fields, in priority order.
func WithMainFields(fields ...string) Option {
	return func(r *Resolver) {
		r.mainFields = fields
	}
}

// New creates a CommonJS resolver.
func New(filesystem cabfs.FileSystem, opts ...Option) *Resolver {
	r := &Resolver{
		fs:         filesystem,
		extensions: DefaultExtensions,
		mainFields: DefaultMainFields,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements lookup.Resolver.
func (r *Resolver) Resolve(req lookup.Request) (string, error) {
	if req.Partial == "" {
		return "", lookup.NotFound(req)
	}

	partial, _ := req.Config.ApplyAlias(req.Partial)
	exts := r.extensionsFor(req)
	parsed := specifier.Parse(partial)

	switch parsed.Kind {
	case specifier.KindCore:
		return "", fmt.Errorf("%w: %s is a core module", lookup.ErrNotFound, parsed.Package)

	case specifier.KindRelative:
		if found, ok := r.Load(filepath.Join(req.FileDir(), partial), exts); ok {
			return lookup.Abs(found), nil
		}

	case specifier.KindAbsolute:
		if found, ok := r.Load(partial, exts); ok {
			return lookup.Abs(found), nil
		}

	case specifier.KindPackage:
		modules := req.Config.ResolveOptions().Modules
		for _, start := range lookup.SearchDirs(req.FileDir(), req.Directory) {
			for _, candidate := range specifier.PackageCandidates(start, modules, parsed) {
				if found, ok := r.Load(candidate, exts); ok {
					return lookup.Abs(found), nil
				}
			}
		}
	}

	return "", lookup.NotFound(req)
}

// Load resolves target as a file, then as a directory.
func (r *Resolver) Load(target string, exts []string) (string, bool) {
	if found, ok := r.loadAsFile(target, exts); ok {
		return found, true
	}
	return r.loadAsDirectory(target, exts)
}

func (r *Resolver) extensionsFor(req lookup.Request) []string {
	if exts := req.Config.ResolveOptions().Extensions; len(exts) > 0 {
		return exts
	}
	return r.extensions
}

func (r *Resolver) loadAsFile(target string, exts []string) (string, bool) {
	candidates := make([]string, 0, len(exts)+1)
	candidates = append(candidates, target)
	for _, ext := range exts {
		candidates = append(candidates, target+ext)
	}
	return lookup.FirstFile(r.fs, candidates...)
}

func (r *Resolver) loadAsDirectory(dir string, exts []string) (string, bool) {
	if !cabfs.IsDir(r.fs, dir) {
		return "", false
	}

	if main := r.packageMain(dir); main != "" {
		entry := filepath.Join(dir, main)
		if found, ok := r.loadAsFile(entry, exts); ok {
			return found, true
		}
		if found, ok := r.loadIndex(entry, exts); ok {
			return found, true
		}
	}

	return r.loadIndex(dir, exts)
}

func (r *Resolver) loadIndex(dir string, exts []string) (string, bool) {
	candidates := make([]string, 0, len(exts))
	for _, ext := range exts {
		candidates = append(candidates, filepath.Join(dir, "index"+ext))
	}
	return lookup.FirstFile(r.fs, candidates...)
}

// packageMain returns the first non-empty entry point field of
// dir/package.json. Unreadable manifests are skipped with a warning.
func (r *Resolver) packageMain(dir string) string {
	manifest := filepath.Join(dir, "package.json")
	if !cabfs.IsFile(r.fs, manifest) {
		return ""
	}

	data, err := r.fs.ReadFile(manifest)
	if err != nil {
		logger.Warn("reading %s: %v", manifest, err)
		return ""
	}

	var pkg map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		logger.Warn("parsing %s: %v", manifest, err)
		return ""
	}

	for _, field := range r.mainFields {
		if main, ok := pkg[field].(string); ok && main != "" {
			return main
		}
	}
	return ""
}
