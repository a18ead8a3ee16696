/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package generic resolves partials by path arithmetic. It is the fallback
// for ES6 modules and any JavaScript without AMD or CommonJS markers.
package generic

import (
	"path/filepath"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/lookup"
)

// Resolver joins the partial onto the referencing file's directory (relative
// partials) or the request directory (everything else). The filesystem is
// only consulted to choose among configured extensions.
type Resolver struct {
	fs cabfs.FileSystem
}

// New creates a generic resolver.
func New(filesystem cabfs.FileSystem) *Resolver {
	return &Resolver{fs: filesystem}
}

// Resolve implements lookup.Resolver.
func (r *Resolver) Resolve(req lookup.Request) (string, error) {
	if req.Partial == "" {
		return "", lookup.NotFound(req)
	}

	partial, _ := req.Config.ApplyAlias(req.Partial)

	var base string
	switch {
	case filepath.IsAbs(partial):
		base = partial
	case lookup.IsRelative(partial):
		base = filepath.Join(req.FileDir(), partial)
	default:
		base = filepath.Join(req.Directory, partial)
	}
	base = lookup.Abs(base)

	if filepath.Ext(base) != "" {
		return base, nil
	}

	candidates := r.candidates(base, req)
	if found, ok := lookup.FirstFile(r.fs, candidates...); ok {
		return found, nil
	}
	return candidates[0], nil
}

// candidates lists base with each configured extension, or with the
// referencing file's extension when none are configured.
func (r *Resolver) candidates(base string, req lookup.Request) []string {
	exts := req.Config.ResolveOptions().Extensions
	if len(exts) == 0 {
		return []string{base + filepath.Ext(req.Filename)}
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, base+ext)
	}
	return out
}
