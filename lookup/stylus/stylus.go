/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package stylus resolves @import and @require partials for .styl files.
package stylus

import (
	"path/filepath"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/lookup"
)

// Resolver implements Stylus include-path lookup.
type Resolver struct {
	fs cabfs.FileSystem
}

// New creates a Stylus resolver.
func New(filesystem cabfs.FileSystem) *Resolver {
	return &Resolver{fs: filesystem}
}

// Resolve implements lookup.Resolver. Glob partials such as "mixins/*"
// resolve to their first match in lexical order.
func (r *Resolver) Resolve(req lookup.Request) (string, error) {
	if req.Partial == "" {
		return "", lookup.NotFound(req)
	}

	for _, dir := range r.searchDirs(req) {
		base := req.Partial
		if !filepath.IsAbs(base) {
			base = filepath.Join(dir, base)
		}

		if cabfs.ContainsGlob(req.Partial) {
			matches, err := cabfs.Glob(r.fs, base)
			if err != nil {
				return "", err
			}
			if len(matches) > 0 {
				return lookup.Abs(matches[0]), nil
			}
			continue
		}

		if found, ok := lookup.FirstFile(r.fs, candidates(base)...); ok {
			return lookup.Abs(found), nil
		}
	}

	return "", lookup.NotFound(req)
}

func candidates(base string) []string {
	if filepath.Ext(base) == ".styl" || filepath.Ext(base) == ".css" {
		return []string{base}
	}
	return []string{
		base + ".styl",
		base,
		filepath.Join(base, "index.styl"),
	}
}

func (r *Resolver) searchDirs(req lookup.Request) []string {
	dirs := []string{req.FileDir()}
	if req.Config != nil {
		for _, p := range req.Config.Stylus.IncludePaths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(req.Directory, p)
			}
			dirs = append(dirs, p)
		}
	}
	return lookup.SearchDirs(append(dirs, req.Directory)...)
}
