/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package sass resolves @import and @use partials for .scss and .sass files.
package sass

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/lookup"
)

var styleExtensions = map[string]bool{".scss": true, ".sass": true, ".css": true}

// Resolver implements Sass load-path lookup.
type Resolver struct {
	fs cabfs.FileSystem
}

// New creates a Sass resolver.
func New(filesystem cabfs.FileSystem) *Resolver {
	return &Resolver{fs: filesystem}
}

// Resolve implements lookup.Resolver. Load paths are searched in order: the
// importing file's directory, configured include paths, then the request
// directory. A leading "~" searches node_modules under the request directory.
func (r *Resolver) Resolve(req lookup.Request) (string, error) {
	partial := req.Partial
	if partial == "" {
		return "", lookup.NotFound(req)
	}

	var dirs []string
	if pkg, ok := strings.CutPrefix(partial, "~"); ok {
		partial = pkg
		dirs = []string{filepath.Join(req.Directory, "node_modules")}
	} else {
		dirs = searchDirs(req)
	}

	names := Candidates(partial, filepath.Ext(req.Filename))
	for _, dir := range dirs {
		for _, name := range names {
			candidate := name
			if !filepath.IsAbs(name) {
				candidate = filepath.Join(dir, name)
			}
			if cabfs.IsFile(r.fs, candidate) {
				return lookup.Abs(candidate), nil
			}
		}
	}

	return "", lookup.NotFound(req)
}

// Candidates lists the file names a partial may refer to, in Sass's order:
// partials (_name) before plain files, the importer's own syntax first,
// then index files.
func Candidates(partial, importerExt string) []string {
	dir, name := filepath.Split(partial)
	if styleExtensions[filepath.Ext(name)] {
		return []string{
			filepath.Join(dir, "_"+name),
			filepath.Join(dir, name),
		}
	}

	exts := []string{".scss", ".sass", ".css"}
	if importerExt == ".sass" {
		exts = []string{".sass", ".scss", ".css"}
	}

	var out []string
	for _, ext := range exts {
		out = append(out,
			filepath.Join(dir, "_"+name+ext),
			filepath.Join(dir, name+ext),
		)
	}
	for _, ext := range exts[:2] {
		out = append(out,
			filepath.Join(dir, name, "_index"+ext),
			filepath.Join(dir, name, "index"+ext),
		)
	}
	return out
}

func searchDirs(req lookup.Request) []string {
	var includes []string
	if req.Config != nil {
		includes = anchored(req.Config.Sass, req.Directory)
	}
	dirs := append([]string{req.FileDir()}, includes...)
	return lookup.SearchDirs(append(dirs, req.Directory)...)
}

func anchored(style config.StyleConfig, root string) []string {
	out := make([]string, 0, len(style.IncludePaths))
	for _, p := range style.IncludePaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, p)
	}
	return out
}
