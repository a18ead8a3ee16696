/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import (
	"path/filepath"
	"strings"

	cabfs "bennypowers.dev/cabinet/fs"
)

// DefaultModulesDirs are the package directories searched when a config
// names none.
var DefaultModulesDirs = []string{"node_modules"}

// PackageCandidates lists, nearest first, every location a package could be
// installed at when searching from startDir up to the filesystem root.
// Each candidate is the package directory joined with the subpath.
func PackageCandidates(startDir string, modulesDirs []string, parsed *Specifier) []string {
	if len(modulesDirs) == 0 {
		modulesDirs = DefaultModulesDirs
	}

	dir := filepath.Clean(startDir)
	var candidates []string

	// Walk up directory tree looking for node_modules
	for {
		for _, modules := range modulesDirs {
			if filepath.IsAbs(modules) {
				continue
			}
			base := filepath.Join(dir, modules)
			candidate := filepath.Join(base, parsed.Package, parsed.File)
			// Path traversal protection: stay inside the modules directory
			if isInsideDir(candidate, base) {
				candidates = append(candidates, candidate)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	// Absolute module directories are searched after the walk, as bundlers do.
	for _, modules := range modulesDirs {
		if filepath.IsAbs(modules) {
			candidate := filepath.Join(modules, parsed.Package, parsed.File)
			if isInsideDir(candidate, modules) {
				candidates = append(candidates, candidate)
			}
		}
	}

	return candidates
}

// FindPackage returns the nearest existing candidate from PackageCandidates.
func FindPackage(filesystem cabfs.FileSystem, startDir string, modulesDirs []string, parsed *Specifier) (string, bool) {
	for _, candidate := range PackageCandidates(startDir, modulesDirs, parsed) {
		if filesystem.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// isInsideDir checks if path is inside or equal to dir.
func isInsideDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
