/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package amd resolves AMD module IDs the way a RequireJS loader would:
// loader plugins are stripped, paths are mapped, and non-relative IDs are
// taken from baseUrl.
package amd

import (
	"path/filepath"
	"strings"
	"sync"

	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/lookup"
)

// Resolver implements AMD module ID lookup.
type Resolver struct {
	fs cabfs.FileSystem

	mu      sync.Mutex
	loaders map[string]*config.AMDConfig
}

// New creates an AMD resolver.
func New(filesystem cabfs.FileSystem) *Resolver {
	return &Resolver{
		fs:      filesystem,
		loaders: make(map[string]*config.AMDConfig),
	}
}

// Resolve implements lookup.Resolver.
func (r *Resolver) Resolve(req lookup.Request) (string, error) {
	id := StripPlugin(req.Partial)
	if id == "" {
		return "", lookup.NotFound(req)
	}

	loader, err := r.loaderConfig(req.Config)
	if err != nil {
		return "", err
	}

	var target string
	switch {
	case lookup.IsRelative(id):
		target = filepath.Join(req.FileDir(), id)
	case filepath.IsAbs(id):
		target = id
	default:
		mapped := MapPaths(loader.Paths, id)
		if filepath.IsAbs(mapped) {
			target = mapped
		} else {
			target = filepath.Join(baseURL(loader, req), mapped)
		}
	}

	if found, ok := lookup.FirstFile(r.fs, candidates(target)...); ok {
		return lookup.Abs(found), nil
	}
	return "", lookup.NotFound(req)
}

// StripPlugin removes a loader plugin prefix: "text!tpl/a.html" becomes
// "tpl/a.html".
func StripPlugin(id string) string {
	if _, resource, ok := strings.Cut(id, "!"); ok {
		return resource
	}
	return id
}

// MapPaths applies the longest matching paths entry to id. Entries match
// whole ID segments, so "jquery" maps "jquery/ui" but not "jquery-ui".
func MapPaths(paths map[string]string, id string) string {
	best := ""
	for prefix := range paths {
		if id != prefix && !strings.HasPrefix(id, prefix+"/") {
			continue
		}
		if len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return id
	}
	return paths[best] + strings.TrimPrefix(id, best)
}

// candidates lists target with ".js" appended first, since module IDs omit
// it and IDs such as "jquery.min" carry dots that are not extensions.
func candidates(target string) []string {
	if strings.HasSuffix(target, ".js") {
		return []string{target}
	}
	return []string{target + ".js", target}
}

func baseURL(loader config.AMDConfig, req lookup.Request) string {
	switch {
	case loader.BaseURL == "":
		return req.Directory
	case filepath.IsAbs(loader.BaseURL):
		return loader.BaseURL
	default:
		return filepath.Join(req.Directory, loader.BaseURL)
	}
}

// loaderConfig merges inline AMD options over the loader config file, if any.
func (r *Resolver) loaderConfig(cfg *config.Config) (config.AMDConfig, error) {
	if cfg == nil {
		return config.AMDConfig{}, nil
	}
	if cfg.AMD.ConfigFile == "" {
		return cfg.AMD, nil
	}

	file, err := r.loadFile(cfg.AMD.ConfigFile)
	if err != nil {
		return config.AMDConfig{}, err
	}
	return cfg.AMD.Merge(file), nil
}

func (r *Resolver) loadFile(path string) (*config.AMDConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if loader, ok := r.loaders[path]; ok {
		return loader, nil
	}
	loader, err := config.LoadAMDConfig(r.fs, path)
	if err != nil {
		return nil, err
	}
	r.loaders[path] = loader
	return loader, nil
}
