/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package typescript resolves imports in .ts and .tsx files, applying
// tsconfig baseUrl and paths mappings before Node-style lookup.
package typescript

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/lookup"
	"bennypowers.dev/cabinet/lookup/commonjs"
	"bennypowers.dev/cabinet/specifier"
)

// DefaultExtensions is the TypeScript extension probing order.
var DefaultExtensions = []string{".ts", ".tsx", ".d.ts", ".js", ".jsx"}

// Resolver implements TypeScript module lookup.
type Resolver struct {
	fs   cabfs.FileSystem
	node *commonjs.Resolver

	mu      sync.Mutex
	configs map[string]*TSConfig
}

// New creates a TypeScript resolver.
func New(filesystem cabfs.FileSystem) *Resolver {
	return &Resolver{
		fs: filesystem,
		node: commonjs.New(filesystem,
			commonjs.WithExtensions(DefaultExtensions...),
			commonjs.WithMainFields("types", "typings", "main"),
		),
		configs: make(map[string]*TSConfig),
	}
}

// TSConfig holds the compilerOptions that affect module lookup.
type TSConfig struct {
	// BaseURL is absolute; empty when the tsconfig sets none.
	BaseURL string
	// Paths maps patterns with at most one "*" to substitution targets.
	Paths map[string][]string
	// dir is the directory of the tsconfig file.
	dir string
}

type rawTSConfig struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// Resolve implements lookup.Resolver.
func (r *Resolver) Resolve(req lookup.Request) (string, error) {
	if req.Partial == "" {
		return "", lookup.NotFound(req)
	}

	if req.Config != nil && req.Config.TSConfig != "" && specifier.Parse(req.Partial).IsPackage() {
		tc, err := r.tsconfig(req.Config.TSConfig)
		if err != nil {
			return "", err
		}
		for _, target := range tc.Candidates(req.Partial) {
			if found, ok := r.node.Load(target, DefaultExtensions); ok {
				return lookup.Abs(found), nil
			}
		}
	}

	found, err := r.node.Resolve(req)
	if err == nil || !lookup.IsNotFound(err) {
		return found, err
	}

	// ESM-style TypeScript imports name the emitted ".js" file.
	if stem, ok := strings.CutSuffix(req.Partial, ".js"); ok && lookup.IsRelative(req.Partial) {
		retry := req
		retry.Partial = stem
		return r.node.Resolve(retry)
	}
	return "", err
}

// Candidates lists the locations a non-relative import may map to: paths
// patterns, most specific first, then baseUrl.
func (tc *TSConfig) Candidates(partial string) []string {
	root := tc.BaseURL
	if root == "" {
		root = tc.dir
	}

	patterns := make([]string, 0, len(tc.Paths))
	for pattern := range tc.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Slice(patterns, func(i, j int) bool {
		pi, pj := prefixLen(patterns[i]), prefixLen(patterns[j])
		if pi != pj {
			return pi > pj
		}
		return patterns[i] < patterns[j]
	})

	var out []string
	for _, pattern := range patterns {
		capture, ok := matchPattern(pattern, partial)
		if !ok {
			continue
		}
		for _, target := range tc.Paths[pattern] {
			out = append(out, filepath.Join(root, strings.Replace(target, "*", capture, 1)))
		}
	}

	if tc.BaseURL != "" {
		out = append(out, filepath.Join(tc.BaseURL, partial))
	}
	return out
}

func (r *Resolver) tsconfig(path string) (*TSConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tc, ok := r.configs[path]; ok {
		return tc, nil
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw rawTSConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tsconfig %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tc := &TSConfig{Paths: raw.CompilerOptions.Paths, dir: dir}
	if base := raw.CompilerOptions.BaseURL; base != "" {
		tc.BaseURL = filepath.Join(dir, base)
	}
	r.configs[path] = tc
	return tc, nil
}

// matchPattern matches partial against a paths pattern and returns the text
// captured by its wildcard.
func matchPattern(pattern, partial string) (string, bool) {
	prefix, suffix, wildcard := strings.Cut(pattern, "*")
	if !wildcard {
		return "", pattern == partial
	}
	if len(partial) < len(prefix)+len(suffix) ||
		!strings.HasPrefix(partial, prefix) ||
		!strings.HasSuffix(partial, suffix) {
		return "", false
	}
	return partial[len(prefix) : len(partial)-len(suffix)], true
}

func prefixLen(pattern string) int {
	prefix, _, _ := strings.Cut(pattern, "*")
	return len(prefix)
}
