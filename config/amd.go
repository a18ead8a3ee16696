/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/internal/jsast"
)

// ErrNoLoaderConfig indicates a JavaScript file holds no require.config call.
var ErrNoLoaderConfig = errors.New("no AMD loader config found")

// loaderConfigCallees are the calls whose first object argument is a
// RequireJS loader config.
var loaderConfigCallees = map[string]bool{
	"require.config":   true,
	"requirejs.config": true,
	"require":          true,
	"requirejs":        true,
}

// LoadAMDConfig reads a RequireJS loader config. JSON (with comments), YAML,
// and TOML files are decoded directly; JavaScript files are searched for a
// require.config({...}) call. A relative baseUrl is anchored at the config
// file's directory, which is also the default baseUrl.
func LoadAMDConfig(filesystem cabfs.FileSystem, path string) (*AMDConfig, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch filepath.Ext(path) {
	case ".js", ".cjs", ".mjs":
		raw, err = loaderConfigFromScript(data)
	default:
		err = decode(path, data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read AMD config %s: %w", path, err)
	}

	cfg := amdFromMap(raw)
	cfg.ConfigFile = path
	cfg.BaseURL = join(filepath.Dir(path), cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = filepath.Dir(path)
	}
	return cfg, nil
}

// Merge overlays the inline fields of c onto base. Inline values win.
func (c AMDConfig) Merge(base *AMDConfig) AMDConfig {
	if base == nil {
		return c
	}
	merged := AMDConfig{
		ConfigFile: base.ConfigFile,
		BaseURL:    base.BaseURL,
		Paths:      make(map[string]string, len(base.Paths)+len(c.Paths)),
	}
	for k, v := range base.Paths {
		merged.Paths[k] = v
	}
	for k, v := range c.Paths {
		merged.Paths[k] = v
	}
	if c.BaseURL != "" {
		merged.BaseURL = c.BaseURL
	}
	return merged
}

func loaderConfigFromScript(src []byte) (map[string]any, error) {
	doc, err := jsast.Parse(src)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var found map[string]any
	jsast.Walk(doc.Root(), func(n *jsast.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind() != "call_expression" || !loaderConfigCallees[doc.Callee(n)] {
			return true
		}
		args := jsast.Arguments(n)
		if len(args) == 0 || args[0].Kind() != "object" {
			return true
		}
		if v, ok := doc.Value(args[0]); ok {
			found, _ = v.(map[string]any)
		}
		return found == nil
	})

	if found == nil {
		return nil, ErrNoLoaderConfig
	}
	return found, nil
}

// amdFromMap reads baseUrl and paths from a decoded loader config. Path
// fallback arrays contribute their first entry.
func amdFromMap(raw map[string]any) *AMDConfig {
	cfg := &AMDConfig{Paths: make(map[string]string)}
	if baseURL, ok := raw["baseUrl"].(string); ok {
		cfg.BaseURL = baseURL
	}

	paths, _ := raw["paths"].(map[string]any)
	for id, target := range paths {
		switch t := target.(type) {
		case string:
			cfg.Paths[id] = t
		case []any:
			if len(t) > 0 {
				if first, ok := t[0].(string); ok {
					cfg.Paths[id] = first
				}
			}
		}
	}
	return cfg
}
