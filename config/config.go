/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides the resolution configuration passed through to
// resolvers, and loads it from project config files.
package config

import "strings"

// Module system names accepted by Config.ModuleSystem.
const (
	ModuleSystemAMD      = "amd"
	ModuleSystemCommonJS = "commonjs"
	ModuleSystemES6      = "es6"
)

// Config carries ecosystem-specific resolution knobs. The dispatcher only
// reads ModuleSystem; every other field is consumed by the resolver it
// concerns.
type Config struct {
	// ModuleSystem forces the JavaScript module system instead of detecting
	// it from file content. Valid values: "amd", "commonjs", "es6".
	ModuleSystem string `yaml:"moduleSystem" json:"moduleSystem" toml:"moduleSystem"`

	// Resolve holds bundler-style resolve options (aliases, extensions).
	Resolve ResolveConfig `yaml:"resolve" json:"resolve" toml:"resolve"`

	// AMD holds the AMD loader configuration.
	AMD AMDConfig `yaml:"amd" json:"amd" toml:"amd"`

	// Sass holds Sass load paths.
	Sass StyleConfig `yaml:"sass" json:"sass" toml:"sass"`

	// Stylus holds Stylus include paths.
	Stylus StyleConfig `yaml:"stylus" json:"stylus" toml:"stylus"`

	// TSConfig is the path to a tsconfig.json whose baseUrl and paths
	// apply to TypeScript files.
	TSConfig string `yaml:"tsconfig" json:"tsconfig" toml:"tsconfig"`
}

// ResolveConfig mirrors the resolve section of a module bundler config.
type ResolveConfig struct {
	// Alias maps a module name prefix to a replacement path.
	// A key ending in "$" matches the module name exactly.
	Alias map[string]string `yaml:"alias" json:"alias" toml:"alias"`

	// Extensions is the extension search order for extensionless partials.
	Extensions []string `yaml:"extensions" json:"extensions" toml:"extensions"`

	// Modules lists the directory names searched for packages.
	// Defaults to node_modules.
	Modules []string `yaml:"modules" json:"modules" toml:"modules"`
}

// AMDConfig is the subset of a RequireJS loader config used for lookup.
type AMDConfig struct {
	// ConfigFile is a loader config file (JSON, YAML, or a JavaScript file
	// calling require.config). Inline BaseURL and Paths override it.
	ConfigFile string `yaml:"configFile" json:"configFile" toml:"configFile"`

	// BaseURL is the root for non-relative module IDs.
	BaseURL string `yaml:"baseUrl" json:"baseUrl" toml:"baseUrl"`

	// Paths maps module ID prefixes to locations relative to BaseURL.
	Paths map[string]string `yaml:"paths" json:"paths" toml:"paths"`
}

// StyleConfig lists the directories a stylesheet resolver searches.
type StyleConfig struct {
	IncludePaths []string `yaml:"includePaths" json:"includePaths" toml:"includePaths"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{}
}

// ModuleSystemOverride returns the normalized ModuleSystem value.
// A nil config has no override.
func (c *Config) ModuleSystemOverride() string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.ModuleSystem))
}

// ResolveOptions returns the resolve section, tolerating a nil config.
func (c *Config) ResolveOptions() ResolveConfig {
	if c == nil {
		return ResolveConfig{}
	}
	return c.Resolve
}

// ApplyAlias rewrites a partial according to Resolve.Alias. Exact keys
// (suffixed with "$") win over prefix keys, and longer prefixes win over
// shorter ones. The second return value reports whether an alias applied.
func (c *Config) ApplyAlias(partial string) (string, bool) {
	if c == nil || len(c.Resolve.Alias) == 0 {
		return partial, false
	}

	if target, ok := c.Resolve.Alias[partial+"$"]; ok {
		return target, true
	}

	best := ""
	for key := range c.Resolve.Alias {
		if strings.HasSuffix(key, "$") {
			continue
		}
		if partial != key && !strings.HasPrefix(partial, key+"/") {
			continue
		}
		if len(key) > len(best) {
			best = key
		}
	}
	if best == "" {
		return partial, false
	}
	return c.Resolve.Alias[best] + strings.TrimPrefix(partial, best), true
}
