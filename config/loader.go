/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/internal/logger"
)

// ErrUnsupportedFormat indicates a config file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "cabinet"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json", ".toml"}

// Find returns the path of the first .config/cabinet.{yaml,yml,json,toml}
// file under rootDir.
func Find(filesystem cabfs.FileSystem, rootDir string) (string, bool) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if filesystem.Exists(configPath) {
			return configPath, true
		}
	}
	return "", false
}

// Load searches for .config/cabinet.{yaml,yml,json,toml} from rootDir.
// Returns nil if no config found (not an error).
func Load(filesystem cabfs.FileSystem, rootDir string) (*Config, error) {
	configPath, ok := Find(filesystem, rootDir)
	if !ok {
		return nil, nil
	}
	return LoadFile(filesystem, configPath)
}

// LoadFile decodes the config file at path, choosing the decoder by extension.
// Relative paths inside the file are resolved against the file's directory.
func LoadFile(filesystem cabfs.FileSystem, path string) (*Config, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.anchor(filepath.Dir(path))
	return cfg, nil
}

// LoadOrDefault returns config or defaults if not found.
func LoadOrDefault(filesystem cabfs.FileSystem, rootDir string) *Config {
	cfg, err := Load(filesystem, rootDir)
	if err != nil {
		logger.Warn("ignoring config in %s: %v", rootDir, err)
		return Default()
	}
	if cfg == nil {
		return Default()
	}
	return cfg
}

func decode(path string, data []byte, v any) error {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	case ".json":
		return json.Unmarshal(jsonc.ToJSON(data), v)
	case ".toml":
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// anchor makes file references in the config absolute relative to dir.
// The config lives in .config/, so references are taken from the project
// root, its parent.
func (c *Config) anchor(dir string) {
	root := dir
	if filepath.Base(dir) == ConfigDir {
		root = filepath.Dir(dir)
	}

	c.TSConfig = join(root, c.TSConfig)
	c.AMD.ConfigFile = join(root, c.AMD.ConfigFile)
	c.AMD.BaseURL = join(root, c.AMD.BaseURL)
	for i, p := range c.Sass.IncludePaths {
		c.Sass.IncludePaths[i] = join(root, p)
	}
	for i, p := range c.Stylus.IncludePaths {
		c.Stylus.IncludePaths[i] = join(root, p)
	}
	for key, target := range c.Resolve.Alias {
		if isRelativePath(target) {
			c.Resolve.Alias[key] = filepath.Join(root, target)
		}
	}
}

func join(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func isRelativePath(p string) bool {
	return p == "." || p == ".." ||
		len(p) > 1 && p[:2] == "./" ||
		len(p) > 2 && p[:3] == "../"
}
