/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project reads the persistent CLI settings shared by every command:
// the project root, the config file, and the module system override.
package project

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
)

// Viper keys bound to the root command's persistent flags.
const (
	KeyConfig       = "config"
	KeyDirectory    = "directory"
	KeyModuleSystem = "module-system"
	KeyVerbose      = "verbose"
)

// Settings is the resolved project context for a command.
type Settings struct {
	// Root is the absolute project root.
	Root string
	// Config is the loaded config, never nil.
	Config *config.Config
}

// Load resolves the project root and config from viper. An explicit config
// file must load cleanly; the discovered .config/cabinet.* file falls back
// to defaults when malformed.
func Load(filesystem cabfs.FileSystem) (*Settings, error) {
	root, err := filepath.Abs(viper.GetString(KeyDirectory))
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}

	var cfg *config.Config
	if path := viper.GetString(KeyConfig); path != "" {
		cfg, err = config.LoadFile(filesystem, path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.LoadOrDefault(filesystem, root)
	}

	if system := viper.GetString(KeyModuleSystem); system != "" {
		cfg.ModuleSystem = system
	}

	return &Settings{Root: root, Config: cfg}, nil
}

// Abs returns path made absolute against the project root.
func (s *Settings) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(s.Root, path)
}
