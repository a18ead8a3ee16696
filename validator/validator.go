/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator checks a cabinet config against the project it
// describes, so mistakes surface before they turn into silent lookup misses.
package validator

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"

	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/moduletype"
)

// ValidationError represents a config problem.
type ValidationError struct {
	// FilePath is the path to the config file, if known.
	FilePath string
	// Path is the dotted key of the problematic setting.
	Path string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		sb.WriteString(e.FilePath)
		sb.WriteString(": ")
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Validate checks cfg against filesystem. Paths in cfg are expected to be
// anchored already, as config.LoadFile leaves them. Returns errors for:
// - an unknown moduleSystem
// - resolve.extensions entries without a leading dot
// - aliases with an empty name or target
// - a missing or malformed tsconfig
// - an AMD loader config that cannot be read
// - include paths that are not directories
func Validate(filesystem cabfs.FileSystem, cfg *config.Config, filePath string) []ValidationError {
	if cfg == nil {
		return nil
	}
	v := &validation{fs: filesystem, file: filePath}

	if _, err := moduletype.ParseType(cfg.ModuleSystem); err != nil {
		v.add("moduleSystem", err.Error(), "use amd, commonjs, or es6, or remove the setting to detect it per file")
	}

	for i, ext := range cfg.Resolve.Extensions {
		if !strings.HasPrefix(ext, ".") {
			v.add(fmt.Sprintf("resolve.extensions[%d]", i),
				fmt.Sprintf("extension %q has no leading dot", ext),
				fmt.Sprintf("use %q", "."+ext))
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Resolve.Alias)) {
		target := cfg.Resolve.Alias[name]
		switch {
		case strings.TrimSuffix(name, "$") == "":
			v.add("resolve.alias", "alias with an empty name", "remove the entry")
		case target == "":
			v.add("resolve.alias."+name, "alias has an empty target", "map it to a module name or a ./relative path")
		}
	}

	if cfg.TSConfig != "" {
		v.tsconfig(cfg.TSConfig)
	}

	if cfg.AMD.ConfigFile != "" {
		if _, err := config.LoadAMDConfig(filesystem, cfg.AMD.ConfigFile); err != nil {
			v.add("amd.configFile", err.Error(), "point it at a JSON file or a script calling require.config({...})")
		}
	}
	if cfg.AMD.BaseURL != "" {
		v.directory("amd.baseUrl", cfg.AMD.BaseURL)
	}

	for i, dir := range cfg.Sass.IncludePaths {
		v.directory(fmt.Sprintf("sass.includePaths[%d]", i), dir)
	}
	for i, dir := range cfg.Stylus.IncludePaths {
		v.directory(fmt.Sprintf("stylus.includePaths[%d]", i), dir)
	}

	return v.errors
}

type validation struct {
	fs     cabfs.FileSystem
	file   string
	errors []ValidationError
}

func (v *validation) add(path, message, suggestion string) {
	v.errors = append(v.errors, ValidationError{
		FilePath:   v.file,
		Path:       path,
		Message:    message,
		Suggestion: suggestion,
	})
}

func (v *validation) tsconfig(path string) {
	data, err := v.fs.ReadFile(path)
	if err != nil {
		v.add("tsconfig", fmt.Sprintf("cannot read %s", path), "check the path is relative to the project root")
		return
	}
	if !json.Valid(jsonc.ToJSON(data)) {
		v.add("tsconfig", fmt.Sprintf("%s is not valid JSON", path), "")
	}
}

func (v *validation) directory(key, dir string) {
	if !cabfs.IsDir(v.fs, dir) {
		v.add(key, fmt.Sprintf("%s is not a directory", dir), "check the path is relative to the project root")
	}
}
