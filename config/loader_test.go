/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"errors"
	"slices"
	"testing"

	"bennypowers.dev/cabinet/internal/mapfs"
	"bennypowers.dev/cabinet/testutil"
)

func TestLoad_YAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/yaml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.ModuleSystem != ModuleSystemCommonJS {
		t.Errorf("expected moduleSystem %q, got %q", ModuleSystemCommonJS, cfg.ModuleSystem)
	}
	if cfg.TSConfig != "/project/tsconfig.json" {
		t.Errorf("expected tsconfig anchored at project root, got %q", cfg.TSConfig)
	}
	if want := []string{".js", ".jsx"}; !slices.Equal(cfg.Resolve.Extensions, want) {
		t.Errorf("expected extensions %v, got %v", want, cfg.Resolve.Extensions)
	}
	if want := []string{"node_modules", "vendor"}; !slices.Equal(cfg.Resolve.Modules, want) {
		t.Errorf("expected modules %v, got %v", want, cfg.Resolve.Modules)
	}
	if got := cfg.Resolve.Alias["@components"]; got != "/project/src/components" {
		t.Errorf("expected relative alias target to be anchored, got %q", got)
	}
	if got := cfg.Resolve.Alias["lodash$"]; got != "lodash-es" {
		t.Errorf("expected package alias target unchanged, got %q", got)
	}
	if cfg.AMD.ConfigFile != "/project/src/require.config.js" {
		t.Errorf("expected anchored AMD config file, got %q", cfg.AMD.ConfigFile)
	}
	if cfg.AMD.Paths["jquery"] != "vendor/jquery" {
		t.Errorf("expected AMD paths entry to stay relative, got %q", cfg.AMD.Paths["jquery"])
	}
	if want := []string{"/project/styles", "/opt/shared/sass"}; !slices.Equal(cfg.Sass.IncludePaths, want) {
		t.Errorf("expected sass include paths %v, got %v", want, cfg.Sass.IncludePaths)
	}
	if want := []string{"/project/styles/stylus"}; !slices.Equal(cfg.Stylus.IncludePaths, want) {
		t.Errorf("expected stylus include paths %v, got %v", want, cfg.Stylus.IncludePaths)
	}
}

func TestLoad_JSON(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/json", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ModuleSystem != ModuleSystemAMD {
		t.Errorf("expected moduleSystem %q, got %q", ModuleSystemAMD, cfg.ModuleSystem)
	}
	if cfg.AMD.BaseURL != "/project/public/js" {
		t.Errorf("expected anchored baseUrl, got %q", cfg.AMD.BaseURL)
	}
	if cfg.AMD.Paths["text"] != "lib/text" {
		t.Errorf("expected paths.text 'lib/text', got %q", cfg.AMD.Paths["text"])
	}
	if want := []string{".mjs", ".js"}; !slices.Equal(cfg.Resolve.Extensions, want) {
		t.Errorf("expected extensions %v, got %v", want, cfg.Resolve.Extensions)
	}
}

func TestLoad_TOML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/toml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ModuleSystem != ModuleSystemES6 {
		t.Errorf("expected moduleSystem %q, got %q", ModuleSystemES6, cfg.ModuleSystem)
	}
	if cfg.TSConfig != "/project/config/tsconfig.app.json" {
		t.Errorf("expected anchored tsconfig, got %q", cfg.TSConfig)
	}
	if got := cfg.Resolve.Alias["~"]; got != "/project/src" {
		t.Errorf("expected alias ~ -> /project/src, got %q", got)
	}
	if want := []string{"/project/node_modules/nib/lib"}; !slices.Equal(cfg.Stylus.IncludePaths, want) {
		t.Errorf("expected stylus include paths %v, got %v", want, cfg.Stylus.IncludePaths)
	}
}

func TestLoad_Priority(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/project/.config/cabinet.json": `{"moduleSystem": "amd"}`,
		"/project/.config/cabinet.yaml": `moduleSystem: commonjs`,
	})

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ModuleSystem != ModuleSystemCommonJS {
		t.Errorf("expected yaml to take priority, got moduleSystem %q", cfg.ModuleSystem)
	}
}

func TestLoad_NotFound(t *testing.T) {
	mfs := mapfs.New()

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/invalid", "/project")

	if _, err := Load(mfs, "/project"); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{"/project/cabinet.ini": "moduleSystem=amd"})

	_, err := LoadFile(mfs, "/project/cabinet.ini")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFile_OutsideConfigDir(t *testing.T) {
	mfs := mapfs.FromMap(map[string]string{
		"/elsewhere/settings.yaml": "tsconfig: tsconfig.base.json\n",
	})

	cfg, err := LoadFile(mfs, "/elsewhere/settings.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TSConfig != "/elsewhere/tsconfig.base.json" {
		t.Errorf("expected tsconfig anchored at the file's directory, got %q", cfg.TSConfig)
	}
}

func TestLoadOrDefault_Found(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/yaml", "/project")

	cfg := LoadOrDefault(mfs, "/project")
	if cfg.ModuleSystem != ModuleSystemCommonJS {
		t.Errorf("expected moduleSystem from file, got %q", cfg.ModuleSystem)
	}
}

func TestLoadOrDefault_NotFound(t *testing.T) {
	cfg := LoadOrDefault(mapfs.New(), "/project")
	if cfg == nil {
		t.Fatal("expected default config, got nil")
	}
	if cfg.ModuleSystem != "" {
		t.Errorf("expected no module system override, got %q", cfg.ModuleSystem)
	}
}

func TestLoadOrDefault_Invalid(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/invalid", "/project")

	cfg := LoadOrDefault(mfs, "/project")
	if cfg == nil || cfg.ModuleSystem != "" {
		t.Errorf("expected default config for malformed file, got %+v", cfg)
	}
}

func TestFind(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "config/toml", "/project")

	path, ok := Find(mfs, "/project")
	if !ok || path != "/project/.config/cabinet.toml" {
		t.Errorf("Find() = (%q, %v), want the toml config", path, ok)
	}

	if _, ok := Find(mfs, "/elsewhere"); ok {
		t.Error("expected no config outside the project")
	}
}
