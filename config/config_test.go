/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import "testing"

func TestConfig_ApplyAlias(t *testing.T) {
	cfg := &Config{Resolve: ResolveConfig{Alias: map[string]string{
		"@app":            "/project/src",
		"@app/components": "/project/ui",
		"lodash$":         "lodash-es",
	}}}

	tests := []struct {
		partial string
		want    string
		applied bool
	}{
		{"@app/util", "/project/src/util", true},
		{"@app", "/project/src", true},
		{"@app/components/button", "/project/ui/button", true},
		{"@apple/pie", "@apple/pie", false},
		{"lodash", "lodash-es", true},
		{"lodash/fp", "lodash/fp", false},
		{"./local", "./local", false},
	}

	for _, tt := range tests {
		t.Run(tt.partial, func(t *testing.T) {
			got, applied := cfg.ApplyAlias(tt.partial)
			if got != tt.want || applied != tt.applied {
				t.Errorf("ApplyAlias(%q) = (%q, %v), want (%q, %v)",
					tt.partial, got, applied, tt.want, tt.applied)
			}
		})
	}
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *Config

	if got := cfg.ModuleSystemOverride(); got != "" {
		t.Errorf("ModuleSystemOverride() = %q, want empty", got)
	}
	if got := cfg.ResolveOptions(); got.Extensions != nil || got.Alias != nil {
		t.Errorf("ResolveOptions() = %+v, want zero value", got)
	}
	if got, applied := cfg.ApplyAlias("x"); got != "x" || applied {
		t.Errorf("ApplyAlias on nil config = (%q, %v)", got, applied)
	}
}

func TestConfig_ModuleSystemOverride(t *testing.T) {
	cfg := &Config{ModuleSystem: "  CommonJS "}
	if got := cfg.ModuleSystemOverride(); got != ModuleSystemCommonJS {
		t.Errorf("ModuleSystemOverride() = %q, want %q", got, ModuleSystemCommonJS)
	}
}
