/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet

import (
	"slices"

	"bennypowers.dev/cabinet/internal/logger"
	"bennypowers.dev/cabinet/lookup"
	"bennypowers.dev/cabinet/moduletype"
)

// JSExtensions are the extensions whose files are routed by module system
// rather than by extension alone.
var JSExtensions = []string{".js", ".jsx", ".mjs", ".cjs"}

// IsJavaScript reports whether ext is one of JSExtensions.
func IsJavaScript(ext string) bool {
	return slices.Contains(JSExtensions, ext)
}

// javascriptResolver picks the AMD, CommonJS, or generic resolver for a
// JavaScript file. Several module systems share one extension, so the choice
// depends on the file itself.
type javascriptResolver struct {
	detector *moduletype.Detector
	amd      lookup.Resolver
	commonjs lookup.Resolver
	generic  lookup.Resolver
}

// Resolve implements lookup.Resolver.
func (j *javascriptResolver) Resolve(req lookup.Request) (string, error) {
	_, r := j.choose(req)
	if isNil(r) {
		return "", ErrNilResolver
	}
	return r.Resolve(req)
}

// choose returns the module system of req.Filename and the resolver bound to
// it. AMD is checked before CommonJS, and anything else goes to the generic
// resolver.
func (j *javascriptResolver) choose(req lookup.Request) (moduletype.Type, lookup.Resolver) {
	system := j.moduleSystem(req)
	logger.Debug("%s uses %s modules", req.Filename, system)

	switch system {
	case moduletype.AMD:
		return system, j.amd
	case moduletype.CommonJS:
		return system, j.commonjs
	default:
		return system, j.generic
	}
}

// moduleSystem honors a configured override, then falls back to detecting
// markers in the file. Unreadable files carry no markers.
func (j *javascriptResolver) moduleSystem(req lookup.Request) moduletype.Type {
	if override := req.Config.ModuleSystemOverride(); override != "" {
		system, err := moduletype.ParseType(override)
		if err == nil {
			return system
		}
		logger.Warn("ignoring moduleSystem setting: %v", err)
	}

	system, err := j.detector.DetectFile(req.Filename)
	if err != nil {
		logger.Debug("cannot detect module system: %v", err)
		return moduletype.None
	}
	return system
}
