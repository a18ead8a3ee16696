/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cabinet resolves partial module specifiers to filesystem paths,
// routing each request to a resolver chosen by the referencing file's
// extension and, for JavaScript, by its module system.
//
// The package-level functions use a process-wide Cabinet seeded with the
// built-in resolvers. Register binds additional extensions or replaces
// built-in bindings:
//
//	cabinet.Register(".vue", lookup.Func(resolveVue))
//	path, err := cabinet.Resolve(cabinet.Request{
//		Partial:   "./bar",
//		Filename:  "src/foo.js",
//		Directory: "src",
//	})
//
// An empty path with a nil error means the partial could not be resolved,
// either because no resolver handles the extension or because the resolver
// found nothing. ResolveDetailed tells the two apart.
package cabinet

import (
	"errors"
	"fmt"
	"path/filepath"

	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/internal/logger"
	"bennypowers.dev/cabinet/lookup"
	"bennypowers.dev/cabinet/lookup/amd"
	"bennypowers.dev/cabinet/lookup/commonjs"
	"bennypowers.dev/cabinet/lookup/generic"
	"bennypowers.dev/cabinet/lookup/sass"
	"bennypowers.dev/cabinet/lookup/stylus"
	"bennypowers.dev/cabinet/lookup/typescript"
	"bennypowers.dev/cabinet/moduletype"
)

// ErrNilResolver indicates a nil resolver was registered for an extension.
var ErrNilResolver = errors.New("nil resolver registered")

type (
	// Request is a resolution request.
	Request = lookup.Request
	// Resolver is a resolver capability.
	Resolver = lookup.Resolver
	// ResolverFunc adapts a function to Resolver.
	ResolverFunc = lookup.Func
)

// Reason explains a resolution outcome.
type Reason int

const (
	// ReasonResolved means a path was found.
	ReasonResolved Reason = iota
	// ReasonUnsupportedExtension means no resolver is bound to the extension.
	ReasonUnsupportedExtension
	// ReasonNotFound means the resolver could not locate the partial.
	ReasonNotFound
)

func (r Reason) String() string {
	switch r {
	case ReasonResolved:
		return "resolved"
	case ReasonUnsupportedExtension:
		return "unsupported extension"
	case ReasonNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Result is the detailed outcome of a resolution.
type Result struct {
	// Path is the resolved path, empty unless Reason is ReasonResolved.
	Path string `json:"path"`
	// Extension is the referencing file's extension.
	Extension string `json:"extension"`
	// Reason explains the outcome.
	Reason Reason `json:"reason"`
	// ModuleSystem is the detected module system for JavaScript files.
	ModuleSystem moduletype.Type `json:"moduleSystem"`
}

// Options configures a Cabinet. Nil resolvers are replaced by the built-in
// implementation for that ecosystem.
type Options struct {
	// FS is the filesystem resolvers and module detection read from.
	// Defaults to the OS filesystem.
	FS cabfs.FileSystem

	// Detector detects JavaScript module systems. Defaults to a detector
	// reading from FS.
	Detector *moduletype.Detector

	Generic    lookup.Resolver
	AMD        lookup.Resolver
	CommonJS   lookup.Resolver
	Sass       lookup.Resolver
	Stylus     lookup.Resolver
	TypeScript lookup.Resolver
}

// Cabinet dispatches resolution requests through its extension registry.
type Cabinet struct {
	registry *Registry
}

// New creates a Cabinet whose registry holds the built-in bindings.
func New(opts Options) *Cabinet {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = cabfs.NewOSFileSystem()
	}

	detector := opts.Detector
	if detector == nil {
		detector = moduletype.NewDetector(filesystem, 0)
	}

	js := &javascriptResolver{
		detector: detector,
		amd:      orDefault(opts.AMD, func() lookup.Resolver { return amd.New(filesystem) }),
		commonjs: orDefault(opts.CommonJS, func() lookup.Resolver { return commonjs.New(filesystem) }),
		generic:  orDefault(opts.Generic, func() lookup.Resolver { return generic.New(filesystem) }),
	}
	sassResolver := orDefault(opts.Sass, func() lookup.Resolver { return sass.New(filesystem) })
	stylusResolver := orDefault(opts.Stylus, func() lookup.Resolver { return stylus.New(filesystem) })
	tsResolver := orDefault(opts.TypeScript, func() lookup.Resolver { return typescript.New(filesystem) })

	reg := NewRegistry()
	for _, ext := range JSExtensions {
		reg.Register(ext, js)
	}
	reg.Register(".scss", sassResolver)
	reg.Register(".sass", sassResolver)
	reg.Register(".styl", stylusResolver)
	reg.Register(".ts", tsResolver)
	reg.Register(".tsx", tsResolver)

	return &Cabinet{registry: reg}
}

func orDefault(r lookup.Resolver, build func() lookup.Resolver) lookup.Resolver {
	if r != nil {
		return r
	}
	return build()
}

// isNil reports whether r cannot be called, including a nil ResolverFunc.
func isNil(r lookup.Resolver) bool {
	if r == nil {
		return true
	}
	f, ok := r.(lookup.Func)
	return ok && f == nil
}

// Registry returns the cabinet's extension registry.
func (c *Cabinet) Registry() *Registry {
	return c.registry
}

// Register binds ext (e.g. ".vue") to r, replacing any existing binding.
func (c *Cabinet) Register(ext string, r lookup.Resolver) {
	c.registry.Register(ext, r)
}

// Lookup returns the resolver bound to ext.
func (c *Cabinet) Lookup(ext string) (lookup.Resolver, bool) {
	return c.registry.Lookup(ext)
}

// Extensions returns the registered extensions in sorted order.
func (c *Cabinet) Extensions() []string {
	return c.registry.Extensions()
}

// Resolve returns the path req.Partial refers to, or "" when it cannot be
// resolved. Errors are reserved for invalid requests and resolver failures,
// which are returned unmodified.
func (c *Cabinet) Resolve(req Request) (string, error) {
	result, err := c.ResolveDetailed(req)
	return result.Path, err
}

// ResolveDetailed resolves req and reports why resolution failed.
func (c *Cabinet) ResolveDetailed(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	ext := filepath.Ext(req.Filename)
	result := Result{Extension: ext}

	r, ok := c.registry.Lookup(ext)
	if ext == "" || !ok {
		logger.Debug("no resolver for %q (%s)", ext, req.Filename)
		result.Reason = ReasonUnsupportedExtension
		return result, nil
	}

	if js, ok := r.(*javascriptResolver); ok {
		result.ModuleSystem, r = js.choose(req)
	}
	if isNil(r) {
		return result, fmt.Errorf("%w for %q", ErrNilResolver, ext)
	}

	path, err := r.Resolve(req)
	switch {
	case lookup.IsNotFound(err):
		logger.Debug("%v", err)
		result.Reason = ReasonNotFound
		return result, nil
	case err != nil:
		return result, err
	case path == "":
		logger.Debug("%q from %s: no result", req.Partial, req.Filename)
		result.Reason = ReasonNotFound
		return result, nil
	}

	result.Path = path
	result.Reason = ReasonResolved
	return result, nil
}

var std = New(Options{})

// Default returns the process-wide Cabinet used by the package-level functions.
func Default() *Cabinet {
	return std
}

// Resolve resolves req with the process-wide Cabinet.
func Resolve(req Request) (string, error) {
	return std.Resolve(req)
}

// ResolveDetailed resolves req with the process-wide Cabinet.
func ResolveDetailed(req Request) (Result, error) {
	return std.ResolveDetailed(req)
}

// Register binds ext to r in the process-wide Cabinet. The binding applies to
// every later resolution in the process.
func Register(ext string, r lookup.Resolver) {
	std.Register(ext, r)
}

// Lookup returns the resolver bound to ext in the process-wide Cabinet.
func Lookup(ext string) (lookup.Resolver, bool) {
	return std.Lookup(ext)
}

// Extensions returns the extensions registered in the process-wide Cabinet.
func Extensions() []string {
	return std.Extensions()
}
