/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcpserver exposes cabinet's resolution and module detection as
// Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/cabinet/cabinet"
	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/internal/version"
	"bennypowers.dev/cabinet/moduletype"
)

// ErrRelativePath indicates a tool argument needed an absolute path or a
// project root to anchor it.
var ErrRelativePath = errors.New("path must be absolute when no project root is configured")

// Options configures a Server.
type Options struct {
	// Cabinet resolves requests. Defaults to the process-wide Cabinet.
	Cabinet *cabinet.Cabinet
	// Detector reports module systems for detect_module_system. Defaults to
	// a detector reading the OS filesystem.
	Detector *moduletype.Detector
	// Root anchors relative paths and is the default lookup directory.
	Root string
	// Config is passed to every resolution request.
	Config *config.Config
}

// Server serves cabinet tools over MCP.
type Server struct {
	cabinet  *cabinet.Cabinet
	detector *moduletype.Detector
	root     string
	config   *config.Config
	server   *mcp.Server
}

// ResolveInput is the resolve_dependency argument object.
type ResolveInput struct {
	Partial      string `json:"partial" jsonschema:"the module specifier as written in source, e.g. ./bar or lodash"`
	Filename     string `json:"filename" jsonschema:"the file containing the specifier"`
	Directory    string `json:"directory,omitempty" jsonschema:"project root for the lookup; defaults to the server's root"`
	ModuleSystem string `json:"moduleSystem,omitempty" jsonschema:"force the JavaScript module system: amd, commonjs, or es6"`
}

// ResolveOutput is the resolve_dependency result.
type ResolveOutput struct {
	Path         string `json:"path"`
	Reason       string `json:"reason"`
	Extension    string `json:"extension"`
	ModuleSystem string `json:"moduleSystem,omitempty"`
}

// DetectInput is the detect_module_system argument object.
type DetectInput struct {
	Filename string `json:"filename" jsonschema:"the JavaScript file to inspect"`
}

// DetectOutput is the detect_module_system result.
type DetectOutput struct {
	ModuleSystem string `json:"moduleSystem"`
}

// ExtensionsInput is the list_extensions argument object.
type ExtensionsInput struct{}

// ExtensionsOutput is the list_extensions result.
type ExtensionsOutput struct {
	Extensions []string `json:"extensions"`
}

// New creates a Server and registers its tools.
func New(opts Options) *Server {
	s := &Server{
		cabinet:  opts.Cabinet,
		detector: opts.Detector,
		root:     opts.Root,
		config:   opts.Config,
	}
	if s.cabinet == nil {
		s.cabinet = cabinet.Default()
	}
	if s.detector == nil {
		s.detector = moduletype.NewDetector(cabfs.NewOSFileSystem(), 0)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "cabinet",
		Version: version.Get(),
	}, nil)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_dependency",
		Description: "Resolve a module specifier found in a source file to the path of the file it refers to. An empty path means the specifier could not be resolved; reason says why.",
	}, s.resolve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_module_system",
		Description: "Report whether a JavaScript file is an AMD, CommonJS, or ES module.",
	}, s.detect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_extensions",
		Description: "List the file extensions resolve_dependency supports.",
	}, s.extensions)

	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves over stdin and stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) resolve(ctx context.Context, req *mcp.CallToolRequest, in ResolveInput) (*mcp.CallToolResult, ResolveOutput, error) {
	filename, err := s.abs(in.Filename)
	if err != nil {
		return nil, ResolveOutput{}, err
	}
	directory := s.root
	if in.Directory != "" {
		if directory, err = s.abs(in.Directory); err != nil {
			return nil, ResolveOutput{}, err
		}
	}

	cfg := s.config
	if in.ModuleSystem != "" {
		override := config.Config{}
		if cfg != nil {
			override = *cfg
		}
		override.ModuleSystem = in.ModuleSystem
		cfg = &override
	}

	result, err := s.cabinet.ResolveDetailed(cabinet.Request{
		Partial:   in.Partial,
		Filename:  filename,
		Directory: directory,
		Config:    cfg,
	})
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	out := ResolveOutput{
		Path:      result.Path,
		Reason:    result.Reason.String(),
		Extension: result.Extension,
	}
	if cabinet.IsJavaScript(result.Extension) {
		out.ModuleSystem = result.ModuleSystem.String()
	}
	return nil, out, nil
}

func (s *Server) detect(ctx context.Context, req *mcp.CallToolRequest, in DetectInput) (*mcp.CallToolResult, DetectOutput, error) {
	filename, err := s.abs(in.Filename)
	if err != nil {
		return nil, DetectOutput{}, err
	}
	system, err := s.detector.DetectFile(filename)
	if err != nil {
		return nil, DetectOutput{}, err
	}
	return nil, DetectOutput{ModuleSystem: system.String()}, nil
}

func (s *Server) extensions(ctx context.Context, req *mcp.CallToolRequest, in ExtensionsInput) (*mcp.CallToolResult, ExtensionsOutput, error) {
	return nil, ExtensionsOutput{Extensions: s.cabinet.Extensions()}, nil
}

func (s *Server) abs(path string) (string, error) {
	switch {
	case path == "" || filepath.IsAbs(path):
		return path, nil
	case s.root == "":
		return "", ErrRelativePath
	default:
		return filepath.Join(s.root, path), nil
	}
}
