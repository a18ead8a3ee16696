/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command for cabinet.
package mcp

import (
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/cabinet/cmd/project"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/internal/logger"
	"bennypowers.dev/cabinet/internal/mcpserver"
	"bennypowers.dev/cabinet/moduletype"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve cabinet tools over the Model Context Protocol",
	Long: `Start a Model Context Protocol server on stdin and stdout exposing the
resolve_dependency, detect_module_system, and list_extensions tools. Relative
paths in tool arguments are taken from --directory.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol stream.
	logger.SetOutput(io.Discard)

	filesystem := cabfs.NewOSFileSystem()
	settings, err := project.Load(filesystem)
	if err != nil {
		return err
	}

	server := mcpserver.New(mcpserver.Options{
		Detector: moduletype.NewDetector(filesystem, 0),
		Root:     settings.Root,
		Config:   settings.Config,
	})
	return server.Run(cmd.Context())
}
