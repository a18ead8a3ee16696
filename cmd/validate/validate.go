/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for cabinet.
package validate

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/cabinet/cmd/project"
	"bennypowers.dev/cabinet/config"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/validator"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the project's cabinet config",
	Long: `Check that the cabinet config names a known module system and that the
files and directories it refers to exist.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("quiet", false, "Only output errors")
}

func run(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	root, err := filepath.Abs(viper.GetString(project.KeyDirectory))
	if err != nil {
		return err
	}
	return Validate(cabfs.NewOSFileSystem(), viper.GetString(project.KeyConfig), root, cmd.OutOrStdout(), quiet)
}

// Validate checks the config at path, or the config discovered under root
// when path is empty, and writes a report to w.
func Validate(filesystem cabfs.FileSystem, path, root string, w io.Writer, quiet bool) error {
	if path == "" {
		found, ok := config.Find(filesystem, root)
		if !ok {
			if !quiet {
				fmt.Fprintf(w, "No config found in %s; using defaults.\n", filepath.Join(root, config.ConfigDir))
			}
			return nil
		}
		path = found
	}

	if !quiet {
		fmt.Fprintf(w, "Validating %s...\n", path)
	}

	cfg, err := config.LoadFile(filesystem, path)
	if err != nil {
		return err
	}

	errs := validator.Validate(filesystem, cfg, path)
	for _, e := range errs {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed with %d error(s)", len(errs))
	}

	if !quiet {
		fmt.Fprintln(w, "Config valid.")
	}
	return nil
}
