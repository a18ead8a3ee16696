/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package extensions provides the extensions command for cabinet.
package extensions

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/cabinet/cabinet"
)

// Cmd is the extensions cobra command.
var Cmd = &cobra.Command{
	Use:   "extensions",
	Short: "List the file extensions cabinet can resolve from",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	return write(cmd.OutOrStdout(), format, cabinet.Extensions())
}

func write(w io.Writer, format string, exts []string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(exts, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling extensions: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "text":
		for _, ext := range exts {
			if _, err := fmt.Fprintln(w, ext); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
