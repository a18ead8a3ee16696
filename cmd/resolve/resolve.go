/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for cabinet.
package resolve

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/cabinet/cabinet"
	"bennypowers.dev/cabinet/cmd/project"
	"bennypowers.dev/cabinet/cmd/render"
	cabfs "bennypowers.dev/cabinet/fs"
)

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve <file> <partial>...",
	Short: "Resolve module specifiers found in a file",
	Long: `Resolve each partial as if it were imported from <file>, printing the
resolved path or nothing when the partial cannot be found.`,
	Example: `  cabinet resolve src/app.js ./util lodash
  cabinet resolve --format json styles/main.scss variables`,
	Args: cobra.MinimumNArgs(2),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format: text, json, table, markdown")
}

// Output is one resolution in the command's output.
type Output struct {
	Partial      string `json:"partial"`
	Path         string `json:"path"`
	Reason       string `json:"reason"`
	ModuleSystem string `json:"moduleSystem,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	settings, err := project.Load(cabfs.NewOSFileSystem())
	if err != nil {
		return err
	}

	results, err := Resolve(cabinet.Default(), settings, args[0], args[1:])
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return writeJSON(cmd.OutOrStdout(), results)
	case "text":
		return writeText(cmd.OutOrStdout(), results)
	case "table":
		return render.Table(cmd.OutOrStdout(), Rows(results))
	case "markdown":
		return render.Markdown(cmd.OutOrStdout(), args[0], Rows(results))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Resolve resolves each partial as imported from filename. A resolver
// failure stops at the first error.
func Resolve(c *cabinet.Cabinet, settings *project.Settings, filename string, partials []string) ([]Output, error) {
	file := settings.Abs(filename)
	out := make([]Output, 0, len(partials))

	for _, partial := range partials {
		result, err := c.ResolveDetailed(cabinet.Request{
			Partial:   partial,
			Filename:  file,
			Directory: settings.Root,
			Config:    settings.Config,
		})
		if err != nil {
			return out, fmt.Errorf("resolving %q from %s: %w", partial, filename, err)
		}

		o := Output{
			Partial: partial,
			Path:    result.Path,
			Reason:  result.Reason.String(),
		}
		if cabinet.IsJavaScript(result.Extension) {
			o.ModuleSystem = result.ModuleSystem.String()
		}
		out = append(out, o)
	}
	return out, nil
}

// Rows converts results to rendered rows, showing the reason in place of a
// missing path.
func Rows(results []Output) []render.Row {
	rows := make([]render.Row, 0, len(results))
	for _, r := range results {
		value := r.Path
		if value == "" {
			value = "(" + r.Reason + ")"
		}
		rows = append(rows, render.Row{Name: r.Partial, System: r.ModuleSystem, Value: value})
	}
	return rows
}

func writeText(w io.Writer, results []Output) error {
	for _, r := range results {
		if r.Path == "" {
			if _, err := fmt.Fprintf(w, "%s\t(%s)\n", r.Partial, r.Reason); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Partial, r.Path); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
