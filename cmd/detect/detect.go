/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package detect provides the detect command for cabinet.
package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bennypowers.dev/cabinet/cmd/project"
	"bennypowers.dev/cabinet/cmd/render"
	cabfs "bennypowers.dev/cabinet/fs"
	"bennypowers.dev/cabinet/moduletype"
)

// Cmd is the detect cobra command.
var Cmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Detect the module system of JavaScript files",
	Long: `Report whether each file is an AMD, CommonJS, or ES module, using the same
detection the resolve command uses to pick a JavaScript resolver.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format: text, json, table")
}

// Output is one file's detected module system.
type Output struct {
	File         string          `json:"file"`
	ModuleSystem moduletype.Type `json:"moduleSystem"`
	Error        string          `json:"error,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	filesystem := cabfs.NewOSFileSystem()
	settings, err := project.Load(filesystem)
	if err != nil {
		return err
	}

	results := Detect(moduletype.NewDetector(filesystem, len(args)), settings, args)

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		return writeText(cmd.OutOrStdout(), results)
	case "table":
		return render.Table(cmd.OutOrStdout(), rows(results))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Detect reports the module system of each file. A configured module system
// override applies to every file, as it does during resolution. Unreadable
// files are reported individually rather than failing the batch.
func Detect(detector *moduletype.Detector, settings *project.Settings, files []string) []Output {
	override, overrideErr := moduletype.ParseType(settings.Config.ModuleSystemOverride())
	if overrideErr != nil {
		fmt.Fprintf(os.Stderr, "Ignoring module system setting: %v\n", overrideErr)
	}

	out := make([]Output, 0, len(files))
	for _, file := range files {
		if overrideErr == nil && override != moduletype.None {
			out = append(out, Output{File: file, ModuleSystem: override})
			continue
		}

		system, err := detector.DetectFile(settings.Abs(file))
		o := Output{File: file, ModuleSystem: system}
		if err != nil {
			o.Error = err.Error()
		}
		out = append(out, o)
	}
	return out
}

func rows(results []Output) []render.Row {
	out := make([]render.Row, 0, len(results))
	for _, r := range results {
		out = append(out, render.Row{Name: r.File, System: r.ModuleSystem.String(), Value: r.Error})
	}
	return out
}

func writeText(w io.Writer, results []Output) error {
	for _, r := range results {
		line := fmt.Sprintf("%s\t%s\n", r.File, r.ModuleSystem)
		if r.Error != "" {
			line = fmt.Sprintf("%s\terror: %s\n", r.File, r.Error)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
