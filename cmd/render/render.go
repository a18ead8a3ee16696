/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"fmt"
	"io"
	"strings"
)

// Row is one line of command output: a specifier or file, its module
// system, and the resolved path or outcome.
type Row struct {
	Name   string
	System string
	Value  string
}

// Column headers for Table and Markdown.
const (
	headerName   = "Name"
	headerSystem = "System"
	headerValue  = "Result"
)

// ColumnWidths calculates the max width needed for each column.
func ColumnWidths(rows []Row) (name, system, val int) {
	name, system, val = len(headerName), len(headerSystem), len(headerValue)
	for _, r := range rows {
		name = max(name, len(r.Name))
		system = max(system, len(cell(r.System)))
		val = max(val, len(r.Value))
	}
	return
}

// cell renders empty values as a dash so columns stay readable.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Table renders rows as an aligned plain-text table.
func Table(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	nameW, systemW, _ := ColumnWidths(rows)
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %-*s  %s", nameW, r.Name, systemW, cell(r.System), r.Value)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders rows as a markdown table under an optional heading.
func Markdown(w io.Writer, heading string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	if heading != "" {
		fmt.Fprintf(&sb, "## %s\n\n", heading)
	}

	nameW, systemW, valW := ColumnWidths(rows)
	fmt.Fprintf(&sb, "| %-*s | %-*s | %-*s |\n", nameW, headerName, systemW, headerSystem, valW, headerValue)
	fmt.Fprintf(&sb, "|-%s-|-%s-|-%s-|\n",
		strings.Repeat("-", nameW), strings.Repeat("-", systemW), strings.Repeat("-", valW))
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %-*s | %-*s | %-*s |\n",
			nameW, escape(r.Name), systemW, cell(r.System), valW, escape(r.Value))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// escape keeps pipes in paths from splitting markdown cells.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
