/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides the process-wide leveled logger. It is quiet by
// default so library callers only see warnings, and can be silenced entirely
// for the MCP stdio server.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "cabinet",
	Level:  log.WarnLevel,
})

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetVerbose enables debug output when verbose is true and restores the
// default warning level otherwise.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.WarnLevel)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	logger.Warnf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	logger.Infof(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	logger.Debugf(format, args...)
}
