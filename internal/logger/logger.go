// Package logger provides a shared charmbracelet/log configuration for the
// suggestion engine's packages and commands.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a package-scoped logger with timestamps on — the shape every
// package that can fail at load time (catalog parsing, rule decoding,
// config loading) uses to log. Its level is the global log level at the
// moment New is called; later changes to the global level do not reach it.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a logger with explicit level, caller-reporting, and
// timestamp settings, for callers that don't want the global defaults.
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
