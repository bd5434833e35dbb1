// Package logger provides charmbracelet/log loggers for the axserve packages.
// Everything goes to stderr because stdout carries the LSP and IPC protocols.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new default charm log that respects the global log level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Setup points the global logger at stderr and sets its level. debug wins
// over level; an unknown level falls back to info.
func Setup(level string, debug bool) log.Level {
	lvl := ParseLevel(level)
	if debug {
		lvl = log.DebugLevel
	}

	log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: debug,
		Formatter:       log.TextFormatter,
		Level:           lvl,
	}))
	return lvl
}

// ParseLevel maps a config level name to a log level.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
