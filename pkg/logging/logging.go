// Package logging configures log/slog for the fvupgrader CLI.
//
// Logs go to stderr with the module name and version attached. A text handler is used when
// stderr is a terminal and a JSON handler otherwise.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// ParseLogLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger returns a logger on stderr tagged with module and version.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	return NewLogger(os.Stderr, isTerminal(os.Stderr), module, version, level)
}

// NewLogger returns a logger writing to w, as text when text is set and JSON otherwise.
func NewLogger(w io.Writer, text bool, module, version, level string) *slog.Logger {
	lvl := ParseLogLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var h slog.Handler
	if text {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("module", module, "version", version)
}

// SetDefaultStructuredLoggerWithLevel installs a structured logger as the slog default.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) *slog.Logger {
	logger := NewStructuredLogger(module, version, level)
	slog.SetDefault(logger)
	return logger
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
