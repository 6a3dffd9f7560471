package util

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger creates the process-wide structured logger from the CLI verbosity
// count (the repeatable -l flag).
//
// Verbosity mapping:
//
//	0 → warn (default: only problems are printed)
//	1 → info
//	2+ → debug
//
// Logs go to stderr so that the json report format can be piped from stdout.
func NewLogger(verbosity int) *slog.Logger {
	return NewLoggerWithOutput(verbosity, os.Stderr)
}

// NewLoggerWithOutput is NewLogger with an explicit output writer, for tests.
func NewLoggerWithOutput(verbosity int, output io.Writer) *slog.Logger {
	var level slog.Level
	switch {
	case verbosity <= 0:
		level = slog.LevelWarn
	case verbosity == 1:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
