package util

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerVerbosityMapping(t *testing.T) {
	cases := []struct {
		verbosity int
		level     slog.Level
		enabled   bool
	}{
		{0, slog.LevelWarn, true},
		{0, slog.LevelInfo, false},
		{1, slog.LevelInfo, true},
		{1, slog.LevelDebug, false},
		{2, slog.LevelDebug, true},
		{4, slog.LevelDebug, true},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		logger := NewLoggerWithOutput(tc.verbosity, &buf)
		assert.Equal(t, tc.enabled, logger.Enabled(t.Context(), tc.level),
			"verbosity=%d level=%v", tc.verbosity, tc.level)
	}
}

func TestLoggerWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput(1, &buf)
	logger.Info("analyzing", "files", 3)

	assert.Contains(t, buf.String(), "analyzing")
	assert.Contains(t, buf.String(), "files=3")
}
