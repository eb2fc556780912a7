package logging

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestParseTimeFormat(t *testing.T) {
	assert.Equal(t, time.Kitchen, parseTimeFormat("kitchen"))
	assert.Equal(t, time.RFC3339, parseTimeFormat("rfc3339"))
	assert.Equal(t, "", parseTimeFormat("unix"))
	assert.Equal(t, "2006-01-02", parseTimeFormat("2006-01-02"))
	assert.Equal(t, time.Kitchen, parseTimeFormat("whatever"))
}

func TestGetWriter(t *testing.T) {
	t.Run("discard json", func(t *testing.T) {
		w := getWriter(&Config{Output: "discard", Format: "json"})
		assert.Equal(t, io.Discard, w)
	})

	t.Run("discard auto is json", func(t *testing.T) {
		w := getWriter(&Config{Output: "discard", Format: "auto"})
		assert.Equal(t, io.Discard, w)
	})

	t.Run("console wraps output", func(t *testing.T) {
		w := getWriter(&Config{Output: "stdout", Format: "console", NoColor: true})
		cw, ok := w.(zerolog.ConsoleWriter)
		require.True(t, ok)
		assert.Equal(t, os.Stdout, cw.Out)
		assert.True(t, cw.NoColor)
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		logger := NewLoggerFromConfig(&Config{Level: "info", Format: "json", Output: path})
		logger.Info().Msg("written to file")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written to file")
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}
