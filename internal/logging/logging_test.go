package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "info", "json")
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("worker finished", slog.Int("id", 3))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "worker finished", rec["msg"])
		assert.Equal(t, float64(3), rec["id"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(&buf, "warn", "text")
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("slow worker", slog.String("clusters", "20"))
		assert.Contains(t, buf.String(), "msg=\"slow worker\"")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "info", "xml")
		assert.Error(t, err)
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, "trace", "text")
		assert.Error(t, err)
	})
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Info("nothing") })
}
