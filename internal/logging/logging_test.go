package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roofleads/backend/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Run("json format emits structured records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "json"})

		logger.Info("search finished", "tenant", "acme", "pages", 3)

		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "search finished", record["msg"])
		assert.Equal(t, "acme", record["tenant"])
		assert.Equal(t, float64(3), record["pages"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, config.LoggingConfig{Level: "warn", Format: "json"})

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("plain text when color is disabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "text"})

		logger.Info("hello", "k", "v")

		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("tint handler for colored text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(&buf, config.LoggingConfig{Level: "info", Format: "text", Color: true})

		logger.Info("hello")

		assert.Contains(t, buf.String(), "hello")
	})
}
