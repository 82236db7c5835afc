package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initFileLogger(t *testing.T, level slog.Level, format LogFormat) string {
	t.Helper()

	logFile := filepath.Join(t.TempDir(), "test.log")
	err := Init(Config{
		FilePath:   logFile,
		Level:      level,
		Format:     format,
		MaxSizeMB:  10,
		MaxBackups: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { Shutdown() })

	return logFile
}

func TestInit_WritesToFile(t *testing.T) {
	logFile := initFileLogger(t, slog.LevelInfo, FormatText)

	Info("application started", "context", "dev-cluster")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "application started")
	assert.Contains(t, string(content), "dev-cluster")
}

func TestInit_JSONFormat(t *testing.T) {
	logFile := initFileLogger(t, slog.LevelInfo, FormatJSON)

	Info("sync complete", "kind", "pods")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"sync complete"`)
	assert.Contains(t, string(content), `"kind":"pods"`)
}

func TestInit_EmptyPathDisablesLogging(t *testing.T) {
	require.NoError(t, Init(Config{FilePath: ""}))

	assert.False(t, IsEnabled())

	// Logging through the noop logger must not panic
	Debug("dropped")
	Info("dropped")
	Warn("dropped")
	Error("dropped")
}

func TestInit_LevelFiltersMessages(t *testing.T) {
	logFile := initFileLogger(t, slog.LevelWarn, FormatText)

	Debug("below threshold")
	Info("below threshold")
	Warn("watch disconnected")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "below threshold")
	assert.Contains(t, string(content), "watch disconnected")
}

func TestIsEnabled(t *testing.T) {
	require.NoError(t, Init(Config{FilePath: ""}))
	assert.False(t, IsEnabled(), "noop logger should report disabled")

	initFileLogger(t, slog.LevelInfo, FormatText)
	assert.True(t, IsEnabled(), "file logger should report enabled")
}

func TestLogger_With(t *testing.T) {
	logFile := initFileLogger(t, slog.LevelInfo, FormatText)

	logger := Get().With("component", "watcher", "kind", "deployments")
	require.NotNil(t, logger)

	logger.Info("resync")
	require.NoError(t, Shutdown())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "component=watcher")
	assert.Contains(t, string(content), "kind=deployments")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected LogFormat
	}{
		{"text", FormatText},
		{"json", FormatJSON},
		{"invalid", FormatText},
		{"", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestShutdown_WithoutInit(t *testing.T) {
	globalWriter = nil
	assert.NoError(t, Shutdown())
}
