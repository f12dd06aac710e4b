package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/lingua-web/pkg/logging"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &logging.Config{}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, logging.FormatText, cfg.Format)
}

func TestConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_LOG_FORMAT", "json")

	cfg := &logging.Config{}
	err := cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"})
	require.NoError(t, err)

	assert.Equal(t, logging.LevelDebug, cfg.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Format)
}

func TestConfig_Finalize_InvalidLevel(t *testing.T) {
	cfg := &logging.Config{Level: "verbose"}
	assert.Error(t, cfg.Finalize(nil))
}

func TestConfig_Merge(t *testing.T) {
	cfg := &logging.Config{Level: logging.LevelInfo, Format: logging.FormatText}
	cfg.Merge(&logging.Config{Format: logging.FormatJSON})

	assert.Equal(t, logging.LevelInfo, cfg.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Format)
}

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.ToSlogLevel())
		})
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}, &buf)

	logger.Debug("hidden")
	logger.Info("visible", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"key":"value"`)
}
