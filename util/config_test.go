package util

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("DATABASE_DSN")
	os.Unsetenv("LOG_LEVEL")

	config := LoadConfig()

	assert.Equal(t, ":8000", config.ListenAddr)
	assert.Equal(t, "data/app.db", config.DatabaseDSN)
	assert.Equal(t, "info", config.LogLevel)
	assert.False(t, config.EnableTrace)
}

func TestWebhookSecretIsLive(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "first")

	config := LoadConfig()
	assert.Equal(t, "first", config.WebhookSecret())

	// no reload needed: the secret tracks the environment
	t.Setenv("WEBHOOK_SECRET", "second")
	assert.Equal(t, "second", config.WebhookSecret())

	os.Unsetenv("WEBHOOK_SECRET")
	assert.Equal(t, "", config.WebhookSecret())
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}

	for name, expected := range cases {
		config := &Config{LogLevel: name}
		assert.Equal(t, expected, config.SlogLevel(), name)
	}
}
