package util

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config is inlet base configuration, resolved from the process environment.
type Config struct {
	ListenAddr    string
	DatabaseDSN   string
	LogLevel      string
	EnableTrace   bool
	TraceEndpoint string

	env *viper.Viper
}

// LoadConfig reads configuration from the environment. A missing webhook
// secret is not a startup failure; it surfaces through failed readiness
// checks instead, so the secret is deliberately not captured here.
func LoadConfig() *Config {
	env := viper.New()
	env.AutomaticEnv()
	env.SetDefault("LISTEN_ADDR", ":8000")
	env.SetDefault("DATABASE_DSN", "data/app.db")
	env.SetDefault("LOG_LEVEL", "info")
	env.SetDefault("ENABLE_TRACE", false)
	env.SetDefault("TRACE_ENDPOINT", "")

	return &Config{
		ListenAddr:    env.GetString("LISTEN_ADDR"),
		DatabaseDSN:   env.GetString("DATABASE_DSN"),
		LogLevel:      env.GetString("LOG_LEVEL"),
		EnableTrace:   env.GetBool("ENABLE_TRACE"),
		TraceEndpoint: env.GetString("TRACE_ENDPOINT"),
		env:           env,
	}
}

// WebhookSecret returns the current shared secret, empty when unset.
// It re-reads the environment on every call so that clearing the variable
// flips readiness without a process restart.
func (c *Config) WebhookSecret() string {
	return c.env.GetString("WEBHOOK_SECRET")
}

// SlogLevel maps the configured level name to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
