// Package logger holds the process-wide slog instance. Everything that
// logs takes a *slog.Logger from Init at wiring time or calls L().
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"teamdesk/internal/config"
)

var (
	singleton *slog.Logger
	once      sync.Once
)

// parseLevel maps the config string to a slog level, info when unknown.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildHandler picks the handler for the format, json when unknown.
func buildHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// Init builds the singleton logger from config. Thread-safe and
// idempotent, the first call wins and later calls get the same
// instance back.
func Init(cfg config.Config) (*slog.Logger, error) {
	once.Do(func() {
		handler := buildHandler(os.Stdout, cfg.LogFormat, parseLevel(cfg.LogLevel))
		singleton = slog.New(handler)
	})

	return singleton, nil
}

// L returns the singleton logger, nil before Init.
func L() *slog.Logger {
	return singleton
}
