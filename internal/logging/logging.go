// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON logger for production and a text logger otherwise.
// LOG_LEVEL (debug, info, warn, error) overrides the default level.
func New(env string) *slog.Logger {
	return NewWithWriter(os.Stdout, env, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter is New with an explicit sink and level.
func NewWithWriter(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level, env)}
	var h slog.Handler
	if isProd(env) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", "blog")
}

func isProd(env string) bool {
	switch strings.ToLower(env) {
	case "prod", "production":
		return true
	}
	return false
}

func parseLevel(s, env string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if isProd(env) {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
