// Package logger provides structured logging functionality for the application.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/tasktrack/internal/config"
)

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured JSON logger writing to
// stdout with the configured level and sets it as the default logger.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(os.Stdout, ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	return logger, nil
}

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a configured level name (case-insensitive) into a
// slog.Level. Unknown names fall back to info with a warning on stderr.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", name,
			"default_level", "info")
		return slog.LevelInfo
	}
}
