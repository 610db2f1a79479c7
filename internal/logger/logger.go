package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"galaxy-gen/internal/config"
)

// Init installs the process-wide slog handler described by cfg.
func Init(cfg config.LoggingConfig) {
	InitWriter(os.Stderr, cfg)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, cfg config.LoggingConfig) {
	slog.SetDefault(New(w, cfg))

	logger := slog.With("component", "logger")
	logger.Debug("Logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSONFormat,
	)
}

// New builds a logger without installing it.
func New(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
