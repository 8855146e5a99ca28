package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gbkr-com/alpaca/env"
)

// setupLogger configures the default logger from LOG_LEVEL ("debug", "info",
// "warn" or "error") and LOG_FORMAT ("text" or "json").
func setupLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: logLevel(env.Getenv("LOG_LEVEL", "info")),
	}
	var handler slog.Handler
	switch strings.ToLower(env.Getenv("LOG_FORMAT", "text")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func logLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
