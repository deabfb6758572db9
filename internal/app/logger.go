package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger from LOG_FORMAT: "json" for
// machine-readable output, "pretty" for terse development text, anything
// else for text with source locations.
func NewLogger(cfg *Config) *slog.Logger {
	var format string
	if cfg != nil {
		format = cfg.LogFormat
	}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	case "pretty":
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	}
}
