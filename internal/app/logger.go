package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the application logger. LOG_FORMAT selects the handler:
// "json" for structured log shipping, anything else (the "pretty" default)
// for human-readable text.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
