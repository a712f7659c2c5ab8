package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the application logger. Production emits compact JSON
// at info level; everywhere else the text handler runs at debug with
// source locations to make local request tracing readable.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg == nil || !cfg.IsProduction() {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
