// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the structured logger for meshwatch. Diagnostics
// go through slog on stderr; the per-conversion status lines stay on stdout
// and are not routed through here.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/pdiddy/meshwatch/internal/config"
	"github.com/pdiddy/meshwatch/pkg/types"
)

type loggerKey struct{}

// Install builds a logger for cfg that writes to w and makes it the slog
// default, so packages that log through slog.Default pick it up.
func Install(cfg types.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(cfg.Level)}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Format == config.LogFormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// Level maps a log-level setting to its slog level. Config validation
// rejects unknown names, so the info fallback only covers the zero value.
func Level(name string) slog.Level {
	levels := map[string]slog.Level{
		config.LogLevelDebug: slog.LevelDebug,
		config.LogLevelWarn:  slog.LevelWarn,
		config.LogLevelError: slog.LevelError,
	}
	if l, ok := levels[name]; ok {
		return l
	}
	return slog.LevelInfo
}

// WithLogger attaches logger to ctx for subcommands.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// From returns the logger attached to ctx, or slog.Default().
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
