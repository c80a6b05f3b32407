// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pdiddy/meshwatch/internal/config"
	"github.com/pdiddy/meshwatch/internal/converter"
	"github.com/pdiddy/meshwatch/internal/journal"
	"github.com/pdiddy/meshwatch/internal/logging"
	"github.com/pdiddy/meshwatch/internal/platform"
	"github.com/pdiddy/meshwatch/internal/reconcile"
	"github.com/pdiddy/meshwatch/pkg/types"
)

// session holds everything a loop invocation needs, built once from the
// configuration.
type session struct {
	cfg        *types.Config
	settings   types.PlatformSettings
	logger     *slog.Logger
	journal    *journal.Journal
	reconciler *reconcile.Reconciler
}

// loadConfig reads the configuration, installs the logger and attaches it
// to the command's context.
func loadConfig(cmd *cobra.Command) (*types.Config, *slog.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd, cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Install(cfg.LogConfig, cmd.ErrOrStderr())
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	if cfg.ConfigFile != "" {
		logger.Debug("using config file", slog.String("path", cfg.ConfigFile))
	}
	return cfg, logger, nil
}

// openSession resolves the platform entry and wires the converter, journal
// and reconciler. Every configuration problem surfaces here, before any
// scanning starts.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := platform.Resolve(cfg.Platforms, cfg.Platform)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, settings: settings, logger: logger}

	conv := converter.NewExternal(settings.Converter,
		converter.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	if err := conv.Available(); err != nil {
		logger.Warn("converter not found; conversions will fail", slog.String("error", err.Error()))
	}

	opts := reconcile.Options{
		InputDir:  settings.InputDir,
		OutputDir: settings.OutputDir,
		SourceExt: cfg.SourceExt,
		OutputExt: cfg.OutputExt,
		Interval:  cfg.Interval,
		Logger:    logger,
		Out:       cmd.OutOrStdout(),
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Warn("conversion journal unavailable",
				slog.String("path", cfg.JournalPath),
				slog.String("error", err.Error()))
		} else {
			s.journal = j
			opts.Recorder = j
		}
	}

	s.reconciler = reconcile.New(conv, opts)
	logger.Debug("session ready",
		slog.String("platform", cfg.Platform),
		slog.String("converter", settings.Converter))
	return s, nil
}

// Close releases the journal, if one was opened.
func (s *session) Close() error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Close(); err != nil {
		return fmt.Errorf("closing journal: %w", err)
	}
	return nil
}
