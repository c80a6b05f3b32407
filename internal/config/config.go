// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the meshwatch configuration value.
//
// Values are read from the following sources, highest precedence first:
//  1. CLI flags
//  2. Environment variables (MESHWATCH_ prefix, "-" replaced by "_")
//  3. Config file (meshwatch.yaml in . or ~/.config/meshwatch/)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/meshwatch/internal/platform"
	"github.com/pdiddy/meshwatch/pkg/types"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	envPrefix  = "MESHWATCH"
	configName = "meshwatch"
)

// Default returns the configuration used when nothing overrides it.
func Default() *types.Config {
	return &types.Config{
		WatchConfig: types.WatchConfig{
			Interval:  1 * time.Second,
			SourceExt: ".c4d",
			OutputExt: ".boba",
		},
		LogConfig: types.LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Platform:    platform.Detect(),
		Platforms:   platform.Builtin(),
		JournalPath: defaultJournalPath(),
	}
}

func defaultJournalPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "meshwatch", "journal.db")
}

// Load builds the configuration from flags, environment and an optional
// config file. A fresh viper instance is used on every call.
func Load(cmd *cobra.Command, configFile string) (*types.Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = platform.Builtin()
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that all config values are usable.
func Validate(c *types.Config) error {
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.Level)
	}

	switch c.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.Format)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("invalid interval %s: must be positive", c.Interval)
	}

	for key, ext := range map[string]string{"source-ext": c.SourceExt, "output-ext": c.OutputExt} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid %s %q: must start with a dot", key, ext)
		}
	}

	if c.Platform == "" {
		return errors.New("platform must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("interval", d.Interval)
	v.SetDefault("source-ext", d.SourceExt)
	v.SetDefault("output-ext", d.OutputExt)
	v.SetDefault("log-level", d.Level)
	v.SetDefault("log-format", d.Format)
	v.SetDefault("platform", d.Platform)
	v.SetDefault("journal", d.JournalPath)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", configName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// bindFlags binds cmd's flags and the persistent flags of every ancestor.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}
	return nil
}
