// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PlatformSettings holds the per-host directories and converter location.
// One entry exists per platform name in the platform table.
type PlatformSettings struct {
	// InputDir is the directory scanned for source scene files.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input-dir"`

	// OutputDir is the directory the converter writes derived meshes into.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output-dir"`

	// Converter is the path to the exporter executable.
	Converter string `json:"converter" yaml:"converter" mapstructure:"converter"`
}

// WatchConfig holds settings for the reconciliation loop.
type WatchConfig struct {
	// Interval is the pause between two reconciliation passes (default 1s).
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`

	// SourceExt is the extension of source assets, including the dot (default ".c4d").
	SourceExt string `json:"source_ext" yaml:"source_ext" mapstructure:"source-ext"`

	// OutputExt is the extension of derived artifacts, including the dot (default ".boba").
	OutputExt string `json:"output_ext" yaml:"output_ext" mapstructure:"output-ext"`
}

// LogConfig selects the structured logger level and handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"log-level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format" mapstructure:"log-format"`
}

// Config is the complete configuration value built once at startup and
// passed to the loop.
type Config struct {
	WatchConfig `yaml:",inline" mapstructure:",squash"`
	LogConfig   `yaml:",inline" mapstructure:",squash"`

	// Platform is the platform name used to select an entry from Platforms.
	Platform string `json:"platform" yaml:"platform" mapstructure:"platform"`

	// Platforms maps platform names to their settings.
	Platforms map[string]PlatformSettings `json:"platforms" yaml:"platforms" mapstructure:"platforms"`

	// JournalPath is the SQLite conversion journal. Empty disables the journal.
	JournalPath string `json:"journal" yaml:"journal" mapstructure:"journal"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `json:"-" yaml:"-" mapstructure:"-"`
}
