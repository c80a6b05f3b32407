// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/meshwatch/internal/platform"
	"github.com/pdiddy/meshwatch/pkg/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	Long: `Config loads the configuration the same way the watch loop does,
resolves the entry for the selected platform and prints the result. It
fails with the same error the loop would report when the platform entry is
unusable.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// resolvedConfig is the YAML document printed by the config command.
type resolvedConfig struct {
	ConfigFile string                 `yaml:"config_file,omitempty"`
	Platform   string                 `yaml:"platform"`
	Settings   types.PlatformSettings `yaml:"settings"`
	Interval   time.Duration          `yaml:"interval"`
	SourceExt  string                 `yaml:"source_ext"`
	OutputExt  string                 `yaml:"output_ext"`
	Journal    string                 `yaml:"journal"`
	Platforms  []string               `yaml:"known_platforms"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	settings, err := platform.Resolve(cfg.Platforms, cfg.Platform)
	if err != nil {
		return err
	}

	doc := resolvedConfig{
		ConfigFile: cfg.ConfigFile,
		Platform:   cfg.Platform,
		Settings:   settings,
		Interval:   cfg.Interval,
		SourceExt:  cfg.SourceExt,
		OutputExt:  cfg.OutputExt,
		Journal:    cfg.JournalPath,
		Platforms:  platform.Table(cfg.Platforms).Names(),
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
