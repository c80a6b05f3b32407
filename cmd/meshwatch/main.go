// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the meshwatch CLI. With no
// subcommand it polls the configured input directory and reconverts
// scene files whose meshes are missing or out of date.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Running it starts the watch loop.
var rootCmd = &cobra.Command{
	Use:   "meshwatch",
	Short: "Reconvert scene files into meshes when they change",
	Long: `meshwatch polls an input directory for Cinema 4D scene files and runs
the exporter for every scene whose mesh in the output directory is missing
or older than the scene. It repeats the scan on a fixed interval until it
is stopped.

Directories and the exporter path are selected from a per-platform table,
keyed by the host platform name (Windows, Darwin, Linux).`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runWatch,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./meshwatch.yaml or ~/.config/meshwatch/meshwatch.yaml)")
	rootCmd.PersistentFlags().String("platform", "", "platform table entry to use (default: detected host platform)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.reconciler.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(1)
	}
}
