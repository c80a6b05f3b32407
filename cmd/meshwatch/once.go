// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pdiddy/meshwatch/internal/logging"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single reconciliation pass and exit",
	Long: `Once scans the input directory a single time, converts every scene
whose mesh is missing or older than the scene, prints a summary and exits.`,
	Args: cobra.NoArgs,
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.reconciler.Pass(cmd.Context())
	if err != nil {
		return err
	}

	logging.From(cmd.Context()).Debug("pass complete",
		slog.Int("scanned", result.Scanned),
		slog.Int("converted", result.Converted))
	fmt.Fprintf(cmd.OutOrStdout(), "\nPass summary: %d converted, %d up to date (total: %d)\n",
		result.Converted, result.UpToDate, result.Scanned)
	return nil
}
