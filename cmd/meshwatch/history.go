// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/meshwatch/internal/journal"
	"github.com/pdiddy/meshwatch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent conversions from the journal",
	Long: `History lists the most recent converter invocations recorded in the
conversion journal, newest first, with the reason each one was triggered
and the exporter's exit status.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of records to show")
	historyCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.JournalPath == "" {
		return errors.New("conversion journal is disabled (journal is empty)")
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := j.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), records, jsonOutput)
}

func formatHistory(w io.Writer, records []types.ConversionRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-30s  %-10s  %-8s  %s\n", "Started", "Source", "Reason", "Duration", "Exit")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range records {
		source := filepath.Base(r.Source)
		if len(source) > 30 {
			source = source[:27] + "..."
		}
		fmt.Fprintf(w, "%-19s  %-30s  %-10s  %-8s  %d\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), source, r.Reason,
			r.Duration.Round(10*time.Millisecond).String(), r.ExitCode)
	}

	fmt.Fprintf(w, "\n%d conversions\n", len(records))
	return nil
}
