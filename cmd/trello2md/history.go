// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trello2md/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List past imports, or the notes of one import",
	Long: `History lists recent import runs with their imported, skipped and
failed counts. Given a run id, it lists every note, skip and failure
recorded for that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().String("history-db", "", "import history database (default in the user cache dir)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("history-db")
	if path == "" {
		path = viper.GetString("history_path")
	}
	if path == "" {
		return fmt.Errorf("no history database configured")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no import history at %s", path)
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	if len(args) == 1 {
		entries, err := store.Entries(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(os.Stdout, entries)
		}
		return formatEntries(os.Stdout, entries)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(os.Stdout, runs)
	}
	return formatRuns(os.Stdout, runs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatRuns(w io.Writer, runs []history.RunSummary) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No imports recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %8s  %7s  %6s  %s\n",
		"Run", "Started", "Imported", "Skipped", "Failed", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		started := r.StartedAt.Local().Format(time.DateTime)
		if !r.Finished {
			started += "*"
		}
		fmt.Fprintf(w, "%-36s  %-20s  %8d  %7d  %6d  %s\n",
			r.ID, started, r.Imported, r.Skipped, r.Failed, r.OutputDir)
	}
	return nil
}

func formatEntries(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries for this run.")
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%-8s  %-20s  %s", e.Status, e.Board, e.Name)
		if e.Reason != "" {
			line += " (" + e.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
