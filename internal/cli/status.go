package cli

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/iambrandonn/gsdchain/internal/handoff"
	"github.com/iambrandonn/gsdchain/internal/tracelog"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the pending handoff and recent chain outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := stateDir(stateDirFlag)

		store := handoff.NewStore(dir)
		if rec, ok := store.Peek(); ok {
			cmd.Printf("Pending handoff: %s (deferred %s ago)\n",
				rec.Command, time.Since(rec.CreatedAt()).Round(time.Second))
		} else {
			cmd.Println("Pending handoff: none")
		}

		entries, err := tracelog.ReadEntries(filepath.Join(dir, "journal.ndjson"), slog.Default(), statusLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No recorded outcomes")
			return nil
		}

		cmd.Println("Recent outcomes:")
		for _, e := range entries {
			line := e.At.Local().Format(time.RFC3339) + "  " + e.Event + "  " + e.Outcome
			if e.Command != "" {
				line += "  " + e.Command
			}
			cmd.Println("  " + line)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Number of journal entries to show")
	rootCmd.AddCommand(statusCmd)
}
