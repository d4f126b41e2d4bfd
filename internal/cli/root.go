package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevelFlag string
	stateDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "gsdchain",
	Short: "Command chain controller for gsd workflow sessions",
	Long: `gsdchain watches assistant sessions for machine-suggested next commands
and chains workflow phases without a human re-typing each step. When a session
goes idle it extracts the suggested command from the assistant's final output,
checks that it may run unattended, and either drives it into a fresh session
or parks it as a pending handoff for the next session start.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(logLevelFlag)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&stateDirFlag, "state-dir", "", "State directory (default: $GSDCHAIN_STATE_DIR or $XDG_STATE_HOME/gsdchain)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
