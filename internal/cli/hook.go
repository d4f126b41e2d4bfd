package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iambrandonn/gsdchain/internal/driver"
	"github.com/iambrandonn/gsdchain/internal/handoff"
	"github.com/iambrandonn/gsdchain/internal/hostapi"
	"github.com/iambrandonn/gsdchain/internal/notify"
	"github.com/iambrandonn/gsdchain/internal/tracelog"
)

// hookPayload is the JSON the host pipes to hook handlers on stdin.
type hookPayload struct {
	SessionID string `json:"sessionId"`
	Directory string `json:"directory"`
	HostURL   string `json:"hostUrl"`
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Hook handlers invoked by the host",
}

var hookIdleCmd = &cobra.Command{
	Use:   "idle",
	Short: "Handle a session-idle signal (reads hook payload from stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, payload, cleanup := buildController(cmd.InOrStdin())
		defer cleanup()

		outcome := ctrl.HandleIdle(context.Background(), driver.Event{
			SessionID: payload.SessionID,
			Directory: payload.Directory,
		})
		slog.Info("idle handled", "outcome", string(outcome))
		// Hook handlers never fail the host.
		return nil
	},
}

var hookCreatedCmd = &cobra.Command{
	Use:   "created",
	Short: "Handle a session-created signal (reads hook payload from stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, payload, cleanup := buildController(cmd.InOrStdin())
		defer cleanup()

		if command, ok := ctrl.HandleCreated(context.Background(), driver.Event{
			SessionID: payload.SessionID,
			Directory: payload.Directory,
		}); ok {
			// Visible in the host's hook output for the human to act on.
			cmd.Printf("Pending command from a previous session: %s\n", command)
		}
		return nil
	},
}

func init() {
	hookCmd.AddCommand(hookIdleCmd)
	hookCmd.AddCommand(hookCreatedCmd)
	rootCmd.AddCommand(hookCmd)
}

// buildController assembles the controller from the hook payload and the
// process environment. Payload parse failures degrade to an empty payload;
// the driver handles the missing session id.
func buildController(stdin io.Reader) (*driver.Controller, hookPayload, func()) {
	var payload hookPayload
	if data, err := io.ReadAll(io.LimitReader(stdin, 1<<20)); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			slog.Warn("failed to parse hook payload", "error", err)
		}
	}

	dir := stateDir(stateDirFlag)
	trace := tracelog.NewTrace(filepath.Join(dir, "trace.log"), traceMirror())

	journal, err := tracelog.NewJournal(filepath.Join(dir, "journal.ndjson"), slog.Default())
	if err != nil {
		slog.Warn("failed to open journal", "error", err)
	}

	ctrl := &driver.Controller{
		Host:     hostapi.NewClient(hostURL(payload.HostURL)),
		Store:    handoff.NewStore(dir),
		Notifier: notify.Desktop{},
		Trace:    trace,
		Journal:  journal,
	}

	cleanup := func() {
		trace.Close()
		if journal != nil {
			journal.Close()
		}
	}
	return ctrl, payload, cleanup
}

// traceMirror mirrors trace lines to stderr when running at debug level.
func traceMirror() io.Writer {
	if level, err := parseLogLevel(logLevelFlag); err == nil && level == slog.LevelDebug {
		return os.Stderr
	}
	return nil
}
