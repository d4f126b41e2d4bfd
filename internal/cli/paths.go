package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// stateDir resolves the process-wide state directory holding the pending
// handoff slot, trace file, and journal.
// Precedence: --state-dir flag > $GSDCHAIN_STATE_DIR > $XDG_STATE_HOME/gsdchain
// > ~/.local/state/gsdchain.
func stateDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv("GSDCHAIN_STATE_DIR"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "gsdchain")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gsdchain")
	}
	return filepath.Join(home, ".local", "state", "gsdchain")
}

// hostURL resolves the host control port base URL.
// Precedence: hook payload > $GSDCHAIN_HOST_URL > local default.
func hostURL(fromPayload string) string {
	if fromPayload != "" {
		return fromPayload
	}
	if url := os.Getenv("GSDCHAIN_HOST_URL"); url != "" {
		return url
	}
	return "http://127.0.0.1:4096"
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", input)
	}
}
