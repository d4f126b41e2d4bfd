package cli

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateDirPrecedence(t *testing.T) {
	t.Setenv("GSDCHAIN_STATE_DIR", "/env/state")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	require.Equal(t, "/flag/state", stateDir("/flag/state"))
	require.Equal(t, "/env/state", stateDir(""))

	t.Setenv("GSDCHAIN_STATE_DIR", "")
	require.Equal(t, filepath.Join("/xdg/state", "gsdchain"), stateDir(""))
}

func TestHostURLPrecedence(t *testing.T) {
	t.Setenv("GSDCHAIN_HOST_URL", "http://localhost:9999")

	require.Equal(t, "http://payload:1", hostURL("http://payload:1"))
	require.Equal(t, "http://localhost:9999", hostURL(""))

	t.Setenv("GSDCHAIN_HOST_URL", "")
	require.Equal(t, "http://127.0.0.1:4096", hostURL(""))
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"", slog.LevelInfo, true},
		{"info", slog.LevelInfo, true},
		{"debug", slog.LevelDebug, true},
		{"WARN", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		level, err := parseLogLevel(tt.input)
		if tt.ok {
			require.NoError(t, err, tt.input)
			require.Equal(t, tt.want, level)
		} else {
			require.Error(t, err, tt.input)
		}
	}
}
