package tracelog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraceResetTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	trace := NewTrace(path, nil)
	defer trace.Close()

	require.NoError(t, trace.Reset())
	trace.Logger().Info("first event", "marker", "alpha")

	require.NoError(t, trace.Reset())
	trace.Logger().Info("second event", "marker", "beta")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "beta")
	require.NotContains(t, string(data), "alpha")
}

func TestTraceAppendsWithoutReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	trace := NewTrace(path, nil)
	defer trace.Close()

	trace.Logger().Info("one")
	trace.Logger().Info("two")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "one")
	require.Contains(t, string(data), "two")
}

func TestTraceMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	var mirror bytes.Buffer
	trace := NewTrace(path, &mirror)
	defer trace.Close()

	require.NoError(t, trace.Reset())
	trace.Logger().Info("mirrored line")

	require.Contains(t, mirror.String(), "mirrored line")
}

func TestTraceCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "trace.log")
	trace := NewTrace(path, nil)
	defer trace.Close()

	require.NoError(t, trace.Reset())
	_, err := os.Stat(path)
	require.NoError(t, err)
}
