package tracelog

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJournalAppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ndjson")

	journal, err := NewJournal(path, testLogger())
	require.NoError(t, err)

	require.NoError(t, journal.Append(Entry{
		Event:     "idle",
		SessionID: "ses_1",
		Command:   "/gsd-execute-phase 8",
		Outcome:   "auto-continued",
	}))
	require.NoError(t, journal.Append(Entry{
		Event:   "created",
		Outcome: "no-pending",
	}))
	require.NoError(t, journal.Close())

	entries, err := ReadEntries(path, testLogger(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "idle", entries[0].Event)
	require.Equal(t, "/gsd-execute-phase 8", entries[0].Command)
	require.NotEmpty(t, entries[0].ID)
	require.False(t, entries[0].At.IsZero())
	require.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestJournalAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ndjson")

	first, err := NewJournal(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Append(Entry{Event: "idle", Outcome: "deferred"}))
	require.NoError(t, first.Close())

	second, err := NewJournal(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, second.Append(Entry{Event: "created", Outcome: "surfaced"}))
	require.NoError(t, second.Close())

	entries, err := ReadEntries(path, testLogger(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestReadEntriesLimitKeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.ndjson")

	journal, err := NewJournal(path, testLogger())
	require.NoError(t, err)
	for _, outcome := range []string{"a", "b", "c", "d"} {
		require.NoError(t, journal.Append(Entry{Event: "idle", Outcome: outcome}))
	}
	require.NoError(t, journal.Close())

	entries, err := ReadEntries(path, testLogger(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "c", entries[0].Outcome)
	require.Equal(t, "d", entries[1].Outcome)
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "nope.ndjson"), testLogger(), 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}
