// Package tracelog holds the controller's diagnostics: a per-event trace file
// and an append-only NDJSON journal of terminal outcomes.
package tracelog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Trace is the session-scoped diagnostic file. Reset truncates it at the
// start of each triggering event so one attempt's diagnostics are
// self-contained. The file is process-wide state; concurrent events
// last-writer-win, which is accepted.
type Trace struct {
	path   string
	mirror io.Writer
	mu     sync.Mutex
	file   *os.File
}

// NewTrace creates a trace writing to path. When mirror is non-nil every
// line is also copied there (typically stderr at debug level).
func NewTrace(path string, mirror io.Writer) *Trace {
	return &Trace{path: path, mirror: mirror}
}

// Reset truncates the trace file, discarding the previous event's lines.
func (t *Trace) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file != nil {
		t.file.Close()
		t.file = nil
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to truncate trace file: %w", err)
	}
	t.file = file
	return nil
}

// Write appends to the trace file, opening it (without truncation) on first
// use if Reset was never called.
func (t *Trace) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
			return 0, err
		}
		file, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return 0, err
		}
		t.file = file
	}

	n, err := t.file.Write(p)
	if t.mirror != nil {
		t.mirror.Write(p[:n])
	}
	return n, err
}

// Logger returns a text slog.Logger writing through the trace.
func (t *Trace) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(t, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Close closes the underlying file, if open.
func (t *Trace) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
