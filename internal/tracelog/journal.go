package tracelog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iambrandonn/gsdchain/internal/ndjson"
)

// Entry is one journaled terminal outcome.
type Entry struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	SessionID string    `json:"session_id,omitempty"`
	Command   string    `json:"command,omitempty"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Journal appends terminal outcomes to an NDJSON file, one entry per
// invocation.
type Journal struct {
	file    *os.File
	encoder *ndjson.Encoder
	mu      sync.Mutex
}

// NewJournal opens (or creates) the journal at path for appending.
func NewJournal(path string, logger *slog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Journal{
		file:    file,
		encoder: ndjson.NewEncoder(file, logger),
	}, nil
}

// Append writes one entry, assigning ID and timestamp when unset.
func (j *Journal) Append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	return j.encoder.Encode(e)
}

// Close closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		return j.file.Close()
	}
	return nil
}

// ReadEntries reads back up to limit entries from the tail of the journal
// (limit <= 0 means all). Used by the status command.
func ReadEntries(path string, logger *slog.Logger, limit int) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer file.Close()

	decoder := ndjson.NewDecoder(file, logger)
	var entries []Entry
	for {
		var e Entry
		if err := decoder.Decode(&e); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		entries = append(entries, e)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}
