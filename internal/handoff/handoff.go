// Package handoff persists the single-slot record of a command that could not
// be auto-continued live. The slot is global, anonymous, last-writer-wins.
package handoff

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/iambrandonn/gsdchain/internal/fsutil"
)

// TTL is the validity window for a pending record. Anything older is treated
// as absent at read time; there is no active expiry timer.
const TTL = 5 * time.Minute

// Record is the persisted handoff. CreatedAtMs is epoch milliseconds.
type Record struct {
	Command     string `json:"command"`
	CreatedAtMs int64  `json:"createdAtEpochMs"`
}

// CreatedAt returns the record's creation time.
func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.CreatedAtMs)
}

// Fresh reports whether the record is still within the validity window.
func (r Record) Fresh(now time.Time) bool {
	return now.Sub(r.CreatedAt()) <= TTL
}

// Store is the durable single-slot handoff store. Take has atomic
// read-and-clear semantics: the slot is claimed by rename before it is read,
// so concurrent consumers cannot double-deliver.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir. The slot lives at
// dir/pending.json; the plain-text pickup file at dir/next-command.txt.
func NewStore(dir string) *Store {
	return NewStoreWithClock(dir, time.Now)
}

// NewStoreWithClock creates a store with an injected clock for expiry checks.
func NewStoreWithClock(dir string, now func() time.Time) *Store {
	return &Store{dir: dir, now: now}
}

func (s *Store) slotPath() string {
	return filepath.Join(s.dir, "pending.json")
}

// PickupPath is the adjacent well-known file that receives the plain command
// text for human pickup on the session-created path.
func (s *Store) PickupPath() string {
	return filepath.Join(s.dir, "next-command.txt")
}

// Put writes the slot with the current timestamp, replacing any previous
// record. Last writer wins.
func (s *Store) Put(command string) error {
	rec := Record{
		Command:     command,
		CreatedAtMs: s.now().UnixMilli(),
	}
	return fsutil.AtomicWriteJSON(s.slotPath(), rec)
}

// Take consumes the slot at most once. A successful read always removes the
// record; a stale record is removed and reported absent. Every storage error
// degrades to "absent".
func (s *Store) Take() (Record, bool) {
	claimPath, err := fsutil.ClaimRename(s.slotPath())
	if err != nil {
		return Record{}, false
	}
	defer os.Remove(claimPath)

	data, err := os.ReadFile(claimPath)
	if err != nil {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	if rec.Command == "" || !rec.Fresh(s.now()) {
		return Record{}, false
	}
	return rec, true
}

// Peek reads the slot without consuming it. Stale records report absent but
// stay on disk until the next Take.
func (s *Store) Peek() (Record, bool) {
	data, err := os.ReadFile(s.slotPath())
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false
	}
	if rec.Command == "" || !rec.Fresh(s.now()) {
		return Record{}, false
	}
	return rec, true
}

// WritePickup writes the plain command text for human pickup.
func (s *Store) WritePickup(command string) error {
	return fsutil.AtomicWrite(s.PickupPath(), []byte(command+"\n"))
}
