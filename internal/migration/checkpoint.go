package migration

import (
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Checkpoint records how far a long-running migration step has gotten, so
// a re-run can skip work it already did instead of re-processing from
// scratch (spec.md §4.7 batch steps are idempotent per-item, but skipping
// already-done items still saves a full re-scan on a multi-million-row
// resume). Encoded with msgpack, mirroring
// aristath-sentinel/display/bridge/main.go's use of
// msgpack.NewEncoder/NewDecoder for its own request/response framing —
// the only real msgpack usage in the example corpus.
type Checkpoint struct {
	Step      string
	Completed []string // candle filenames already migrated
	UpdatedAt time.Time
}

// SaveCheckpoint streams cp to path as msgpack, overwriting any prior
// checkpoint for the same step.
func SaveCheckpoint(path string, cp Checkpoint) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return msgpack.NewEncoder(fh).Encode(cp)
}

// LoadCheckpoint reads a prior checkpoint, returning (nil, nil) if path
// does not exist — a fresh run, not an error.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer fh.Close()

	var cp Checkpoint
	if err := msgpack.NewDecoder(fh).Decode(&cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

// AlreadyDone reports whether key is recorded as completed in cp (cp may
// be nil, meaning no checkpoint exists yet).
func (cp *Checkpoint) AlreadyDone(key string) bool {
	if cp == nil {
		return false
	}
	for _, k := range cp.Completed {
		if k == key {
			return true
		}
	}
	return false
}

// MarkDone appends key to cp.Completed and stamps UpdatedAt, initializing
// cp if it was nil.
func MarkDone(cp *Checkpoint, step, key string) *Checkpoint {
	if cp == nil {
		cp = &Checkpoint{Step: step}
	}
	cp.Completed = append(cp.Completed, key)
	cp.UpdatedAt = time.Now()
	return cp
}
