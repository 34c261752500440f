package compound

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Recorder receives the Outcome of every tick, skipped ticks included.
type Recorder interface {
	Record(Outcome)
}

// Journal is the audit trail of compound attempts: one JSON Outcome per line,
// appended as each tick finishes. Nothing reads it back, so a restart starts
// from a clean slate regardless of what the file holds.
type Journal struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenJournal opens path for appending, creating it and its directory if needed.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Journal{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Record appends outcome. It is safe for overlapping ticks; calls after Close are dropped.
func (j *Journal) Record(outcome Outcome) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}
	_ = j.enc.Encode(outcome)
}

// Close stops the journal. Ticks still in flight record nothing afterwards.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}
