// Package compound runs the compound_hash submit loop: one attempt per tick,
// failures logged and swallowed.
package compound

import "time"

const (
	// Interval between attempts. Not configurable.
	Interval = 60 * time.Second
	// MinHashToCompound is the hash the program turns into 1 MH/s. Only
	// enforced when the min-hash gate is enabled.
	MinHashToCompound uint64 = 86_400
)

// Status is the result class of one attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusSkipped Status = "skipped"
)

// Outcome describes one tick's attempt.
type Outcome struct {
	Tick      uint64        `json:"tick"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration_ns"`
	Status    Status        `json:"status"`
	Signature string        `json:"signature,omitempty"`
	Error     string        `json:"error,omitempty"`
	Reason    string        `json:"reason,omitempty"`
}
