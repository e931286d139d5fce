// Package stats holds the agent's in-memory operational counters, exposed
// read-only by the admin status endpoint. Nothing here is persisted —
// restart zeroes it, consistent with the agent carrying no durable state.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats is safe for concurrent use: counters are atomic, the last-error
// field is guarded by a small mutex since it is a pair of fields updated
// together.
type Stats struct {
	bidsSubmitted      atomic.Int64
	responsesSubmitted atomic.Int64

	mu        sync.Mutex
	lastError string
	lastAt    time.Time
}

// New creates an empty Stats.
func New() *Stats {
	return &Stats{}
}

// IncBidsSubmitted records one bid_create submission.
func (s *Stats) IncBidsSubmitted() {
	s.bidsSubmitted.Add(1)
}

// IncResponsesSubmitted records one response_create submission.
func (s *Stats) IncResponsesSubmitted() {
	s.responsesSubmitted.Add(1)
}

// SetLastError records the most recent critical-task failure.
func (s *Stats) SetLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
	s.lastAt = time.Now()
}

// Snapshot is the status endpoint's response shape.
type Snapshot struct {
	BidsSubmitted      int64  `json:"bidsSubmitted"`
	ResponsesSubmitted int64  `json:"responsesSubmitted"`
	LastError          string `json:"lastError,omitempty"`
	LastErrorAt        string `json:"lastErrorAt,omitempty"`
}

// Snapshot reads a consistent point-in-time view of all counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		BidsSubmitted:      s.bidsSubmitted.Load(),
		ResponsesSubmitted: s.responsesSubmitted.Load(),
		LastError:          s.lastError,
	}
	if !s.lastAt.IsZero() {
		snap.LastErrorAt = s.lastAt.Format(time.RFC3339)
	}
	return snap
}
