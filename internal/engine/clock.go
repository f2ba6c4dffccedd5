package engine

import "sync/atomic"

// Clock stamps guard evaluations with strictly increasing sequence numbers.
//
// Implemented by LogicalClock and, in tests, testutil.DeterministicClock.
type Clock interface {
	Next() int64
	Current() int64
}

// LogicalClock is a monotonic logical clock for evaluation ordering.
//
// Every recorded evaluation is stamped with a seq number from this clock.
// This ensures:
//   - Deterministic ordering (no wall-clock race conditions)
//   - Re-routing the same messages produces identical logs
//
// Thread-safety: LogicalClock is safe for concurrent use (atomic operations).
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to continue numbering after the last evaluation in a store.
func NewClockAt(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
