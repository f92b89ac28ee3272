package engine

import "sync/atomic"

// Sequencer hands out journal sequence numbers.
// Implemented by Clock (production) and testutil.SeqClock (tests).
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is a monotonic logical clock for journal ordering.
//
// Every journaled action and validation pass is stamped with a strictly
// increasing seq from this clock, so a session reads back in the order it
// happened regardless of wall time.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// although the engine's single-owner design means one goroutine calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to append to an existing journal session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
