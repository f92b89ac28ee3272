package testutil

import "sync"

// SeqClock is a resettable logical clock for journal sequence numbers.
//
// It satisfies engine.Sequencer, so a harness can hand the same clock to
// several engines in a row and reset it between scenarios to get identical
// seq values on every run.
type SeqClock struct {
	mu  sync.Mutex
	seq int64
}

// NewSeqClock returns a clock whose first Next() is 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next advances the clock and returns the new value.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out, 0 before the first Next().
func (c *SeqClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next call to Next() returns 1 again.
func (c *SeqClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
