package engine

import (
	"sync"

	"github.com/roach88/alchemist/internal/dataset"
)

// changeQueue is a FIFO queue of collection changes awaiting validation.
//
// The store publishes synchronously while it is mid-mutation; queueing the
// change and draining afterwards keeps validation out of the store's call
// stack and processes cascaded changes in publication order.
type changeQueue struct {
	mu      sync.Mutex
	changes []dataset.Changed
}

// newChangeQueue creates an empty queue.
func newChangeQueue() *changeQueue {
	return &changeQueue{
		changes: make([]dataset.Changed, 0, 4),
	}
}

// Enqueue adds a change to the back of the queue.
func (q *changeQueue) Enqueue(c dataset.Changed) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.changes = append(q.changes, c)
}

// TryDequeue removes and returns the front change.
// Returns (dataset.Changed{}, false) if the queue is empty.
func (q *changeQueue) TryDequeue() (dataset.Changed, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.changes) == 0 {
		return dataset.Changed{}, false
	}

	c := q.changes[0]
	if len(q.changes) == 1 {
		// Reset to the start of the backing array once drained.
		q.changes = q.changes[:0]
	} else {
		q.changes = q.changes[1:]
	}
	return c, true
}

// Len returns the current queue length.
func (q *changeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.changes)
}
