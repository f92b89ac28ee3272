// Package engine implements the edit coordinator of an alchemist session.
//
// The engine owns the three collections (clients, workers, tasks), the
// findings of the latest validation pass per collection, and the session
// journal. It is the only writer of that state.
//
// ARCHITECTURE:
//
// Single-Owner State Machine:
// One caller drives the engine and every action runs to completion before
// the next one starts. There is no background goroutine and no locking
// beyond the change queue's own mutex.
//
// Change Processing Flow:
//  1. Ingest or ApplyEdit mutates the dataset store
//  2. The store publishes a Changed event, which is enqueued
//  3. The action is journaled with the next seq from the logical clock
//  4. The queue is drained in FIFO order on the calling goroutine
//  5. Each Changed event revalidates its collection against the current
//     workers and journals the resulting findings
//
// Validation is decoupled from storage: the store knows nothing about
// findings, and the engine only reacts to published changes.
//
// Editing workers revalidates workers only. Clients and tasks see the new
// skills on their next pass, because the skill index is rebuilt per pass.
//
// Logical Clock:
// All journal rows are stamped with a monotonic seq from a Sequencer.
// Wall-clock timestamps are never used for ordering.
package engine
