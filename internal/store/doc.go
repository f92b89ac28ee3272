// Package store provides the SQLite session journal.
//
// The journal is an append-only audit trail of what happened in a session:
//   - Events: one row per ingest, edit or validation pass
//   - Findings: the findings of each validation pass, in reporting order
//
// Every row carries the session id (a UUIDv7, so sessions sort by start
// time) and the seq stamped by the engine's logical clock. All reads order
// by seq, never by wall time, so a journal reads back identically.
//
// The journal is write-mostly. It is never used to restore a session.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Findings must reference a journaled event
//
// Open(":memory:") gives a throwaway journal for tests and one-shot CLI runs.
package store
