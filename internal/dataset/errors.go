package dataset

import (
	"errors"
	"fmt"
)

// ErrUnknownKind indicates a collection name outside clients/workers/tasks.
var ErrUnknownKind = errors.New("unknown collection kind")

// ErrRowNotFound indicates that no record carries the requested row id.
var ErrRowNotFound = errors.New("row not found")

// StoreError describes a failed store operation on a specific row.
type StoreError struct {
	Kind  Kind
	RowID int
	Op    string // "update"
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s row %d: %v", e.Op, e.Kind, e.RowID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsRowNotFound returns true if err reports a missing row.
// Uses errors.Is to handle wrapped errors.
func IsRowNotFound(err error) bool {
	return errors.Is(err, ErrRowNotFound)
}
