package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/alchemist/internal/dataset"
)

// EngineError represents a rejected engine action.
//
// Validation findings are never errors. An EngineError means the action
// itself could not be carried out, or could not be journaled.
type EngineError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the collection the action targeted.
	Kind dataset.Kind

	// RowID is the targeted row, -1 when the action is collection-wide.
	RowID int

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeRowNotFound indicates an edit named a row id the collection
	// does not contain. The collection is left unchanged.
	ErrCodeRowNotFound ErrorCode = "ROW_NOT_FOUND"

	// ErrCodeUnknownKind indicates a collection name other than clients,
	// workers or tasks.
	ErrCodeUnknownKind ErrorCode = "UNKNOWN_KIND"

	// ErrCodeJournal indicates the in-memory state was updated but the
	// journal write failed.
	ErrCodeJournal ErrorCode = "JOURNAL_WRITE"
)

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.RowID >= 0 {
		return fmt.Sprintf("%s: %s (kind=%s, row=%d)", e.Code, e.Message, e.Kind, e.RowID)
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsRowNotFoundError returns true if the error reports a missing edit target.
// Uses errors.As to handle wrapped errors.
func IsRowNotFoundError(err error) bool {
	return hasCode(err, ErrCodeRowNotFound)
}

// IsUnknownKindError returns true if the error reports an unknown collection.
func IsUnknownKindError(err error) bool {
	return hasCode(err, ErrCodeUnknownKind)
}

// IsJournalError returns true if the error reports a failed journal write.
func IsJournalError(err error) bool {
	return hasCode(err, ErrCodeJournal)
}

// NewRowNotFoundError creates an EngineError for a missing edit target.
func NewRowNotFoundError(kind dataset.Kind, rowID int, cause error) *EngineError {
	return &EngineError{
		Code:    ErrCodeRowNotFound,
		Message: "no record with this row id",
		Kind:    kind,
		RowID:   rowID,
		Err:     cause,
	}
}

// NewUnknownKindError creates an EngineError for an unknown collection.
func NewUnknownKindError(kind dataset.Kind) *EngineError {
	return &EngineError{
		Code:    ErrCodeUnknownKind,
		Message: fmt.Sprintf("unknown collection %q", string(kind)),
		Kind:    kind,
		RowID:   -1,
		Err:     dataset.ErrUnknownKind,
	}
}

// NewJournalError creates an EngineError for a failed journal write.
func NewJournalError(kind dataset.Kind, op string, cause error) *EngineError {
	return &EngineError{
		Code:    ErrCodeJournal,
		Message: fmt.Sprintf("journal %s", op),
		Kind:    kind,
		RowID:   -1,
		Err:     cause,
	}
}
