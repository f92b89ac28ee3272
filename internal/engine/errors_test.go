package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/alchemist/internal/dataset"
)

func TestEngineError_Messages(t *testing.T) {
	notFound := NewRowNotFoundError(dataset.KindClients, 7, dataset.ErrRowNotFound)
	assert.Equal(t, "ROW_NOT_FOUND: no record with this row id (kind=clients, row=7)", notFound.Error())

	unknown := NewUnknownKindError("projects")
	assert.Equal(t, `UNKNOWN_KIND: unknown collection "projects" (kind=projects)`, unknown.Error())

	journal := &EngineError{Code: ErrCodeJournal, Message: "journal ingest", RowID: -1}
	assert.Equal(t, "JOURNAL_WRITE: journal ingest", journal.Error())
}

func TestEngineError_Helpers(t *testing.T) {
	wrapped := fmt.Errorf("edit: %w", NewRowNotFoundError(dataset.KindTasks, 1, dataset.ErrRowNotFound))
	assert.True(t, IsRowNotFoundError(wrapped))
	assert.False(t, IsUnknownKindError(wrapped))
	assert.True(t, errors.Is(wrapped, dataset.ErrRowNotFound), "cause is reachable")

	assert.True(t, IsUnknownKindError(NewUnknownKindError("x")))
	assert.True(t, errors.Is(NewUnknownKindError("x"), dataset.ErrUnknownKind))

	assert.True(t, IsJournalError(NewJournalError(dataset.KindClients, "findings", errors.New("disk full"))))
	assert.False(t, IsJournalError(errors.New("plain")))
	assert.False(t, IsRowNotFoundError(nil))
}
