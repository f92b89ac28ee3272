package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

const testSession = "0190a8f2-0000-7000-8000-000000000001"

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// writeValidation journals a validate event at seq with its findings.
func writeValidation(t *testing.T, s *Store, seq int64, kind dataset.Kind, findings ...validate.Finding) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.WriteEvent(ctx, Event{
		SessionID: testSession,
		Seq:       seq,
		Action:    ActionValidate,
		Kind:      kind,
		RowID:     NoRow,
	}))
	require.NoError(t, s.WriteFindings(ctx, testSession, seq, kind, findings))
}
