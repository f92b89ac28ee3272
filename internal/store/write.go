package store

import (
	"context"
	"fmt"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

// WriteEvent appends an event to the journal.
// Uses ON CONFLICT(session_id, seq) DO NOTHING for idempotency - writing
// the same event twice is silently ignored.
func (s *Store) WriteEvent(ctx context.Context, ev Event) error {
	if ev.SessionID == "" {
		return fmt.Errorf("write event: empty session id")
	}

	detailJSON, err := marshalDetail(ev.Detail)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events
		(session_id, seq, action, kind, row_id, detail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		ev.SessionID,
		ev.Seq,
		string(ev.Action),
		string(ev.Kind),
		ev.RowID,
		detailJSON,
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	return nil
}

// WriteFindings records the findings of the validation pass journaled as
// event (sessionID, seq). Finding order is preserved. The referenced event
// must already exist (foreign key constraint); an empty pass writes no rows.
func (s *Store) WriteFindings(ctx context.Context, sessionID string, seq int64, kind dataset.Kind, findings []validate.Finding) error {
	if len(findings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write findings: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings
		(session_id, seq, ord, kind, row_id, column_name, code, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq, ord) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write findings: prepare: %w", err)
	}
	defer stmt.Close()

	for i, f := range findings {
		if _, err := stmt.ExecContext(ctx,
			sessionID,
			seq,
			i,
			string(kind),
			f.RowID,
			f.Column,
			f.Code,
			f.Message,
		); err != nil {
			return fmt.Errorf("write findings: row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write findings: commit: %w", err)
	}
	return nil
}
