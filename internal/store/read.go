package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

// ReadEvents returns every event of a session ordered by seq.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, action, kind, row_id, detail
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev         Event
			action     string
			kind       string
			detailJSON string
		)
		if err := rows.Scan(&ev.SessionID, &ev.Seq, &action, &kind, &ev.RowID, &detailJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Action = Action(action)
		ev.Kind = dataset.Kind(kind)
		if ev.Detail, err = unmarshalDetail(detailJSON); err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.Seq, err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// ReadFindings returns the findings journaled for the validation pass at
// (sessionID, seq) in their original order.
//
// Returns an empty slice (not nil) if the pass found nothing.
func (s *Store) ReadFindings(ctx context.Context, sessionID string, seq int64) ([]validate.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, column_name, code, message
		FROM findings
		WHERE session_id = ? AND seq = ?
		ORDER BY ord ASC
	`, sessionID, seq)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	findings := []validate.Finding{}
	for rows.Next() {
		var f validate.Finding
		if err := rows.Scan(&f.RowID, &f.Column, &f.Code, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		findings = append(findings, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}

	return findings, nil
}

// LatestFindings returns the seq and findings of the most recent
// validation pass over kind in a session. It returns seq 0 and an empty
// slice when kind was never validated.
func (s *Store) LatestFindings(ctx context.Context, sessionID string, kind dataset.Kind) (int64, []validate.Finding, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT seq
		FROM events
		WHERE session_id = ? AND kind = ? AND action = ?
		ORDER BY seq DESC
		LIMIT 1
	`, sessionID, string(kind), string(ActionValidate)).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, []validate.Finding{}, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("latest findings: %w", err)
	}

	findings, err := s.ReadFindings(ctx, sessionID, seq)
	if err != nil {
		return 0, nil, fmt.Errorf("latest findings: %w", err)
	}
	return seq, findings, nil
}

// Sessions lists the session ids present in the journal. UUIDv7 ids sort
// by creation time, so the result is oldest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT session_id
		FROM events
		ORDER BY session_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
