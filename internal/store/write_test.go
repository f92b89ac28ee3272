package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

func TestWriteEvent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.WriteEvent(ctx, Event{
		SessionID: testSession,
		Seq:       1,
		Action:    ActionEdit,
		Kind:      dataset.KindClients,
		RowID:     2,
		Detail:    map[string]string{"PriorityLevel": "3", "ClientID": "C3"},
	})
	require.NoError(t, err)

	var detail string
	require.NoError(t, s.db.QueryRow(
		"SELECT detail FROM events WHERE session_id = ? AND seq = 1", testSession,
	).Scan(&detail))
	assert.Equal(t, `{"ClientID":"C3","PriorityLevel":"3"}`, detail, "keys sorted")
}

func TestWriteEvent_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ev := Event{SessionID: testSession, Seq: 1, Action: ActionIngest, Kind: dataset.KindTasks, RowID: NoRow}

	require.NoError(t, s.WriteEvent(ctx, ev))
	require.NoError(t, s.WriteEvent(ctx, ev))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWriteEvent_EmptySession(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteEvent(context.Background(), Event{Seq: 1, Action: ActionIngest})
	assert.Error(t, err)
}

func TestWriteEvent_NoHTMLEscaping(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteEvent(ctx, Event{
		SessionID: testSession,
		Seq:       1,
		Action:    ActionEdit,
		Kind:      dataset.KindClients,
		Detail:    map[string]string{"Notes": "<a&b>"},
	}))

	var detail string
	require.NoError(t, s.db.QueryRow("SELECT detail FROM events").Scan(&detail))
	assert.Equal(t, `{"Notes":"<a&b>"}`, detail)
}

func TestWriteFindings_RequiresEvent(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteFindings(context.Background(), testSession, 7, dataset.KindClients, []validate.Finding{
		{RowID: 0, Column: "ClientID", Code: validate.CodeMissingValue, Message: validate.MsgMissingValue},
	})
	assert.Error(t, err, "foreign key to events must hold")
}

func TestWriteFindings_Empty(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.WriteFindings(context.Background(), testSession, 1, dataset.KindClients, nil))
}
