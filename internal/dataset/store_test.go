package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = NewRecord(F("Name", String(string(rune('a'+i)))))
	}
	return out
}

func TestIngestAssignsPositionalRowIDs(t *testing.T) {
	s := NewStore()
	input := rows(3)
	input[0].RowID = 42 // ignored, the store assigns ids

	require.NoError(t, s.Ingest(KindClients, input))

	coll := s.Collection(KindClients)
	require.Len(t, coll, 3)
	for i, r := range coll {
		assert.Equal(t, i, r.RowID)
	}
	assert.Equal(t, 42, input[0].RowID, "caller's slice is not modified")
}

func TestIngestReplacesCollection(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Ingest(KindTasks, rows(3)))
	require.NoError(t, s.Ingest(KindTasks, rows(1)))

	assert.Len(t, s.Collection(KindTasks), 1)
}

func TestCollectionsAreIndependent(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Ingest(KindWorkers, rows(2)))
	require.NoError(t, s.Ingest(KindClients, rows(3)))

	assert.Len(t, s.Collection(KindWorkers), 2)
	assert.Len(t, s.Collection(KindClients), 3)
	assert.Empty(t, s.Collection(KindTasks))
}

func TestIngestUnknownKind(t *testing.T) {
	s := NewStore()
	err := s.Ingest(Kind("projects"), rows(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestUpdateRowKeepsRowID(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Ingest(KindClients, rows(3)))

	edited := NewRecord(F("Name", String("edited")))
	edited.RowID = 99
	require.NoError(t, s.UpdateRow(KindClients, 1, edited))

	coll := s.Collection(KindClients)
	assert.Equal(t, 1, coll[1].RowID)
	v, _ := coll[1].Get("Name")
	assert.Equal(t, String("edited"), v)
	assert.Equal(t, 0, coll[0].RowID)
	assert.Equal(t, 2, coll[2].RowID)
}

func TestUpdateRowNotFound(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Ingest(KindClients, rows(2)))

	var events []Changed
	s.Subscribe(func(ev Changed) { events = append(events, ev) })

	err := s.UpdateRow(KindClients, 7, NewRecord())
	require.Error(t, err)
	assert.True(t, IsRowNotFound(err))

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindClients, se.Kind)
	assert.Equal(t, 7, se.RowID)

	assert.Empty(t, events, "failed update publishes nothing")
	assert.Len(t, s.Collection(KindClients), 2)
}

func TestUpdateRowDoesNotMutatePreviousSnapshot(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Ingest(KindClients, rows(2)))
	before := s.Collection(KindClients)

	require.NoError(t, s.UpdateRow(KindClients, 0, NewRecord(F("Name", String("z")))))

	v, _ := before[0].Get("Name")
	assert.Equal(t, String("a"), v)
}

func TestSubscribersReceiveEventsInOrder(t *testing.T) {
	s := NewStore()
	var got []Changed
	s.Subscribe(func(ev Changed) { got = append(got, ev) })

	require.NoError(t, s.Ingest(KindTasks, rows(2)))
	require.NoError(t, s.UpdateRow(KindTasks, 1, NewRecord()))
	require.NoError(t, s.Ingest(KindWorkers, rows(1)))

	assert.Equal(t, []Changed{
		{Kind: KindTasks, Reason: ChangeIngest, RowID: -1},
		{Kind: KindTasks, Reason: ChangeEdit, RowID: 1},
		{Kind: KindWorkers, Reason: ChangeIngest, RowID: -1},
	}, got)
}

func TestActiveKind(t *testing.T) {
	s := NewStore()
	_, ok := s.Active()
	assert.False(t, ok)

	require.NoError(t, s.SetActive(KindWorkers))
	k, ok := s.Active()
	assert.True(t, ok)
	assert.Equal(t, KindWorkers, k)

	assert.Error(t, s.SetActive(Kind("nope")))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Clients ")
	require.NoError(t, err)
	assert.Equal(t, KindClients, k)

	_, err = ParseKind("projects")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
