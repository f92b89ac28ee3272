package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/dataset"
)

func TestChangeQueue_FIFO(t *testing.T) {
	q := newChangeQueue()
	q.Enqueue(dataset.Changed{Kind: dataset.KindClients, Reason: dataset.ChangeIngest, RowID: -1})
	q.Enqueue(dataset.Changed{Kind: dataset.KindClients, Reason: dataset.ChangeEdit, RowID: 2})
	q.Enqueue(dataset.Changed{Kind: dataset.KindWorkers, Reason: dataset.ChangeIngest, RowID: -1})
	assert.Equal(t, 3, q.Len())

	first, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, dataset.ChangeIngest, first.Reason)

	second, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, 2, second.RowID)

	third, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, dataset.KindWorkers, third.Kind)

	_, ok = q.TryDequeue()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestChangeQueue_ReusableAfterDrain(t *testing.T) {
	q := newChangeQueue()
	for round := 0; round < 3; round++ {
		q.Enqueue(dataset.Changed{Kind: dataset.KindTasks, RowID: round})
		c, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, round, c.RowID)
	}
}
