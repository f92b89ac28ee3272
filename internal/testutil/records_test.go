package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/dataset"
)

func TestRec(t *testing.T) {
	r := Rec("ClientID", "C1", "Name", "")
	assert.Equal(t, []string{"ClientID", "Name"}, r.Columns())
	v, ok := r.Get("Name")
	require.True(t, ok)
	assert.Equal(t, dataset.String(""), v)
}

func TestRecOddArgsPanics(t *testing.T) {
	assert.Panics(t, func() { Rec("ClientID") })
}

func TestCollNumbersRows(t *testing.T) {
	c := Coll(Rec("A", "1"), Rec("A", "2"))
	assert.Equal(t, 0, c[0].RowID)
	assert.Equal(t, 1, c[1].RowID)
}

func TestWorkers(t *testing.T) {
	w := Workers("welding", "java, go")
	require.Len(t, w, 2)
	v, _ := w[1].Get("Skills")
	assert.Equal(t, dataset.String("java, go"), v)
	id, _ := w[0].Get("WorkerID")
	assert.Equal(t, dataset.String("W1"), id)
}

func TestFixedSessionGenerator(t *testing.T) {
	assert.Equal(t, "s-1", NewFixedSessionGenerator("s-1").Generate())
	assert.Equal(t, DefaultSessionID, NewFixedSessionGenerator("").Generate())
}
