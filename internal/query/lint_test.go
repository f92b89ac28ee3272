package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clientColumns = []string{"ClientID", "ClientName", "PriorityLevel"}

func TestLintCleanQueries(t *testing.T) {
	for _, text := range []string{"", "acme", "PriorityLevel > 3", "ClientName includes co"} {
		result := Lint(Parse(text), clientColumns)
		assert.True(t, result.Clean, text)
		assert.Empty(t, result.Warnings, text)
	}
}

func TestLintUnknownField(t *testing.T) {
	result := Lint(Parse("Priority > 3"), clientColumns)
	assert.False(t, result.Clean)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"Priority"`)
}

func TestLintNonNumericValue(t *testing.T) {
	result := Lint(Parse("PriorityLevel >= high"), clientColumns)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "not numeric")
}

func TestLintRowID(t *testing.T) {
	result := Lint(Parse("rowId = 1"), clientColumns)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "internal")
}

func TestLintAccumulates(t *testing.T) {
	result := Lint(Parse("Budget > lots"), clientColumns)
	assert.Len(t, result.Warnings, 2)
}
