package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/sheet"
	"github.com/roach88/alchemist/internal/validate"
)

func TestExport_CSVWithQuery(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv", filterClients)
	out := filepath.Join(dir, "urgent.csv")

	stdout, _, err := executeCommand(t, "export", path, "--kind", "clients", "--out", out, "--query", "PriorityLevel >= 4")
	require.NoError(t, err)
	assert.Equal(t, "Exported 2 row(s) to "+out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "ClientID,ClientName,PriorityLevel\nC2,Globex,5\nC3,Initech Corp,4\n", string(data))
}

func TestExport_XLSXCarriesFindings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv", dirtyClients)
	out := filepath.Join(dir, "clients.xlsx")

	stdout, _, err := executeCommand(t, "export", path, "--kind", "clients", "--out", out, "--format", "json")
	require.NoError(t, err)

	data := decodeResponse(t, stdout)["data"].(map[string]any)
	assert.Equal(t, float64(2), data["rows"])
	assert.Equal(t, float64(3), data["findings"])

	records, err := sheet.ReadFile(out)
	require.NoError(t, err)
	require.Len(t, records, 2)

	v, ok := records[0].Get("PriorityLevel")
	require.True(t, ok)
	assert.Equal(t, "9", v.String())

	// The data sheet round-trips; the same findings come back on revalidation.
	assert.Len(t, validate.Validate(records, nil), 3)
}

func TestExport_InvalidOut(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clients.csv", cleanClients)

	stdout, _, err := executeCommand(t, "export", path, "--kind", "clients", "--out", filepath.Join(dir, "out.json"), "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeWriteFailed, decodeResponse(t, stdout)["error"].(map[string]any)["code"])
}
