package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommand_AssertionsOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fix.yaml", passingScenario)
	writeFile(t, dir, "broken.yaml", failingScenario)

	stdout, _, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✓ fix_priority")
	assert.Contains(t, stdout, "✗ still_broken")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fix.yaml", passingScenario)
	writeFile(t, dir, "broken.yaml", failingScenario)

	stdout, _, err := executeCommand(t, "test", dir, "--filter", "fix*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommand_GoldenUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fix.yaml", passingScenario)

	stdout, _, err := executeCommand(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ fix_priority (golden updated)")

	golden := filepath.Join(dir, "golden", "fix.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"run-session"`)

	stdout, _, err = executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ fix_priority")

	// A stale golden fails the scenario even though its assertions hold.
	require.NoError(t, os.WriteFile(golden, []byte("{}"), 0o644))
	stdout, _, err = executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "Golden file mismatch")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fix.yaml", passingScenario)

	stdout, _, err := executeCommand(t, "test", dir, "--format", "json")
	require.NoError(t, err)

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "ok", resp["status"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(1), data["passed"])
	assert.Equal(t, float64(1), data["total"])
}

func TestTestCommand_Empty(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found.")

	_, _, err = executeCommand(t, "test", filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "fix.golden"), goldenFilePath(filepath.Join("scenarios", "fix.yaml")))
}
