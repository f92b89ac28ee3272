package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/sheet"
	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/testutil"
	"github.com/roach88/alchemist/internal/validate"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func actions(r *Result) []string {
	out := make([]string, len(r.Trace))
	for i, ev := range r.Trace {
		out[i] = ev.Action
	}
	return out
}

func TestRun_SkillCoverage(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/skill_coverage.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)

	assert.Equal(t, []string{
		"ingest", "validate",
		"ingest", "validate",
		"edit", "validate",
		TraceFilter,
		TraceEditFailed,
	}, actions(result))

	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+1), ev.Seq, "seq is dense and ordered")
	}

	ingestTasks := result.Trace[3]
	require.Len(t, ingestTasks.Findings, 3)
	assert.Equal(t, validate.CodeUnknownSkill, ingestTasks.Findings[0].Code)
	assert.Equal(t, validate.CodeDuplicateID, ingestTasks.Findings[1].Code)
	assert.Equal(t, validate.CodePriorityRange, ingestTasks.Findings[2].Code)

	assert.Equal(t, []int{0}, result.Trace[6].Matched)
	assert.Equal(t, 7, result.Trace[7].RowID)
}

func TestRun_IsDeterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/skill_coverage.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	a, err := MarshalTrace(s.Name, testutil.DefaultSessionID, first)
	require.NoError(t, err)
	b, err := MarshalTrace(s.Name, testutil.DefaultSessionID, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_FailingAssertion(t *testing.T) {
	s := mustParse(t, `
name: failing
description: expects a finding that is not there
steps:
  - ingest: { kind: clients, rows: [ { ClientID: C1, ClientName: Acme } ] }
assertions:
  - { type: finding_count, kind: clients, count: 2 }
  - { type: finding_at, kind: clients, row: 0, column: ClientName }
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Assertion failed: finding_count")
	assert.Contains(t, result.Errors[1], "Assertion failed: finding_at")
}

func TestRun_DuplicateIDModes(t *testing.T) {
	src := `
name: dup_modes
description: one value in two id columns
%s
steps:
  - ingest: { kind: clients, rows: [ { ClientID: A1, GroupID: A1 } ] }
assertions:
  - { type: finding_count, kind: clients, code: V002, count: %d }
`
	global := mustParse(t, fmt.Sprintf(src, "", 1))
	result, err := Run(global)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	perColumn := mustParse(t, fmt.Sprintf(src, "duplicate_ids: per_column", 0))
	result, err = Run(perColumn)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_IngestFileRelativeToScenario(t *testing.T) {
	dir := t.TempDir()
	csv := "WorkerID,Skills\nW1,go\nW1,sql\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workers.csv"), []byte(csv), 0644))
	scenario := `
name: from_file
description: ingest a CSV next to the scenario
steps:
  - ingest: { kind: workers, file: workers.csv }
assertions:
  - { type: finding_at, kind: workers, row: 1, column: WorkerID, code: V002 }
  - { type: view_count, kind: workers, query: "Skills = SQL", count: 1 }
`
	path := filepath.Join(dir, "from_file.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_IngestMissingFile(t *testing.T) {
	s := mustParse(t, `
name: missing_file
description: the ingest file does not exist
steps:
  - ingest: { kind: tasks, file: does-not-exist.csv }
assertions:
  - { type: view_count, kind: tasks, count: 0 }
`)
	s.BaseDir = t.TempDir()

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0")
}

func TestRun_Export(t *testing.T) {
	out := t.TempDir()
	s := mustParse(t, `
name: export
description: export a filtered view
steps:
  - ingest:
      kind: clients
      rows:
        - { ClientID: C1, PriorityLevel: 1 }
        - { ClientID: C2, PriorityLevel: 8 }
        - { ClientID: C3, PriorityLevel: 4 }
  - export: { kind: clients, path: high.csv, query: "PriorityLevel > 2" }
  - export: { kind: clients, path: all.xlsx }
assertions:
  - { type: finding_count, kind: clients, count: 1 }
`)

	result, err := Run(s, WithOutputDir(out))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.Count(TraceExport))
	assert.Equal(t, "2", result.Trace[2].Detail["rows"])
	assert.Equal(t, "3", result.Trace[3].Detail["rows"])

	high, err := sheet.ReadFile(filepath.Join(out, "high.csv"))
	require.NoError(t, err)
	require.Len(t, high, 2)
	v, _ := high[0].Get("ClientID")
	assert.Equal(t, "C2", v.String())

	all, err := sheet.ReadFile(filepath.Join(out, "all.xlsx"))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRun_WithJournalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s := mustParse(t, `
name: journaled
description: journal to a file
session_id: pinned
steps:
  - ingest: { kind: tasks, rows: [ { TaskID: T1 } ] }
  - filter: { kind: tasks, query: T1 }
assertions:
  - { type: view_count, kind: tasks, query: T1, count: 1 }
`)

	result, err := Run(s, WithJournalPath(path))
	require.NoError(t, err)
	assert.True(t, result.Pass)

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	events, err := st.ReadEvents(context.Background(), "pinned")
	require.NoError(t, err)
	assert.Len(t, events, 2, "harness events are traced, not journaled")
	assert.Len(t, result.Trace, 3)
}

func TestRun_RevalidateAfterWorkersChange(t *testing.T) {
	s := mustParse(t, `
name: revalidate
description: tasks pick up a skill added to workers only when revalidated
steps:
  - ingest: { kind: workers, rows: [ { WorkerID: W1, Skills: go } ] }
  - ingest: { kind: tasks, rows: [ { TaskID: T1, RequiredSkills: "go, sql" } ] }
  - edit: { kind: workers, row_id: 0, set: { Skills: "go, sql" } }
  - revalidate: { kind: tasks }
assertions:
  - { type: finding_count, kind: tasks, count: 0 }
`)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{
		"ingest", "validate",
		"ingest", "validate",
		"edit", "validate",
		"validate",
	}, actions(result))

	last := result.Trace[6]
	assert.Equal(t, "tasks", last.Kind)
	assert.Equal(t, "revalidate", last.Detail["reason"])
	assert.Empty(t, last.Findings)
	assert.Len(t, result.Trace[3].Findings, 1, "the first pass flags sql")
}

func TestRun_FilterAndExportDefaultToActiveKind(t *testing.T) {
	out := t.TempDir()
	s := mustParse(t, `
name: active_kind
description: steps without a kind read the collection ingested last
steps:
  - ingest: { kind: clients, rows: [ { ClientID: C1 }, { ClientID: C2 } ] }
  - ingest: { kind: tasks, rows: [ { TaskID: T1 } ] }
  - filter: { query: T1 }
  - export: { path: active.csv }
assertions:
  - { type: view_count, kind: clients, count: 2 }
`)

	result, err := Run(s, WithOutputDir(out))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	filter := result.Trace[4]
	assert.Equal(t, TraceFilter, filter.Action)
	assert.Equal(t, "tasks", filter.Kind)
	assert.Equal(t, []int{0}, filter.Matched)

	export := result.Trace[5]
	assert.Equal(t, "tasks", export.Kind)
	assert.Equal(t, "1", export.Detail["rows"])

	recs, err := sheet.ReadFile(filepath.Join(out, "active.csv"))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	v, _ := recs[0].Get("TaskID")
	assert.Equal(t, "T1", v.String())
}

func TestRun_FilterWithoutActiveKind(t *testing.T) {
	s := mustParse(t, `
name: nothing_active
description: a filter before any ingest has nothing to read
steps:
  - filter: { query: x }
assertions:
  - { type: view_count, kind: tasks, count: 0 }
`)

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no collection ingested")
}
