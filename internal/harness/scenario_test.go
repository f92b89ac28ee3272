package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/alchemist/internal/dataset"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/skill_coverage.yaml")
	require.NoError(t, err)

	assert.Equal(t, "skill_coverage", s.Name)
	assert.Equal(t, filepath.Join("testdata", "scenarios"), s.BaseDir)
	assert.Len(t, s.Steps, 5)
	assert.Len(t, s.Assertions, 6)

	require.NotNil(t, s.Steps[1].Ingest)
	assert.Equal(t, "tasks", s.Steps[1].Ingest.Kind)
	assert.Len(t, s.Steps[1].Ingest.Rows, 2)

	require.NotNil(t, s.Steps[2].Edit)
	assert.Equal(t, 1, s.Steps[2].Edit.RowID)
}

func TestParseScenario_RowsKeepOrderAndTypes(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: types
description: row decoding
steps:
  - ingest:
      kind: clients
      rows:
        - { ClientName: Acme, PriorityLevel: 3, Ratio: 0.5, ClientID: "007", Notes: null, Flag: true }
assertions:
  - { type: finding_count, kind: clients, count: 0 }
`))
	require.NoError(t, err)

	rec := s.Steps[0].Ingest.Rows[0].Record()
	assert.Equal(t, []string{"ClientName", "PriorityLevel", "Ratio", "ClientID", "Notes", "Flag"}, rec.Columns())

	v, _ := rec.Get("PriorityLevel")
	assert.Equal(t, dataset.Number(3), v)
	v, _ = rec.Get("Ratio")
	assert.Equal(t, dataset.Number(0.5), v)
	v, _ = rec.Get("ClientID")
	assert.Equal(t, dataset.String("007"), v, "quoted scalars stay text")
	v, _ = rec.Get("Notes")
	assert.True(t, dataset.IsNull(v))
	v, _ = rec.Get("Flag")
	assert.Equal(t, dataset.String("true"), v)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: misspelled key
step:
  - filter: { kind: tasks, query: x }
assertions:
  - { type: view_count, kind: tasks, count: 0 }
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_RejectsNestedRowValues(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: nested
description: nested cell
steps:
  - ingest: { kind: tasks, rows: [ { TaskID: [1, 2] } ] }
assertions:
  - { type: view_count, kind: tasks, count: 0 }
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a scalar")
}

func TestValidateScenario(t *testing.T) {
	row := 0
	valid := func() *Scenario {
		return &Scenario{
			Name:        "s",
			Description: "d",
			Steps:       []Step{{Filter: &FilterStep{Kind: "tasks", Query: "x"}}},
			Assertions:  []Assertion{{Type: AssertViewCount, Kind: "tasks"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{"valid", func(*Scenario) {}, ""},
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no steps", func(s *Scenario) { s.Steps = nil }, "steps list is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"bad duplicate mode", func(s *Scenario) { s.DuplicateIDs = "sometimes" }, "duplicate_ids"},
		{"empty step", func(s *Scenario) { s.Steps = []Step{{}} }, "exactly one of"},
		{"two actions", func(s *Scenario) {
			s.Steps[0].Export = &ExportStep{Kind: "tasks", Path: "out.csv"}
		}, "exactly one of"},
		{"unknown kind", func(s *Scenario) { s.Steps[0].Filter.Kind = "projects" }, "unknown collection kind"},
		{"filter on active kind", func(s *Scenario) { s.Steps[0].Filter.Kind = "" }, ""},
		{"export on active kind", func(s *Scenario) {
			s.Steps = []Step{{Export: &ExportStep{Path: "out.csv"}}}
		}, ""},
		{"revalidate", func(s *Scenario) {
			s.Steps = []Step{{Revalidate: &RevalidateStep{Kind: "clients"}}}
		}, ""},
		{"revalidate needs a kind", func(s *Scenario) {
			s.Steps = []Step{{Revalidate: &RevalidateStep{}}}
		}, "unknown collection kind"},
		{"ingest without source", func(s *Scenario) {
			s.Steps = []Step{{Ingest: &IngestStep{Kind: "tasks"}}}
		}, "exactly one of file or rows"},
		{"ingest with both sources", func(s *Scenario) {
			s.Steps = []Step{{Ingest: &IngestStep{Kind: "tasks", File: "a.csv", Rows: []Row{}}}}
		}, "exactly one of file or rows"},
		{"edit without cells", func(s *Scenario) {
			s.Steps = []Step{{Edit: &EditStep{Kind: "tasks"}}}
		}, "at least one column"},
		{"export without path", func(s *Scenario) {
			s.Steps = []Step{{Export: &ExportStep{Kind: "tasks"}}}
		}, "export path is required"},
		{"assertion without type", func(s *Scenario) { s.Assertions[0].Type = "" }, "type is required"},
		{"unknown assertion", func(s *Scenario) { s.Assertions[0].Type = "trace_count" }, "unknown assertion type"},
		{"finding_at without row", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertFindingAt, Kind: "tasks", Column: "TaskID"}}
		}, "row and column are required"},
		{"cell_value without column", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertCellValue, Kind: "tasks", Row: &row}}
		}, "row and column are required"},
		{"negative count", func(s *Scenario) { s.Assertions[0].Count = -1 }, "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := validateScenario(s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
