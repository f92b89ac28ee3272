package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/testutil"
	"github.com/roach88/alchemist/internal/validate"
)

// Scenario is a scripted session: a list of steps run against a fresh
// engine followed by assertions on the final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// SessionID pins the journal session id. Defaults to
	// testutil.DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`

	// DuplicateIDs selects the duplicate-id mode: global (default) or
	// per_column.
	DuplicateIDs string `yaml:"duplicate_ids,omitempty"`

	// Steps run in order. Each step sets exactly one action.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions"`

	// BaseDir resolves relative ingest files. LoadScenario sets it to the
	// scenario file's directory.
	BaseDir string `yaml:"-"`
}

// Session returns the session id the run journals under.
func (s *Scenario) Session() string {
	return testutil.NewFixedSessionGenerator(s.SessionID).Generate()
}

// Step is one scripted action.
type Step struct {
	Ingest     *IngestStep     `yaml:"ingest,omitempty"`
	Edit       *EditStep       `yaml:"edit,omitempty"`
	Revalidate *RevalidateStep `yaml:"revalidate,omitempty"`
	Filter     *FilterStep     `yaml:"filter,omitempty"`
	Export     *ExportStep     `yaml:"export,omitempty"`
}

// IngestStep loads a collection from a file or from inline rows.
type IngestStep struct {
	Kind string `yaml:"kind"`
	File string `yaml:"file,omitempty"`
	Rows []Row  `yaml:"rows,omitempty"`
}

// EditStep changes cells of one row. Columns not named in Set keep their
// current values.
type EditStep struct {
	Kind  string `yaml:"kind"`
	RowID int    `yaml:"row_id"`
	Set   Row    `yaml:"set"`
}

// RevalidateStep reruns validation of a collection without changing it,
// so clients or tasks pick up skills added to workers.
type RevalidateStep struct {
	Kind string `yaml:"kind"`
}

// FilterStep records which rows a filter query selects. An empty Kind
// filters the active collection.
type FilterStep struct {
	Kind  string `yaml:"kind"`
	Query string `yaml:"query"`
}

// ExportStep writes a collection with its findings. The format follows
// the extension of Path, which is relative to the run's output directory.
// An empty Kind exports the active collection.
type ExportStep struct {
	Kind  string `yaml:"kind"`
	Path  string `yaml:"path"`
	Query string `yaml:"query,omitempty"`
}

// Row is an inline record. Column order follows the YAML mapping.
type Row []dataset.Field

// UnmarshalYAML decodes a mapping node, keeping key order. Null becomes a
// missing cell, YAML numbers become Number and every other scalar is text.
func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: row must be a mapping", node.Line)
	}
	fields := make(Row, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: column %q must be a scalar", val.Line, key.Value)
		}
		fields = append(fields, dataset.F(key.Value, scalarValue(val)))
	}
	*r = fields
	return nil
}

func scalarValue(node *yaml.Node) dataset.Value {
	switch node.ShortTag() {
	case "!!null":
		return dataset.Null{}
	case "!!int", "!!float":
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return dataset.Number(f)
		}
	}
	return dataset.String(node.Value)
}

// Record builds a dataset record from the row.
func (r Row) Record() dataset.Record {
	return dataset.NewRecord(r...)
}

// Assertion checks the state left by the steps.
type Assertion struct {
	// Type selects the check:
	// - "finding_count": number of findings of Kind, optionally narrowed
	//   by Code, Column and Row
	// - "finding_at": a finding exists at Row and Column (and Code if set)
	// - "view_count": Query over Kind selects Count rows
	// - "cell_value": the cell at Row and Column reads Value
	Type string `yaml:"type"`

	Kind   string `yaml:"kind"`
	Code   string `yaml:"code,omitempty"`
	Column string `yaml:"column,omitempty"`
	Row    *int   `yaml:"row,omitempty"`
	Query  string `yaml:"query,omitempty"`
	Value  string `yaml:"value,omitempty"`
	Count  int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFindingCount = "finding_count"
	AssertFindingAt    = "finding_at"
	AssertViewCount    = "view_count"
	AssertCellValue    = "cell_value"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.BaseDir = filepath.Dir(path)
	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML. Relative ingest files
// resolve against the working directory unless BaseDir is set afterwards.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.DuplicateIDs != "" && !validate.DuplicateIDMode(s.DuplicateIDs).Valid() {
		return fmt.Errorf("duplicate_ids must be %q or %q, got %q",
			validate.DuplicateIDGlobal, validate.DuplicateIDPerColumn, s.DuplicateIDs)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	set := 0
	var kind string
	if step.Ingest != nil {
		set++
		kind = step.Ingest.Kind
		if (step.Ingest.File == "") == (step.Ingest.Rows == nil) {
			return fmt.Errorf("ingest needs exactly one of file or rows")
		}
	}
	if step.Edit != nil {
		set++
		kind = step.Edit.Kind
		if len(step.Edit.Set) == 0 {
			return fmt.Errorf("edit needs at least one column in set")
		}
	}
	if step.Revalidate != nil {
		set++
		kind = step.Revalidate.Kind
	}
	optionalKind := false
	if step.Filter != nil {
		set++
		kind = step.Filter.Kind
		optionalKind = true
	}
	if step.Export != nil {
		set++
		kind = step.Export.Kind
		optionalKind = true
		if step.Export.Path == "" {
			return fmt.Errorf("export path is required")
		}
	}
	if set != 1 {
		return fmt.Errorf("exactly one of ingest, edit, revalidate, filter or export is required, got %d", set)
	}
	if optionalKind && kind == "" {
		return nil
	}
	_, err := dataset.ParseKind(kind)
	return err
}

func validateAssertion(a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("type is required")
	}
	if _, err := dataset.ParseKind(a.Kind); err != nil {
		return err
	}

	switch a.Type {
	case AssertFindingCount, AssertViewCount:
		if a.Count < 0 {
			return fmt.Errorf("count must be non-negative for %s", a.Type)
		}
	case AssertFindingAt:
		if a.Row == nil || a.Column == "" {
			return fmt.Errorf("row and column are required for finding_at")
		}
	case AssertCellValue:
		if a.Row == nil || a.Column == "" {
			return fmt.Errorf("row and column are required for cell_value")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
