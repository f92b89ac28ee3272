package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/engine"
	"github.com/roach88/alchemist/internal/validate"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string             // Assertion type for categorization
	Expected string             // Human-readable expected outcome
	Actual   string             // Human-readable actual outcome
	Findings []validate.Finding // Findings of the asserted kind, for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Findings) > 0 {
		fmt.Fprintf(&buf, "\nFindings:\n")
		for _, f := range e.Findings {
			fmt.Fprintf(&buf, "  [%s] %s\n", f.Code, f)
		}
	}
	return buf.String()
}

// matchFinding applies the optional code, column and row filters.
func matchFinding(f validate.Finding, a Assertion) bool {
	if a.Code != "" && f.Code != a.Code {
		return false
	}
	if a.Column != "" && f.Column != a.Column {
		return false
	}
	if a.Row != nil && f.RowID != *a.Row {
		return false
	}
	return true
}

func describeFilter(a Assertion) string {
	var parts []string
	if a.Code != "" {
		parts = append(parts, "code="+a.Code)
	}
	if a.Column != "" {
		parts = append(parts, "column="+a.Column)
	}
	if a.Row != nil {
		parts = append(parts, fmt.Sprintf("row=%d", *a.Row))
	}
	if len(parts) == 0 {
		return a.Kind
	}
	return a.Kind + " where " + strings.Join(parts, " AND ")
}

// assertFindingCount checks how many current findings match the filters.
func assertFindingCount(findings []validate.Finding, a Assertion) error {
	count := 0
	for _, f := range findings {
		if matchFinding(f, a) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertFindingCount,
			Expected: fmt.Sprintf("%d findings in %s", a.Count, describeFilter(a)),
			Actual:   fmt.Sprintf("%d findings", count),
			Findings: findings,
		}
	}
	return nil
}

// assertFindingAt checks that at least one finding matches row and column.
func assertFindingAt(findings []validate.Finding, a Assertion) error {
	for _, f := range findings {
		if matchFinding(f, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertFindingAt,
		Expected: fmt.Sprintf("a finding in %s", describeFilter(a)),
		Actual:   "not found",
		Findings: findings,
	}
}

// assertViewCount checks how many rows the query selects.
func assertViewCount(eng *engine.Engine, kind dataset.Kind, a Assertion) error {
	view := eng.View(kind, a.Query)
	if len(view) != a.Count {
		return &AssertionError{
			Type:     AssertViewCount,
			Expected: fmt.Sprintf("%d rows of %s matching %q", a.Count, kind, a.Query),
			Actual:   fmt.Sprintf("%d rows", len(view)),
		}
	}
	return nil
}

// assertCellValue checks the text of one cell of the canonical collection.
func assertCellValue(coll dataset.Collection, a Assertion) error {
	i := coll.IndexOf(*a.Row)
	if i < 0 {
		return &AssertionError{
			Type:     AssertCellValue,
			Expected: fmt.Sprintf("row %d in %s", *a.Row, a.Kind),
			Actual:   "row not found",
		}
	}
	v, ok := coll[i].Get(a.Column)
	if !ok {
		return &AssertionError{
			Type:     AssertCellValue,
			Expected: fmt.Sprintf("column %q in row %d", a.Column, *a.Row),
			Actual:   fmt.Sprintf("columns %v", coll[i].Columns()),
		}
	}
	if v.String() != a.Value {
		return &AssertionError{
			Type:     AssertCellValue,
			Expected: fmt.Sprintf("row %d %s = %q", *a.Row, a.Column, a.Value),
			Actual:   fmt.Sprintf("%q", v.String()),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the engine state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(eng *engine.Engine, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		kind, err := dataset.ParseKind(a.Kind)
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion[%d]: %v", i, err))
			continue
		}

		switch a.Type {
		case AssertFindingCount:
			err = assertFindingCount(eng.Findings(kind), a)
		case AssertFindingAt:
			err = assertFindingAt(eng.Findings(kind), a)
		case AssertViewCount:
			err = assertViewCount(eng, kind, a)
		case AssertCellValue:
			err = assertCellValue(eng.Collection(kind), a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
