package query

import (
	"strings"

	"github.com/roach88/alchemist/internal/dataset"
)

// Query is a parsed filter expression.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern keeps type switches over queries exhaustive:
//
//	switch q := query.(type) {
//	case All:
//	case Comparison:
//	case FreeText:
//	}
type Query interface {
	queryNode() // Marker method - seals interface to this package

	// Match reports whether the record belongs to the filtered view.
	Match(r dataset.Record) bool
}

// Operator is a comparison operator keyword.
type Operator string

const (
	OpEq       Operator = "="
	OpNe       Operator = "!="
	OpGt       Operator = ">"
	OpLt       Operator = "<"
	OpGe       Operator = ">="
	OpLe       Operator = "<="
	OpIncludes Operator = "includes"
)

// Numeric reports whether the operator compares numbers rather than text.
func (op Operator) Numeric() bool {
	switch op {
	case OpGt, OpLt, OpGe, OpLe:
		return true
	}
	return false
}

// All is the query of a blank filter box. It matches every record and
// Apply returns the input collection unchanged.
type All struct{}

func (All) queryNode() {}

// Match always returns true.
func (All) Match(dataset.Record) bool { return true }

// Comparison is a structured "<field> <op> <value>" filter.
//
// Semantics:
//   - Records without Field (or with a null value there) never match.
//   - =, != and includes compare lower-cased text.
//   - >, <, >= and <= compare the leading numbers of both sides; a side
//     that does not start with a number makes the comparison false.
type Comparison struct {
	Field string   // exact column name
	Op    Operator // always lower case
	Value string   // trimmed, case preserved
}

func (Comparison) queryNode() {}

// Match evaluates the comparison against one record.
func (c Comparison) Match(r dataset.Record) bool {
	v, ok := r.Get(c.Field)
	if !ok || dataset.IsNull(v) {
		return false
	}
	actual := strings.ToLower(v.String())
	want := strings.ToLower(c.Value)

	switch c.Op {
	case OpEq:
		return actual == want
	case OpNe:
		return actual != want
	case OpIncludes:
		return strings.Contains(actual, want)
	case OpGt:
		return parseFloat(actual) > parseFloat(want)
	case OpLt:
		return parseFloat(actual) < parseFloat(want)
	case OpGe:
		return parseFloat(actual) >= parseFloat(want)
	case OpLe:
		return parseFloat(actual) <= parseFloat(want)
	default:
		return false
	}
}

// FreeText is the fallback for input that is not a comparison: a record
// matches when any of its values contains Needle, ignoring case.
//
// The row id is not a value and is never searched, so "3" does not match
// the fourth row just because of its id.
type FreeText struct {
	Needle string // raw query text, not trimmed
}

func (FreeText) queryNode() {}

// Match reports whether any value of r contains the needle.
func (f FreeText) Match(r dataset.Record) bool {
	needle := strings.ToLower(f.Needle)
	for _, field := range r.Fields() {
		if strings.Contains(strings.ToLower(field.Value.String()), needle) {
			return true
		}
	}
	return false
}
