package query

import (
	"fmt"
	"math"

	"github.com/roach88/alchemist/internal/dataset"
)

// LintResult describes likely mistakes in a query against a set of columns.
//
// A query with warnings still runs; Lint only explains why a filter may
// come back empty.
type LintResult struct {
	// Clean is true when no warnings were produced.
	Clean bool

	// Warnings lists the problems found, in a stable order.
	Warnings []string
}

// Lint checks q against the columns of the collection it will filter.
//
// Rules:
//  1. A comparison field must name an existing column.
//  2. A numeric operator needs a value that starts with a number.
//  3. The rowId column is not queryable.
//
// Lint is a pure function with no side effects.
func Lint(q Query, columns []string) LintResult {
	l := &linter{
		warnings: []string{},
		columns:  make(map[string]struct{}, len(columns)),
	}
	for _, c := range columns {
		l.columns[c] = struct{}{}
	}
	l.lintQuery(q)

	return LintResult{
		Clean:    len(l.warnings) == 0,
		Warnings: l.warnings,
	}
}

type linter struct {
	columns  map[string]struct{}
	warnings []string
}

func (l *linter) addWarning(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *linter) lintQuery(q Query) {
	c, ok := q.(Comparison)
	if !ok {
		return
	}
	if c.Field == dataset.RowIDColumn {
		l.addWarning("field %q is internal and never matches", c.Field)
		return
	}
	if _, known := l.columns[c.Field]; !known {
		l.addWarning("field %q is not a column; no row will match", c.Field)
	}
	if c.Op.Numeric() && math.IsNaN(parseFloat(c.Value)) {
		l.addWarning("value %q is not numeric; %s never matches", c.Value, c.Op)
	}
}
