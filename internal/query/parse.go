package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/alchemist/internal/dataset"
)

// comparisonPattern matches "<field> <op> <value>". The field is the
// shortest run of word and space characters that is followed by an
// operator. Two-character operators are listed first so ">=" is not read
// as ">" followed by a value starting with "=".
var comparisonPattern = regexp.MustCompile(`(?i)^([\w\s]+?)\s*(>=|<=|!=|=|>|<|includes)\s*(.+)$`)

// Parse turns filter box text into a Query. It never fails: blank text is
// All, a structured comparison is Comparison, anything else is FreeText.
func Parse(text string) Query {
	if strings.TrimSpace(text) == "" {
		return All{}
	}
	m := comparisonPattern.FindStringSubmatch(text)
	if m == nil {
		return FreeText{Needle: text}
	}
	return Comparison{
		Field: strings.TrimSpace(m[1]),
		Op:    Operator(strings.ToLower(m[2])),
		Value: strings.TrimSpace(m[3]),
	}
}

// Filter returns the records of coll matching text. Blank text returns
// coll itself. Filter is pure and total.
func Filter(coll dataset.Collection, text string) dataset.Collection {
	return Apply(coll, Parse(text))
}

// Apply returns the records of coll matching q, in their original order.
func Apply(coll dataset.Collection, q Query) dataset.Collection {
	if _, ok := q.(All); ok || q == nil {
		return coll
	}
	out := make(dataset.Collection, 0, len(coll))
	for _, r := range coll {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Describe renders a parsed query for diagnostics.
func Describe(q Query) string {
	switch q := q.(type) {
	case All:
		return "all rows"
	case Comparison:
		kind := "text"
		if q.Op.Numeric() {
			kind = "numeric"
		}
		return fmt.Sprintf("%s comparison: %q %s %q", kind, q.Field, q.Op, q.Value)
	case FreeText:
		return fmt.Sprintf("free text: %q", q.Needle)
	default:
		return fmt.Sprintf("unknown query %T", q)
	}
}
