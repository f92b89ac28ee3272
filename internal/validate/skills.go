package validate

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/alchemist/internal/dataset"
)

// SkillIndex is the set of normalized skill tokens offered by the workers.
// It is derived, never stored: Validate rebuilds it on every call so edits
// to the workers collection are always reflected.
type SkillIndex map[string]struct{}

// BuildSkillIndex flattens the Skills column of every worker into tokens.
// Workers without a Skills column contribute nothing.
func BuildSkillIndex(workers dataset.Collection) SkillIndex {
	idx := make(SkillIndex)
	for _, w := range workers {
		v, ok := w.Get(ColumnSkills)
		if !ok {
			continue
		}
		for _, tok := range Tokenize(v.String()) {
			idx[tok] = struct{}{}
		}
	}
	return idx
}

// Has reports whether any worker offers skill. skill must already be
// normalized (see Tokenize).
func (idx SkillIndex) Has(skill string) bool {
	_, ok := idx[skill]
	return ok
}

// Tokenize splits a skills cell into normalized tokens: NFC normalized,
// lower-cased, split on commas and whitespace, empty tokens dropped.
// Order and repeats are preserved.
func Tokenize(s string) []string {
	s = strings.ToLower(norm.NFC.String(s))
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
