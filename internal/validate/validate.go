package validate

import (
	"strings"

	"github.com/roach88/alchemist/internal/dataset"
)

// DuplicateIDMode selects how id-like columns share their seen-set.
type DuplicateIDMode string

const (
	// DuplicateIDGlobal keeps one seen-set for every id-like column of the
	// pass. A value that appears once in ClientID and once in WorkerID is
	// reported as a duplicate. This is the historical behavior and the
	// default.
	DuplicateIDGlobal DuplicateIDMode = "global"

	// DuplicateIDPerColumn keeps a separate seen-set per column name.
	DuplicateIDPerColumn DuplicateIDMode = "per_column"
)

// Valid reports whether m is a known mode.
func (m DuplicateIDMode) Valid() bool {
	return m == DuplicateIDGlobal || m == DuplicateIDPerColumn
}

// Option configures a validation pass.
type Option func(*options)

type options struct {
	duplicateIDs DuplicateIDMode
}

// WithDuplicateIDMode selects global or per-column duplicate tracking.
// Unknown modes fall back to DuplicateIDGlobal.
func WithDuplicateIDMode(m DuplicateIDMode) Option {
	return func(o *options) {
		if m.Valid() {
			o.duplicateIDs = m
		}
	}
}

// Validate inspects every cell of target and returns the findings in
// row-major, then column order.
//
// Rules, applied in order to each cell:
//  1. Missing value: absent, null or empty string.
//  2. Duplicate ID: column name contains "id" (any case) and the value was
//     already seen earlier in this pass.
//  3. Priority range: a present PriorityLevel must read as an integer in
//     [1,5].
//  4. Skill coverage: every RequiredSkills token must be offered by at
//     least one worker.
//
// Rows are identified by their position in target, not by RowID. Callers
// that display findings must validate the same slice they display.
//
// Validate is a pure function with no side effects. The worker skill index
// is rebuilt from workers on every call.
func Validate(target, workers dataset.Collection, opts ...Option) []Finding {
	o := options{duplicateIDs: DuplicateIDGlobal}
	for _, opt := range opts {
		opt(&o)
	}

	v := &validator{
		mode:   o.duplicateIDs,
		skills: BuildSkillIndex(workers),
		seen:   make(map[string]map[dataset.Value]struct{}),
	}
	for i, rec := range target {
		v.validateRecord(i, rec)
	}
	if v.findings == nil {
		v.findings = []Finding{}
	}
	return v.findings
}

// validator accumulates findings during one pass.
type validator struct {
	mode     DuplicateIDMode
	skills   SkillIndex
	seen     map[string]map[dataset.Value]struct{}
	findings []Finding
}

func (v *validator) add(row int, column, code, message string) {
	v.findings = append(v.findings, Finding{
		RowID:   row,
		Column:  column,
		Message: message,
		Code:    code,
	})
}

func (v *validator) validateRecord(row int, rec dataset.Record) {
	for _, f := range rec.Fields() {
		v.checkMissing(row, f)
		v.checkDuplicateID(row, f)
		v.checkPriority(row, f)
		v.checkSkills(row, f)
	}
}

// checkMissing implements rule 1.
func (v *validator) checkMissing(row int, f dataset.Field) {
	if f.Value.IsMissing() {
		v.add(row, f.Name, CodeMissingValue, MsgMissingValue)
	}
}

// checkDuplicateID implements rule 2. Missing values take part: two blank
// ids in the same pass are duplicates too.
func (v *validator) checkDuplicateID(row int, f dataset.Field) {
	if !IsIDColumn(f.Name) {
		return
	}
	key := ""
	if v.mode == DuplicateIDPerColumn {
		key = f.Name
	}
	set, ok := v.seen[key]
	if !ok {
		set = make(map[dataset.Value]struct{})
		v.seen[key] = set
	}
	if _, dup := set[f.Value]; dup {
		v.add(row, f.Name, CodeDuplicateID, MsgDuplicateID)
		return
	}
	set[f.Value] = struct{}{}
}

// checkPriority implements rule 3. A missing PriorityLevel is already
// reported by rule 1 and is not reported twice.
func (v *validator) checkPriority(row int, f dataset.Field) {
	if f.Name != ColumnPriorityLevel || f.Value.IsMissing() {
		return
	}
	if !ValidPriority(f.Value) {
		v.add(row, f.Name, CodePriorityRange, MsgPriorityRange)
	}
}

// checkSkills implements rule 4, one finding per uncovered token.
func (v *validator) checkSkills(row int, f dataset.Field) {
	if f.Name != ColumnRequiredSkills {
		return
	}
	for _, skill := range Tokenize(f.Value.String()) {
		if !v.skills.Has(skill) {
			v.add(row, f.Name, CodeUnknownSkill, UnknownSkillMessage(skill))
		}
	}
}

// IsIDColumn reports whether a column name contains "id" in any case.
// Names like "Valid" or "Provider" match as well.
func IsIDColumn(name string) bool {
	return strings.Contains(strings.ToLower(name), "id")
}

// ValidPriority reports whether v reads as an integer between 1 and 5.
func ValidPriority(v dataset.Value) bool {
	if dataset.IsNull(v) {
		return false
	}
	n, ok := parseLeadingInt(v.String())
	return ok && n >= 1 && n <= 5
}
