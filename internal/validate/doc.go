// Package validate implements the record validation rules.
//
// Validate is a pure function: it takes the collection to check plus the
// current workers collection (for skill cross-reference) and returns every
// finding. There is no incremental mode; callers re-run it after each change
// and discard the previous findings.
//
// FINDING ORDER:
//
// Findings are produced row-major, then in the record's column order, then
// in rule order (missing, duplicate id, priority range, skill coverage).
//
// DUPLICATE IDS:
//
// By default one seen-set is shared by all id-like columns of a pass, so
// the same value in two differently named id columns is reported. Pass
// WithDuplicateIDMode(DuplicateIDPerColumn) to track columns separately.
package validate
