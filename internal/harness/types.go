package harness

import "github.com/roach88/alchemist/internal/validate"

// Trace actions recorded by the harness itself. Engine actions (ingest,
// edit, validate) come from the journal and keep their store names.
const (
	TraceFilter     = "filter"
	TraceExport     = "export"
	TraceEditFailed = "edit_failed"
)

// TraceEvent is one entry of a scenario trace, in seq order.
type TraceEvent struct {
	Seq      int64              `json:"seq"`
	Action   string             `json:"action"`
	Kind     string             `json:"kind"`
	RowID    int                `json:"row_id"` // -1 unless the event targets one row
	Detail   map[string]string  `json:"detail,omitempty"`
	Findings []validate.Finding `json:"findings,omitempty"` // validate events only
	Matched  []int              `json:"matched,omitempty"`  // filter events only
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds journaled engine events and harness events in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns how many trace events have the given action.
func (r *Result) Count(action string) int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Action == action {
			n++
		}
	}
	return n
}
