package store

import "github.com/roach88/alchemist/internal/dataset"

// Action names a journaled engine action.
type Action string

const (
	ActionIngest   Action = "ingest"
	ActionEdit     Action = "edit"
	ActionValidate Action = "validate"
)

// NoRow is the RowID of events that do not target a single row.
const NoRow = -1

// Event is one journaled engine action.
type Event struct {
	SessionID string
	Seq       int64
	Action    Action
	Kind      dataset.Kind
	RowID     int               // NoRow unless Action is ActionEdit
	Detail    map[string]string // action specific, stored as canonical JSON
}
