package dataset

import (
	"fmt"
	"strings"
)

// Kind names one of the three collections of a session.
type Kind string

const (
	// KindClients holds client records.
	KindClients Kind = "clients"
	// KindWorkers holds worker records; their Skills feed the skill index.
	KindWorkers Kind = "workers"
	// KindTasks holds task records.
	KindTasks Kind = "tasks"
)

// Kinds lists every collection kind in display order.
var Kinds = []Kind{KindClients, KindWorkers, KindTasks}

// ParseKind converts a name to a Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q (must be one of %v)", ErrUnknownKind, s, Kinds)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindClients, KindWorkers, KindTasks:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
