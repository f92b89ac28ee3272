package testutil

// DefaultSessionID is used when a scenario does not pin its own id.
const DefaultSessionID = "test-session-default"

// FixedSessionGenerator hands out the same session id on every call so
// journal contents and golden traces are byte-identical across runs.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator returns a generator for id, or for
// DefaultSessionID when id is empty.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSessionGenerator{id: id}
}

// Generate implements engine.SessionIDGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
