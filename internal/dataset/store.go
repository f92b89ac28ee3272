package dataset

import "fmt"

// ChangeReason says why a collection changed.
type ChangeReason string

const (
	// ChangeIngest means the collection was replaced by a fresh upload.
	ChangeIngest ChangeReason = "ingest"
	// ChangeEdit means a single row was replaced.
	ChangeEdit ChangeReason = "edit"
	// ChangeRevalidate means validation was rerun without a data change,
	// typically after the workers collection changed.
	ChangeRevalidate ChangeReason = "revalidate"
)

// Changed is published to subscribers after every mutation.
type Changed struct {
	Kind   Kind
	Reason ChangeReason
	// RowID is the edited row for ChangeEdit, -1 otherwise.
	RowID int
}

// Store holds the three collections of a session and the active kind.
//
// Store is owned by a single coordinator and is not safe for concurrent
// use. Subscribers are called synchronously, in registration order, on the
// goroutine that performed the mutation.
type Store struct {
	collections map[Kind]Collection
	active      Kind
	subscribers []func(Changed)
}

// NewStore creates an empty store with no active collection.
func NewStore() *Store {
	return &Store{
		collections: make(map[Kind]Collection, len(Kinds)),
	}
}

// Subscribe registers fn to receive a Changed event after each mutation.
func (s *Store) Subscribe(fn func(Changed)) {
	s.subscribers = append(s.subscribers, fn)
}

// Ingest replaces the named collection with rows. Each row is assigned
// RowID = its position in rows. Rows are cloned so later changes to the
// caller's slice do not leak into the store.
func (s *Store) Ingest(kind Kind, rows []Record) error {
	if !kind.Valid() {
		return fmt.Errorf("ingest: %w: %q", ErrUnknownKind, kind)
	}
	coll := make(Collection, len(rows))
	for i, r := range rows {
		c := r.Clone()
		c.RowID = i
		coll[i] = c
	}
	s.collections[kind] = coll
	s.publish(Changed{Kind: kind, Reason: ChangeIngest, RowID: -1})
	return nil
}

// Collection returns the full ordered collection for kind. The returned
// slice is a fresh copy; its records still share storage with the store.
func (s *Store) Collection(kind Kind) Collection {
	coll := s.collections[kind]
	out := make(Collection, len(coll))
	copy(out, coll)
	return out
}

// SetActive selects the collection used for display and filtering.
func (s *Store) SetActive(kind Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("set active: %w: %q", ErrUnknownKind, kind)
	}
	s.active = kind
	return nil
}

// Active returns the active kind, or false when nothing was selected yet.
func (s *Store) Active() (Kind, bool) {
	return s.active, s.active != ""
}

// UpdateRow replaces the record whose RowID equals rowID. The new record
// takes over that RowID. When no record matches, the store is left
// unchanged and a *StoreError wrapping ErrRowNotFound is returned.
func (s *Store) UpdateRow(kind Kind, rowID int, rec Record) error {
	coll := s.collections[kind]
	idx := coll.IndexOf(rowID)
	if idx < 0 {
		return &StoreError{Kind: kind, RowID: rowID, Op: "update", Err: ErrRowNotFound}
	}
	updated := make(Collection, len(coll))
	copy(updated, coll)
	c := rec.Clone()
	c.RowID = rowID
	updated[idx] = c
	s.collections[kind] = updated
	s.publish(Changed{Kind: kind, Reason: ChangeEdit, RowID: rowID})
	return nil
}

func (s *Store) publish(ev Changed) {
	for _, fn := range s.subscribers {
		fn(ev)
	}
}
