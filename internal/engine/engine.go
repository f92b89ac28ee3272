package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/query"
	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/validate"
)

// Journal records what happened in a session.
// Implemented by *store.Store; nil disables journaling.
type Journal interface {
	WriteEvent(ctx context.Context, ev store.Event) error
	WriteFindings(ctx context.Context, sessionID string, seq int64, kind dataset.Kind, findings []validate.Finding) error
}

// Engine coordinates ingestion, edits and revalidation for one session.
//
// Thread-safety model: the engine is owned by a single caller. Methods must
// not be called concurrently.
//
// INVARIANTS:
//   - Findings(kind) always reflects the collection as it is now
//   - Row ids are assigned at ingestion and never renumbered by edits
//   - Journal seq values are strictly increasing within a session
type Engine struct {
	data         *dataset.Store
	findings     map[dataset.Kind][]validate.Finding
	queue        *changeQueue
	clock        Sequencer
	sessions     SessionIDGenerator
	sessionID    string
	journal      Journal
	logger       *slog.Logger
	validateOpts []validate.Option
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithJournal journals every action to j.
func WithJournal(j Journal) EngineOption {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithSessionGenerator replaces the UUIDv7 session id generator.
func WithSessionGenerator(g SessionIDGenerator) EngineOption {
	return func(e *Engine) {
		e.sessions = g
	}
}

// WithClock replaces the logical clock.
func WithClock(c Sequencer) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithValidateOptions passes options to every validation pass.
func WithValidateOptions(opts ...validate.Option) EngineOption {
	return func(e *Engine) {
		e.validateOpts = append(e.validateOpts, opts...)
	}
}

// New creates an engine with empty collections and a fresh session id.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		data:     dataset.NewStore(),
		findings: make(map[dataset.Kind][]validate.Finding, len(dataset.Kinds)),
		queue:    newChangeQueue(),
		clock:    NewClock(),
		sessions: UUIDv7Generator{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.sessionID = e.sessions.Generate()
	e.data.Subscribe(e.queue.Enqueue)
	return e
}

// SessionID returns the id that tags this session's journal rows.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Active returns the most recently ingested kind, or false before the
// first ingest.
func (e *Engine) Active() (dataset.Kind, bool) {
	return e.data.Active()
}

// Collection returns the full, unfiltered collection for kind.
func (e *Engine) Collection(kind dataset.Kind) dataset.Collection {
	return e.data.Collection(kind)
}

// Ingest replaces the named collection with rows, makes it the active
// collection, and revalidates it against the current workers. The previous
// findings of kind are discarded.
func (e *Engine) Ingest(ctx context.Context, kind dataset.Kind, rows []dataset.Record) error {
	if !kind.Valid() {
		return NewUnknownKindError(kind)
	}
	if err := e.data.Ingest(kind, rows); err != nil {
		return err
	}
	if err := e.data.SetActive(kind); err != nil {
		return err
	}

	e.logger.Info("collection ingested",
		"session", e.sessionID,
		"kind", kind,
		"rows", len(rows),
	)

	journalErr := e.record(ctx, &store.Event{
		Action: store.ActionIngest,
		Kind:   kind,
		RowID:  store.NoRow,
		Detail: map[string]string{"rows": strconv.Itoa(len(rows))},
	})
	return errors.Join(journalErr, e.drain(ctx))
}

// ApplyEdit replaces the record whose RowID is rowID with rec and
// revalidates the collection. The row is resolved against the full
// collection, never against a filtered view, and keeps its row id.
//
// It returns the stored record so the caller can confirm the edit.
// An unknown row id returns an EngineError with ErrCodeRowNotFound and
// leaves the collection and its findings unchanged.
func (e *Engine) ApplyEdit(ctx context.Context, kind dataset.Kind, rowID int, rec dataset.Record) (dataset.Record, error) {
	if !kind.Valid() {
		return dataset.Record{}, NewUnknownKindError(kind)
	}
	if err := e.data.UpdateRow(kind, rowID, rec); err != nil {
		if dataset.IsRowNotFound(err) {
			e.logger.Debug("edit target not found",
				"session", e.sessionID,
				"kind", kind,
				"row", rowID,
			)
			return dataset.Record{}, NewRowNotFoundError(kind, rowID, err)
		}
		return dataset.Record{}, err
	}

	coll := e.data.Collection(kind)
	stored := coll[coll.IndexOf(rowID)]

	e.logger.Info("row edited",
		"session", e.sessionID,
		"kind", kind,
		"row", rowID,
	)

	detail := make(map[string]string, stored.Len())
	for _, f := range stored.Fields() {
		detail[f.Name] = f.Value.String()
	}
	journalErr := e.record(ctx, &store.Event{
		Action: store.ActionEdit,
		Kind:   kind,
		RowID:  rowID,
		Detail: detail,
	})
	return stored, errors.Join(journalErr, e.drain(ctx))
}

// Revalidate reruns validation for kind as if it had just changed.
// Used after workers change when clients or tasks should see new skills.
func (e *Engine) Revalidate(ctx context.Context, kind dataset.Kind) error {
	if !kind.Valid() {
		return NewUnknownKindError(kind)
	}
	return e.process(ctx, dataset.Changed{Kind: kind, Reason: dataset.ChangeRevalidate, RowID: -1})
}

// Validate runs a validation pass over kind against the current workers
// without storing or journaling the result.
func (e *Engine) Validate(kind dataset.Kind) []validate.Finding {
	return validate.Validate(e.data.Collection(kind), e.data.Collection(dataset.KindWorkers), e.validateOpts...)
}

// Findings returns the findings of the latest pass over kind. The result
// is never nil.
func (e *Engine) Findings(kind dataset.Kind) []validate.Finding {
	out := make([]validate.Finding, len(e.findings[kind]))
	copy(out, e.findings[kind])
	return out
}

// View returns the records of kind matching the filter text.
func (e *Engine) View(kind dataset.Kind, text string) dataset.Collection {
	return query.Filter(e.data.Collection(kind), text)
}

// drain processes queued changes in FIFO order. A journal failure does not
// stop the drain; every change is still validated.
func (e *Engine) drain(ctx context.Context) error {
	var errs []error
	for {
		change, ok := e.queue.TryDequeue()
		if !ok {
			break
		}
		if err := e.process(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// process revalidates the changed collection and journals the pass.
func (e *Engine) process(ctx context.Context, change dataset.Changed) error {
	findings := e.Validate(change.Kind)
	e.findings[change.Kind] = findings

	e.logger.Debug("collection validated",
		"session", e.sessionID,
		"kind", change.Kind,
		"reason", change.Reason,
		"findings", len(findings),
	)

	ev := &store.Event{
		Action: store.ActionValidate,
		Kind:   change.Kind,
		RowID:  store.NoRow,
		Detail: map[string]string{
			"reason":   string(change.Reason),
			"findings": strconv.Itoa(len(findings)),
		},
	}
	if err := e.record(ctx, ev); err != nil {
		return err
	}
	if e.journal == nil {
		return nil
	}
	if err := e.journal.WriteFindings(ctx, e.sessionID, ev.Seq, change.Kind, findings); err != nil {
		e.logger.Error("journal write failed",
			"session", e.sessionID,
			"kind", change.Kind,
			"op", "findings",
			"error", err,
		)
		return NewJournalError(change.Kind, "findings", err)
	}
	return nil
}

// record stamps ev with the session id and the next seq, then journals it.
// The seq is assigned even without a journal so numbering does not depend
// on whether journaling is enabled.
func (e *Engine) record(ctx context.Context, ev *store.Event) error {
	ev.SessionID = e.sessionID
	ev.Seq = e.clock.Next()
	if e.journal == nil {
		return nil
	}
	if err := e.journal.WriteEvent(ctx, *ev); err != nil {
		e.logger.Error("journal write failed",
			"session", e.sessionID,
			"kind", ev.Kind,
			"op", string(ev.Action),
			"error", err,
		)
		return NewJournalError(ev.Kind, string(ev.Action), err)
	}
	return nil
}
