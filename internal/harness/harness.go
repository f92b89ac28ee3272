package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/engine"
	"github.com/roach88/alchemist/internal/query"
	"github.com/roach88/alchemist/internal/sheet"
	"github.com/roach88/alchemist/internal/store"
	"github.com/roach88/alchemist/internal/testutil"
	"github.com/roach88/alchemist/internal/validate"
)

// Harness runs one scenario against a real engine.
// It owns the engine, its journal and the clock they share.
type Harness struct {
	store     *store.Store
	engine    *engine.Engine
	clock     *testutil.SeqClock
	sessionID string
	outputDir string
	baseDir   string
	lastSeq   int64
	logger    *slog.Logger
}

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	journalPath string
	outputDir   string
	logger      *slog.Logger
}

// WithJournalPath journals the run to a SQLite file instead of memory.
func WithJournalPath(path string) Option {
	return func(c *runConfig) {
		c.journalPath = path
	}
}

// WithOutputDir sets the directory export steps write into.
// Default: the working directory.
func WithOutputDir(dir string) Option {
	return func(c *runConfig) {
		c.outputDir = dir
	}
}

// WithLogger sets the logger used by the harness and its engine.
// Default: logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh engine and journal. The session id is
// fixed and the clock starts at 1, so the trace is identical on every run.
//
// Execution flow:
// 1. Open the journal and create the engine
// 2. Execute steps in order, collecting the trace after each
// 3. Evaluate assertions against the final engine state
//
// A step that cannot run (unreadable file, failed export) aborts the run
// with an error. Failed assertions are reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		journalPath: store.MemoryPath,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(cfg.journalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer st.Close()

	clock := testutil.NewSeqClock()
	sessions := testutil.NewFixedSessionGenerator(scenario.SessionID)

	engineOpts := []engine.EngineOption{
		engine.WithJournal(st),
		engine.WithSessionGenerator(sessions),
		engine.WithClock(clock),
		engine.WithLogger(cfg.logger),
	}
	if scenario.DuplicateIDs != "" {
		engineOpts = append(engineOpts,
			engine.WithValidateOptions(validate.WithDuplicateIDMode(validate.DuplicateIDMode(scenario.DuplicateIDs))))
	}
	eng := engine.New(engineOpts...)

	h := &Harness{
		store:     st,
		engine:    eng,
		clock:     clock,
		sessionID: eng.SessionID(),
		outputDir: cfg.outputDir,
		baseDir:   scenario.BaseDir,
		logger:    cfg.logger,
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if err := h.collect(ctx, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, errMsg := range EvaluateAssertions(eng, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"session", h.sessionID,
		"events", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, step Step, result *Result) error {
	switch {
	case step.Ingest != nil:
		return h.ingest(ctx, step.Ingest)
	case step.Edit != nil:
		return h.edit(ctx, step.Edit, result)
	case step.Revalidate != nil:
		return h.revalidate(ctx, step.Revalidate)
	case step.Filter != nil:
		return h.filter(step.Filter, result)
	case step.Export != nil:
		return h.export(step.Export, result)
	default:
		return fmt.Errorf("empty step")
	}
}

func (h *Harness) ingest(ctx context.Context, s *IngestStep) error {
	kind, err := dataset.ParseKind(s.Kind)
	if err != nil {
		return err
	}

	var rows []dataset.Record
	if s.File != "" {
		path := s.File
		if !filepath.IsAbs(path) && h.baseDir != "" {
			path = filepath.Join(h.baseDir, path)
		}
		if rows, err = sheet.ReadFile(path); err != nil {
			return err
		}
	} else {
		rows = make([]dataset.Record, len(s.Rows))
		for i, r := range s.Rows {
			rows[i] = r.Record()
		}
	}
	return h.engine.Ingest(ctx, kind, rows)
}

// edit merges the step's cells into the current row. A row id the
// collection does not hold is traced as edit_failed, not returned as an
// error, so scenarios can script it.
func (h *Harness) edit(ctx context.Context, s *EditStep, result *Result) error {
	kind, err := dataset.ParseKind(s.Kind)
	if err != nil {
		return err
	}

	var rec dataset.Record
	coll := h.engine.Collection(kind)
	if i := coll.IndexOf(s.RowID); i >= 0 {
		rec = coll[i].Clone()
	}
	for _, f := range s.Set {
		rec.Set(f.Name, f.Value)
	}

	_, err = h.engine.ApplyEdit(ctx, kind, s.RowID, rec)
	if engine.IsRowNotFoundError(err) {
		result.Trace = append(result.Trace, TraceEvent{
			Seq:    h.clock.Next(),
			Action: TraceEditFailed,
			Kind:   string(kind),
			RowID:  s.RowID,
			Detail: map[string]string{"error": string(engine.ErrCodeRowNotFound)},
		})
		h.lastSeq = h.clock.Current()
		return nil
	}
	return err
}

func (h *Harness) revalidate(ctx context.Context, s *RevalidateStep) error {
	kind, err := dataset.ParseKind(s.Kind)
	if err != nil {
		return err
	}
	return h.engine.Revalidate(ctx, kind)
}

// viewKind resolves the kind a filter or export step reads. An empty name
// means the collection ingested last.
func (h *Harness) viewKind(name string) (dataset.Kind, error) {
	if name != "" {
		return dataset.ParseKind(name)
	}
	kind, ok := h.engine.Active()
	if !ok {
		return "", fmt.Errorf("no kind given and no collection ingested yet")
	}
	return kind, nil
}

func (h *Harness) filter(s *FilterStep, result *Result) error {
	kind, err := h.viewKind(s.Kind)
	if err != nil {
		return err
	}

	q := query.Parse(s.Query)
	view := query.Apply(h.engine.Collection(kind), q)
	matched := make([]int, len(view))
	for i, r := range view {
		matched[i] = r.RowID
	}

	result.Trace = append(result.Trace, TraceEvent{
		Seq:    h.clock.Next(),
		Action: TraceFilter,
		Kind:   string(kind),
		RowID:  store.NoRow,
		Detail: map[string]string{
			"query":  s.Query,
			"parsed": query.Describe(q),
		},
		Matched: matched,
	})
	h.lastSeq = h.clock.Current()
	return nil
}

func (h *Harness) export(s *ExportStep, result *Result) error {
	kind, err := h.viewKind(s.Kind)
	if err != nil {
		return err
	}

	view := h.engine.View(kind, s.Query)
	path := s.Path
	if !filepath.IsAbs(path) && h.outputDir != "" {
		path = filepath.Join(h.outputDir, path)
	}
	if err := sheet.WriteFile(path, view, h.engine.Findings(kind)); err != nil {
		return err
	}

	result.Trace = append(result.Trace, TraceEvent{
		Seq:    h.clock.Next(),
		Action: TraceExport,
		Kind:   string(kind),
		RowID:  store.NoRow,
		Detail: map[string]string{
			"path": s.Path,
			"rows": strconv.Itoa(len(view)),
		},
	})
	h.lastSeq = h.clock.Current()
	return nil
}

// collect appends the journal events written since the last collection.
// Validate events carry the findings journaled with them.
func (h *Harness) collect(ctx context.Context, result *Result) error {
	events, err := h.store.ReadEvents(ctx, h.sessionID)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	for _, ev := range events {
		if ev.Seq <= h.lastSeq {
			continue
		}
		te := TraceEvent{
			Seq:    ev.Seq,
			Action: string(ev.Action),
			Kind:   string(ev.Kind),
			RowID:  ev.RowID,
			Detail: ev.Detail,
		}
		if ev.Action == store.ActionValidate {
			if te.Findings, err = h.store.ReadFindings(ctx, h.sessionID, ev.Seq); err != nil {
				return fmt.Errorf("read findings: %w", err)
			}
		}
		result.Trace = append(result.Trace, te)
		h.lastSeq = ev.Seq
	}
	return nil
}
