package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/engine"
	"github.com/roach88/alchemist/internal/sheet"
	"github.com/roach88/alchemist/internal/store"
)

// DataOptions are the flags shared by commands that load one collection.
type DataOptions struct {
	Kind    string
	Workers string // workers file for skill coverage
}

func (d *DataOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.Kind, "kind", "k", "", "collection kind: clients, workers or tasks (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().StringVar(&d.Workers, "workers", "", "workers file used to check RequiredSkills")
}

// session is an engine with its journal, loaded with one collection.
type session struct {
	engine  *engine.Engine
	journal *store.Store
	kind    dataset.Kind
}

func (s *session) Close() error {
	return s.journal.Close()
}

// openSession opens the journal, creates the engine, ingests the workers
// file (when one is given and the target is not workers itself) and then
// the target file. Failures are reported through f.
func openSession(ctx context.Context, opts *RootOptions, data *DataOptions, path string, f *OutputFormatter) (*session, error) {
	kind, err := dataset.ParseKind(data.Kind)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeUnknownKind, "invalid --kind", err)
	}

	journal, err := store.Open(opts.journalPath())
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
	}

	eng := engine.New(
		engine.WithJournal(journal),
		engine.WithLogger(opts.logger()),
		engine.WithValidateOptions(opts.validateOptions()...),
	)
	s := &session{engine: eng, journal: journal, kind: kind}

	workers := data.Workers
	if workers == "" {
		workers = opts.Config.Workers
	}
	if workers != "" && kind != dataset.KindWorkers {
		if err := s.load(ctx, dataset.KindWorkers, workers, f); err != nil {
			s.Close()
			return nil, err
		}
	}
	if err := s.load(ctx, kind, path, f); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) load(ctx context.Context, kind dataset.Kind, path string, f *OutputFormatter) error {
	rows, err := sheet.ReadFile(path)
	if err != nil {
		code := ErrCodeLoadFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return f.Fail(ExitCommandError, code, fmt.Sprintf("failed to load %s", kind), err)
	}
	f.VerboseLog("Loaded %d %s row(s) from %s", len(rows), kind, path)

	if err := s.engine.Ingest(ctx, kind, rows); err != nil {
		if engine.IsJournalError(err) {
			return f.Fail(ExitCommandError, ErrCodeJournal, "failed to journal ingest", err)
		}
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("failed to ingest %s", kind), err)
	}
	return nil
}
