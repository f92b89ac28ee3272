package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/engine"
	"github.com/roach88/alchemist/internal/report"
	"github.com/roach88/alchemist/internal/sheet"
	"github.com/roach88/alchemist/internal/validate"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	DataOptions
	Row int      // 1-based row number as shown in tables and findings
	Set []string // Column=Value pairs
	Out string
}

// EditResult is the JSON payload of the edit command.
type EditResult struct {
	Row      int                `json:"row"`
	Record   dataset.Record     `json:"record"`
	Findings []validate.Finding `json:"findings"`
	Out      string             `json:"out,omitempty"`
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Change cells of one row and revalidate",
		Long: `Change one or more cells of a row and revalidate the collection.

--row is the row number shown by validate and filter (the first data row
is 1). Columns not named by --set keep their values; naming a new column
adds it to that row. Use --out to save the edited collection.

Examples:
  alchemist edit clients.csv --kind clients --row 3 --set PriorityLevel=2
  alchemist edit tasks.csv --kind tasks --row 1 --set "RequiredSkills=go, sql" --out fixed.xlsx`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), rootOpts, opts, args[0], cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&opts.Row, "row", 0, "row number to edit, starting at 1 (required)")
	_ = cmd.MarkFlagRequired("row")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "cell assignment Column=Value (repeatable, required)")
	_ = cmd.MarkFlagRequired("set")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the edited collection to this .csv or .xlsx file")

	return cmd
}

// parseAssignments splits Column=Value pairs. The value may contain "=".
func parseAssignments(pairs []string) ([]dataset.Field, error) {
	fields := make([]dataset.Field, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want Column=Value", p)
		}
		fields = append(fields, dataset.F(name, dataset.String(value)))
	}
	return fields, nil
}

func runEdit(ctx context.Context, rootOpts *RootOptions, opts *EditOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := rootOpts.formatter(cmd)

	fields, err := parseAssignments(opts.Set)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid assignment", err)
	}

	s, err := openSession(ctx, rootOpts, &opts.DataOptions, path, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	rowID := opts.Row - 1
	var rec dataset.Record
	coll := s.engine.Collection(s.kind)
	if i := coll.IndexOf(rowID); i >= 0 {
		rec = coll[i].Clone()
	}
	for _, f := range fields {
		rec.Set(f.Name, f.Value)
	}

	stored, err := s.engine.ApplyEdit(ctx, s.kind, rowID, rec)
	switch {
	case engine.IsRowNotFoundError(err):
		return formatter.Fail(ExitCommandError, ErrCodeRowNotFound,
			fmt.Sprintf("row %d not found (%s has %d row(s))", opts.Row, s.kind, len(coll)), nil)
	case engine.IsJournalError(err):
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "failed to journal edit", err)
	case err != nil:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "edit failed", err)
	}

	findings := s.engine.Findings(s.kind)
	if opts.Out != "" {
		if err := sheet.WriteFile(opts.Out, s.engine.Collection(s.kind), findings); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write output", err)
		}
		formatter.VerboseLog("Wrote %s", opts.Out)
	}

	if formatter.Format == "json" {
		return formatter.writeJSON(CLIResponse{
			Status:    "ok",
			SessionID: s.engine.SessionID(),
			Data: EditResult{
				Row:      opts.Row,
				Record:   stored,
				Findings: findings,
				Out:      opts.Out,
			},
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Row %d updated:\n", opts.Row)
	if err := report.WriteTable(w, dataset.Collection{stored}, findings); err != nil {
		return err
	}
	if rowFindings := validate.ForRow(findings, rowID); len(rowFindings) > 0 {
		fmt.Fprintln(w, "Remaining issues in this row:")
		if err := report.WriteFindings(w, rowFindings); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	if err := report.WriteSummary(w, validate.Summarize(findings)); err != nil {
		return err
	}
	if opts.Out != "" {
		fmt.Fprintf(w, "Saved to %s\n", opts.Out)
	}
	return nil
}
