package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/query"
	"github.com/roach88/alchemist/internal/report"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	DataOptions
	Query string
}

// FilterResult is the JSON payload of the filter command.
type FilterResult struct {
	Query    string             `json:"query"`
	Parsed   string             `json:"parsed"`
	Count    int                `json:"count"`
	Total    int                `json:"total"`
	Rows     dataset.Collection `json:"rows"`
	Warnings []string           `json:"warnings,omitempty"`
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Show the rows matching a query",
		Long: `Show the rows of a file matching a filter query.

A query is either a comparison "<column> <op> <value>" with op one of
=, !=, >, <, >=, <= or includes, or free text matched against every cell.
Text comparisons ignore case; >, <, >= and <= compare numbers.

Examples:
  alchemist filter tasks.csv --kind tasks --query "PriorityLevel >= 3"
  alchemist filter clients.csv --kind clients --query "ClientName includes corp"
  alchemist filter workers.xlsx --kind workers --query python`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd.Context(), rootOpts, opts, args[0], cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "filter query (empty shows every row)")

	return cmd
}

func runFilter(ctx context.Context, rootOpts *RootOptions, opts *FilterOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := rootOpts.formatter(cmd)

	s, err := openSession(ctx, rootOpts, &opts.DataOptions, path, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	coll := s.engine.Collection(s.kind)
	q := query.Parse(opts.Query)
	view := query.Apply(coll, q)
	lint := query.Lint(q, coll.Columns())

	rootOpts.logger().Debug("filter applied",
		"kind", s.kind,
		"query", query.Describe(q),
		"matched", len(view),
		"total", len(coll),
	)

	if formatter.Format == "json" {
		return formatter.writeJSON(CLIResponse{
			Status:    "ok",
			SessionID: s.engine.SessionID(),
			Data: FilterResult{
				Query:    opts.Query,
				Parsed:   query.Describe(q),
				Count:    len(view),
				Total:    len(coll),
				Rows:     view,
				Warnings: lint.Warnings,
			},
		})
	}

	w := formatter.Writer
	for _, warning := range lint.Warnings {
		fmt.Fprintf(formatter.GetErrWriter(), "warning: %s\n", warning)
	}
	if len(view) == 0 {
		fmt.Fprintf(w, "No rows match %s.\n", query.Describe(q))
		return nil
	}
	if err := report.WriteTable(w, view, s.engine.Findings(s.kind)); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d of %d row(s)\n", len(view), len(coll))
	return nil
}
