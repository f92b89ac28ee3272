package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/query"
	"github.com/roach88/alchemist/internal/sheet"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	DataOptions
	Out   string
	Query string
}

// ExportResult is the JSON payload of the export command.
type ExportResult struct {
	Out      string `json:"out"`
	Rows     int    `json:"rows"`
	Findings int    `json:"findings"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a collection to CSV or XLSX",
		Long: `Write a collection, or the rows matching --query, to a new file.

The format follows the extension of --out. XLSX output highlights cells with
findings and lists every finding on a separate Findings sheet.

Examples:
  alchemist export tasks.csv --kind tasks --out tasks.xlsx --workers workers.csv
  alchemist export clients.xlsx --kind clients --out urgent.csv --query "PriorityLevel >= 4"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), rootOpts, opts, args[0], cmd)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output .csv or .xlsx file (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "export only the rows matching this query")

	return cmd
}

func runExport(ctx context.Context, rootOpts *RootOptions, opts *ExportOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := rootOpts.formatter(cmd)

	if _, err := sheet.FormatOf(opts.Out); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "invalid --out", err)
	}

	s, err := openSession(ctx, rootOpts, &opts.DataOptions, path, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	view := s.engine.View(s.kind, opts.Query)
	findings := s.engine.Findings(s.kind)
	if err := sheet.WriteFile(opts.Out, view, findings); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write output", err)
	}

	rootOpts.logger().Info("collection exported",
		"kind", s.kind,
		"out", opts.Out,
		"rows", len(view),
		"query", query.Describe(query.Parse(opts.Query)),
	)

	if formatter.Format == "json" {
		return formatter.writeJSON(CLIResponse{
			Status:    "ok",
			SessionID: s.engine.SessionID(),
			Data: ExportResult{
				Out:      opts.Out,
				Rows:     len(view),
				Findings: len(findings),
			},
		})
	}

	fmt.Fprintf(formatter.Writer, "Exported %d row(s) to %s\n", len(view), opts.Out)
	return nil
}
