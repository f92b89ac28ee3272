package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Journal   string
	OutputDir string
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Name   string               `json:"name"`
	Pass   bool                 `json:"pass"`
	Errors []string             `json:"errors,omitempty"`
	Trace  []harness.TraceEvent `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute one scenario and print its trace",
		Long: `Execute a scripted session (ingest, edit, revalidate, filter, export steps) against
a fresh engine and print the resulting trace.

The trace is journaled to SQLite; pass --journal to keep it in a file and
inspect it later with "alchemist trace".

Examples:
  alchemist run scenarios/skill_coverage.yaml
  alchemist run scenarios/skill_coverage.yaml --journal session.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "SQLite journal path (default from config, else in memory)")
	cmd.Flags().StringVar(&opts.OutputDir, "out-dir", "", "directory for export steps (default: working directory)")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoadFailed, "failed to load scenario", err)
	}

	journal := opts.Journal
	if journal == "" {
		journal = opts.journalPath()
	}
	result, err := harness.Run(scenario,
		harness.WithJournalPath(journal),
		harness.WithOutputDir(opts.OutputDir),
		harness.WithLogger(opts.logger()),
	)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "scenario execution failed", err)
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "ok",
			Data: RunResult{
				Name:   scenario.Name,
				Pass:   result.Pass,
				Errors: result.Errors,
				Trace:  result.Trace,
			},
		}
		if !result.Pass {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d assertion(s) failed", len(result.Errors)),
			}
		}
		if err := formatter.writeJSON(response); err != nil {
			return err
		}
	} else {
		writeTraceText(formatter.Writer, result.Trace, opts.Verbose)
		fmt.Fprintln(formatter.Writer)
		if result.Pass {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", scenario.Name)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", scenario.Name)
			for _, e := range result.Errors {
				fmt.Fprintf(formatter.Writer, "  %s\n", e)
			}
		}
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

// writeTraceText prints one line per trace event. Verbose adds the
// findings of validate events.
func writeTraceText(w io.Writer, trace []harness.TraceEvent, verbose bool) {
	for _, ev := range trace {
		fmt.Fprintf(w, "  [%d] %-11s %-8s", ev.Seq, ev.Action, ev.Kind)
		if ev.RowID >= 0 {
			fmt.Fprintf(w, " row=%d", ev.RowID+1)
		}
		if len(ev.Detail) > 0 {
			fmt.Fprintf(w, " %s", formatDetail(ev.Detail))
		}
		if ev.Action == harness.TraceFilter {
			fmt.Fprintf(w, " matched=%d", len(ev.Matched))
		}
		fmt.Fprintln(w)
		if verbose {
			for _, f := range ev.Findings {
				fmt.Fprintf(w, "       [%s] %s\n", f.Code, f)
			}
		}
	}
}
