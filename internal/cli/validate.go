package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/alchemist/internal/report"
	"github.com/roach88/alchemist/internal/validate"
)

// ValidationResult holds the findings of one file.
type ValidationResult struct {
	File     string             `json:"file"`
	Kind     string             `json:"kind"`
	Rows     int                `json:"rows"`
	Valid    bool               `json:"valid"`
	Findings []validate.Finding `json:"findings"`
	Summary  validate.Summary   `json:"summary"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	data := &DataOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a clients, workers or tasks file",
		Long: `Validate every cell of a CSV or XLSX file.

Reports missing values, duplicate ids, out-of-range PriorityLevel values and
RequiredSkills no worker offers (when --workers is given).

Exit codes:
  0 - No findings
  1 - Findings reported
  2 - Command error (unreadable file, unknown kind, etc.)

Examples:
  alchemist validate clients.csv --kind clients
  alchemist validate tasks.xlsx --kind tasks --workers workers.csv
  alchemist validate tasks.csv --kind tasks --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), rootOpts, data, args[0], cmd)
		},
	}
	data.register(cmd)

	return cmd
}

func runValidate(ctx context.Context, opts *RootOptions, data *DataOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.formatter(cmd)

	s, err := openSession(ctx, opts, data, path, formatter)
	if err != nil {
		return err
	}
	defer s.Close()

	findings := s.engine.Findings(s.kind)
	result := ValidationResult{
		File:     path,
		Kind:     string(s.kind),
		Rows:     len(s.engine.Collection(s.kind)),
		Valid:    len(findings) == 0,
		Findings: findings,
		Summary:  validate.Summarize(findings),
	}

	if formatter.Format == "json" {
		return outputValidateJSON(formatter, s.engine.SessionID(), result)
	}
	return outputValidateText(formatter, result)
}

func outputValidateJSON(formatter *OutputFormatter, sessionID string, result ValidationResult) error {
	response := CLIResponse{
		Status:    "ok",
		Data:      result,
		SessionID: sessionID,
	}
	if !result.Valid {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeFindings,
			Message: fmt.Sprintf("%d finding(s)", len(result.Findings)),
		}
	}

	if err := formatter.writeJSON(response); err != nil {
		return err
	}
	if !result.Valid {
		// Findings = exit code 1 (validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation reported %d finding(s)", len(result.Findings)))
	}
	return nil
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) error {
	w := formatter.Writer

	if result.Valid {
		fmt.Fprintf(w, "✓ %s: %d %s row(s), no issues found\n", result.File, result.Rows, result.Kind)
		return nil
	}

	fmt.Fprintf(w, "✗ %s: %d %s row(s)\n", result.File, result.Rows, result.Kind)
	fmt.Fprintln(w)
	if err := report.WriteFindings(w, result.Findings); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := report.WriteSummary(w, result.Summary); err != nil {
		return err
	}

	// Findings = exit code 1 (validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation reported %d finding(s)", len(result.Findings)))
}
