package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

// Colors for the rendered grid.
const (
	colorBorder = lipgloss.Color("#444444")
	colorHeader = lipgloss.Color("#5B8DEF")
	colorError  = lipgloss.Color("#FF6B6B")
)

// RowColumn heads the row-number column of rendered tables.
const RowColumn = "#"

// WriteTable renders coll as a bordered grid on w. The first column is the
// 1-based row number; cells with a finding are highlighted. Findings are
// matched by row id, so a filtered view keeps its highlights.
//
// Colors are only emitted when w is a terminal.
func WriteTable(w io.Writer, coll dataset.Collection, findings []validate.Finding) error {
	r := lipgloss.NewRenderer(w)
	columns := coll.Columns()

	rows := make([][]string, len(coll))
	for i, rec := range coll {
		row := make([]string, len(columns)+1)
		row[0] = strconv.Itoa(rec.RowID + 1)
		for c, col := range columns {
			if v, ok := rec.Get(col); ok {
				row[c+1] = v.String()
			}
		}
		rows[i] = row
	}

	base := r.NewStyle().Padding(0, 1)
	header := base.Bold(true).Foreground(colorHeader)
	flagged := base.Foreground(colorError).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(colorBorder)).
		Headers(append([]string{RowColumn}, columns...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col > 0 && row >= 0 && row < len(coll) &&
				validate.HasFinding(findings, coll[row].RowID, columns[col-1]) {
				return flagged
			}
			return base
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteFindings lists findings one per line as "Row N, Column C: message".
func WriteFindings(w io.Writer, findings []validate.Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", f.Code, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the totals of a validation pass.
func WriteSummary(w io.Writer, s validate.Summary) error {
	if s.Total == 0 {
		_, err := fmt.Fprintln(w, "No issues found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "%d issue(s) in %d row(s)\n", s.Total, s.Rows); err != nil {
		return err
	}
	for _, col := range s.Columns() {
		if _, err := fmt.Fprintf(w, "  %-20s %d\n", col, s.ByColumn[col]); err != nil {
			return err
		}
	}
	return nil
}
