package validate

import "sort"

// Summary aggregates the findings of one pass for the validation summary.
type Summary struct {
	Total    int            `json:"total"`
	Rows     int            `json:"rows"` // distinct rows with at least one finding
	ByCode   map[string]int `json:"by_code"`
	ByColumn map[string]int `json:"by_column"`
}

// Summarize counts findings by code and by column.
func Summarize(findings []Finding) Summary {
	s := Summary{
		Total:    len(findings),
		ByCode:   make(map[string]int),
		ByColumn: make(map[string]int),
	}
	rows := make(map[int]struct{})
	for _, f := range findings {
		s.ByCode[f.Code]++
		s.ByColumn[f.Column]++
		rows[f.RowID] = struct{}{}
	}
	s.Rows = len(rows)
	return s
}

// Columns returns the columns with findings, most affected first, ties
// broken by name.
func (s Summary) Columns() []string {
	cols := make([]string, 0, len(s.ByColumn))
	for c := range s.ByColumn {
		cols = append(cols, c)
	}
	sort.Slice(cols, func(i, j int) bool {
		a, b := s.ByColumn[cols[i]], s.ByColumn[cols[j]]
		if a != b {
			return a > b
		}
		return cols[i] < cols[j]
	})
	return cols
}
