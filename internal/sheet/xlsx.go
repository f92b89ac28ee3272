package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

// FindingsSheet is the name of the sheet WriteXLSX lists findings on.
const FindingsSheet = "Findings"

// ReadXLSX reads the first sheet of the workbook at path.
// See ReadXLSXFrom for the cell rules.
func ReadXLSX(path string) ([]dataset.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := readWorkbook(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return records, nil
}

// ReadXLSXFrom reads the first sheet of a workbook stream.
//
// The first row holds the headers and every later row is zipped against
// them. Numeric cells become Number values and text cells String values.
// Cells a row does not reach are Null, as are empty cells.
func ReadXLSXFrom(r io.Reader) ([]dataset.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) ([]dataset.Record, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: ErrEmptyFile}
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Err: ErrEmptyFile}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = norm.NFC.String(h)
	}

	records := make([]dataset.Record, 0, len(rows)-1)
	for r, row := range rows[1:] {
		fields := make([]dataset.Field, len(header))
		for c, name := range header {
			var v dataset.Value = dataset.Null{}
			if c < len(row) && row[c] != "" {
				v = cellValue(f, sheet, c+1, r+2, row[c])
			}
			fields[c] = dataset.F(name, v)
		}
		records = append(records, dataset.NewRecord(fields...))
	}
	return records, nil
}

// cellValue types a raw cell. Shared and inline strings stay text even
// when they look numeric; everything else is read as a number if it can be.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) dataset.Value {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err == nil {
		typ, err := f.GetCellType(sheet, name)
		if err == nil && (typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString) {
			return dataset.String(norm.NFC.String(raw))
		}
	}
	v := dataset.ParseCell(raw)
	if s, ok := v.(dataset.String); ok {
		return dataset.String(norm.NFC.String(string(s)))
	}
	return v
}

// WriteXLSX writes coll to a new workbook at path. The first sheet holds
// the records with a bold header row; every cell with a finding is filled
// red. A second sheet lists the findings.
//
// Findings are matched to records by row id, so a filtered view can be
// exported with the findings of its full collection.
func WriteXLSX(path string, coll dataset.Collection, findings []validate.Finding) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeWorkbook(f, coll, findings); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeWorkbook(f *excelize.File, coll dataset.Collection, findings []validate.Finding) error {
	sheet := f.GetSheetName(0)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	errorStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		Font: &excelize.Font{Color: "9C0006"},
	})
	if err != nil {
		return err
	}

	columns := coll.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if len(columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for i, rec := range coll {
		row := i + 2
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			v, _ := rec.Get(col)
			switch v := v.(type) {
			case dataset.Number:
				err = f.SetCellFloat(sheet, cell, float64(v), -1, 64)
			case dataset.String:
				err = f.SetCellStr(sheet, cell, string(v))
			}
			if err != nil {
				return err
			}
			if validate.HasFinding(findings, rec.RowID, col) {
				if err := f.SetCellStyle(sheet, cell, cell, errorStyle); err != nil {
					return err
				}
			}
		}
	}

	return writeFindingsSheet(f, findings, headerStyle)
}

func writeFindingsSheet(f *excelize.File, findings []validate.Finding, headerStyle int) error {
	if _, err := f.NewSheet(FindingsSheet); err != nil {
		return err
	}
	header := []interface{}{"Row", "Column", "Code", "Message"}
	if err := f.SetSheetRow(FindingsSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(FindingsSheet, "A1", "D1", headerStyle); err != nil {
		return err
	}
	for i, fd := range findings {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{fd.RowID + 1, fd.Column, fd.Code, fd.Message}
		if err := f.SetSheetRow(FindingsSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func withPath(err error, path string) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Path = path
		return pe
	}
	return &ParseError{Path: path, Err: err}
}
