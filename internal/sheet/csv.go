package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/alchemist/internal/dataset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses CSV text with a header row into records.
//
// Every cell becomes a String value, NFC-normalized. CSV has no null, so a
// row shorter than the header gets empty strings for the columns it lacks
// and WriteCSV followed by ReadCSV yields the same values. Cells beyond the
// header are dropped. Blank lines between or after data rows become records
// whose cells are all empty. The newline that ends the last line does not
// start a new row.
//
// Quotes are read leniently: a bare quote inside an unquoted field is kept
// as text, and an unterminated quoted field runs to the end of the input.
func ReadCSV(r io.Reader) ([]dataset.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, csvError(err)
	}
	for i, h := range header {
		header[i] = norm.NFC.String(h)
	}

	records := []dataset.Record{}
	offset := cr.InputOffset()
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		end := cr.InputOffset()
		for i := countBlankLines(data[offset:end]); i > 0; i-- {
			records = append(records, zip(header, []string{""}))
		}
		records = append(records, zip(header, cells))
		offset = end
	}
	for i := countNewlines(data[offset:]); i > 0; i-- {
		records = append(records, zip(header, []string{""}))
	}

	return records, nil
}

// zip pairs cells with header names.
func zip(header, cells []string) dataset.Record {
	fields := make([]dataset.Field, len(header))
	for i, name := range header {
		cell := ""
		if i < len(cells) {
			cell = norm.NFC.String(cells[i])
		}
		fields[i] = dataset.F(name, dataset.String(cell))
	}
	return dataset.NewRecord(fields...)
}

// countBlankLines counts the empty lines encoding/csv skipped before the
// record that occupies the rest of seg.
func countBlankLines(seg []byte) int {
	n := 0
	for {
		switch {
		case bytes.HasPrefix(seg, []byte("\r\n")):
			seg = seg[2:]
		case bytes.HasPrefix(seg, []byte("\n")):
			seg = seg[1:]
		default:
			return n
		}
		n++
	}
}

// countNewlines counts the line breaks in the unread tail of the input.
func countNewlines(tail []byte) int {
	return bytes.Count(tail, []byte("\n"))
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}

// WriteCSV writes coll as CSV with a header row. The header is the union
// of the records' columns in first-seen order; absent and null cells are
// written empty. Row ids are not written.
func WriteCSV(w io.Writer, coll dataset.Collection) error {
	cw := csv.NewWriter(w)
	columns := coll.Columns()
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range coll {
		for i, col := range columns {
			row[i] = ""
			if v, ok := rec.Get(col); ok {
				row[i] = v.String()
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", rec.RowID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
