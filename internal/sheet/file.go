package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/alchemist/internal/dataset"
	"github.com/roach88/alchemist/internal/validate"
)

// Format is a supported file format, named by its extension.
type Format string

const (
	FormatCSV  Format = ".csv"
	FormatXLSX Format = ".xlsx"
)

// FormatOf returns the format of path by extension, case-insensitively.
func FormatOf(path string) (Format, error) {
	switch ext := Format(strings.ToLower(filepath.Ext(path))); ext {
	case FormatCSV, FormatXLSX:
		return ext, nil
	default:
		return "", &ParseError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(ext))}
	}
}

// ReadFile reads a .csv or .xlsx file into records.
func ReadFile(path string) ([]dataset.Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ReadXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return records, nil
}

// WriteFile exports coll to path as CSV or XLSX by extension. Findings
// are only rendered in XLSX output.
func WriteFile(path string, coll dataset.Collection, findings []validate.Finding) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == FormatXLSX {
		return WriteXLSX(path, coll, findings)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := WriteCSV(f, coll); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
