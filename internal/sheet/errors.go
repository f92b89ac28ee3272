package sheet

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates a file extension other than .csv or .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrEmptyFile indicates a file without a header row.
var ErrEmptyFile = errors.New("file has no header row")

// ParseError describes a file that could not be read into records.
type ParseError struct {
	Path string // empty when reading from a stream
	Line int    // 1-based, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	name := e.Path
	if name == "" {
		name = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", name, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", name, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
