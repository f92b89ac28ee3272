package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is a sealed interface representing a scalar cell value.
// Only Null, String and Number implement it.
type Value interface {
	value() // Sealed - only these types implement it

	// String renders the value as it is displayed and exported.
	String() string

	// IsMissing reports whether the cell counts as a missing value.
	IsMissing() bool
}

// Null represents an absent or null cell.
type Null struct{}

func (Null) value() {}

// String returns the empty string; absent cells export as empty fields.
func (Null) String() string { return "" }

// IsMissing is always true for Null.
func (Null) IsMissing() bool { return true }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a text cell.
type String string

func (String) value() {}

// String returns the text unchanged.
func (s String) String() string { return string(s) }

// IsMissing is true only for the empty string. Whitespace is a value.
func (s String) IsMissing() bool { return s == "" }

// Number represents a numeric cell read from a spreadsheet.
type Number float64

func (Number) value() {}

// String renders the shortest decimal form: 3 → "3", 2.5 → "2.5".
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// IsMissing is always false for Number.
func (Number) IsMissing() bool { return false }

// MarshalJSON implements json.Marshaler for Number.
// Non-finite numbers are emitted as strings since JSON cannot carry them.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(n.String())
	}
	return []byte(n.String()), nil
}

// IsNull reports whether v is absent (nil or Null).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// ParseCell converts raw cell text into a Value.
// Integers and decimals become Number, everything else stays a String.
// Used for spreadsheet cells and scenario fixtures where a numeric type is
// known to be intended; CSV fields are always kept as String.
func ParseCell(s string) Value {
	if s == "" {
		return String("")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Number(float64(i))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return String(s)
}
