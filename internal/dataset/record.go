package dataset

import (
	"bytes"
	"encoding/json"
	"math"
)

// RowIDColumn is the name under which the synthetic row id is exported in
// JSON output. It is never a data column.
const RowIDColumn = "rowId"

// Field is a single column/value pair used for ordered record construction.
type Field struct {
	Name  string
	Value Value
}

// F is a shorthand for Field.
// Example: NewRecord(F("ClientID", String("C1")), F("PriorityLevel", Number(3)))
func F(name string, v Value) Field {
	return Field{Name: name, Value: v}
}

// Record is a flat row of column/value pairs with a synthetic row id.
//
// Column order is insertion order and is significant: validation findings
// are reported in column-iteration order. Records share their underlying
// storage when copied; use Clone before mutating a record obtained from a
// store.
type Record struct {
	// RowID is assigned by the store at ingestion and never renumbered.
	RowID int

	columns []string
	values  map[string]Value
}

// NewRecord builds a record from fields in order.
// A repeated column name keeps its first position and takes the last value.
func NewRecord(fields ...Field) Record {
	r := Record{
		columns: make([]string, 0, len(fields)),
		values:  make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Columns returns the column names in insertion order.
func (r Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.columns)
}

// Get returns the value stored under column and whether the column exists.
// A column that exists with a Null value returns (Null{}, true).
func (r Record) Get(column string) (Value, bool) {
	v, ok := r.values[column]
	if !ok {
		return nil, false
	}
	if v == nil {
		return Null{}, true
	}
	return v, true
}

// Has reports whether the column exists in the record.
func (r Record) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

// Set stores v under column. Existing columns keep their position; new
// columns are appended. A nil value is stored as Null.
func (r *Record) Set(column string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if v == nil {
		v = Null{}
	}
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = v
}

// Fields returns the column/value pairs in order.
func (r Record) Fields() []Field {
	out := make([]Field, 0, len(r.columns))
	for _, c := range r.columns {
		v, _ := r.Get(c)
		out = append(out, Field{Name: c, Value: v})
	}
	return out
}

// Clone returns a deep copy that shares no storage with r.
func (r Record) Clone() Record {
	out := Record{
		RowID:   r.RowID,
		columns: make([]string, len(r.columns)),
		values:  make(map[string]Value, len(r.values)),
	}
	copy(out.columns, r.columns)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether two records have the same columns in the same
// order with the same values. RowID is ignored. A NaN Number equals
// another NaN Number.
func (r Record) Equal(o Record) bool {
	if len(r.columns) != len(o.columns) {
		return false
	}
	for i, c := range r.columns {
		if o.columns[i] != c {
			return false
		}
		a, _ := r.Get(c)
		b, _ := o.Get(c)
		if !sameValue(a, b) {
			return false
		}
	}
	return true
}

func sameValue(a, b Value) bool {
	x, ok := a.(Number)
	if !ok {
		return a == b
	}
	y, ok := b.(Number)
	if !ok {
		return false
	}
	return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
}

// MarshalJSON emits the record as an object with the row id first and the
// columns in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"` + RowIDColumn + `":`)
	id, _ := json.Marshal(r.RowID)
	buf.Write(id)
	for _, c := range r.columns {
		buf.WriteByte(',')
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v, _ := r.Get(c)
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Collection is an ordered sequence of records of one kind.
type Collection []Record

// Clone deep-copies every record.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// IndexOf returns the position of the record with the given row id, or -1.
func (c Collection) IndexOf(rowID int) int {
	for i, r := range c {
		if r.RowID == rowID {
			return i
		}
	}
	return -1
}

// Columns returns the union of all record columns in first-seen order.
func (c Collection) Columns() []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range c {
		for _, col := range r.columns {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			cols = append(cols, col)
		}
	}
	return cols
}
