package testutil

import (
	"fmt"

	"github.com/roach88/alchemist/internal/dataset"
)

// Rec builds a record of String values from alternating column/value
// arguments: Rec("ClientID", "C1", "Name", "Acme").
// Panics on an odd argument count so fixture typos fail loudly.
func Rec(pairs ...string) dataset.Record {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("testutil.Rec: odd number of arguments (%d)", len(pairs)))
	}
	fields := make([]dataset.Field, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		fields = append(fields, dataset.F(pairs[i], dataset.String(pairs[i+1])))
	}
	return dataset.NewRecord(fields...)
}

// Coll assembles a collection and numbers the records by position, the
// way the store does at ingestion.
func Coll(recs ...dataset.Record) dataset.Collection {
	out := make(dataset.Collection, len(recs))
	for i, r := range recs {
		r.RowID = i
		out[i] = r
	}
	return out
}

// Workers builds a workers collection with one record per skills cell.
func Workers(skills ...string) dataset.Collection {
	recs := make([]dataset.Record, len(skills))
	for i, s := range skills {
		recs[i] = Rec("WorkerID", fmt.Sprintf("W%d", i+1), "Skills", s)
	}
	return Coll(recs...)
}
