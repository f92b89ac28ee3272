// Package dataset provides the in-memory record store for Data Alchemist.
//
// A session holds three named collections (clients, workers, tasks). Each
// collection is an ordered sequence of flat records whose columns are only
// known at runtime, so a Record is a mapping with runtime-checked key access
// rather than a fixed struct. Column-specific validation rules dispatch by
// column name lookup.
//
// ROW IDENTITY:
//
// Every record carries a synthetic RowID assigned by the store at ingestion:
// RowID equals the record's position in the ingested slice. The id is stable
// for the record's lifetime and is never renumbered by edits. The id is not a
// column and never shows up in Columns().
//
// VALUES:
//
// Value is a sealed interface. Only Null, String and Number implement it:
//
//	switch v := value.(type) {
//	case dataset.Null:
//	    // absent cell
//	case dataset.String:
//	    // text cell (may be empty)
//	case dataset.Number:
//	    // numeric spreadsheet cell
//	}
//
// CHANGE EVENTS:
//
// The store does not validate. It publishes a Changed event to its
// subscribers after every ingest, edit or wholesale replacement, and the
// coordinator decides what to re-run.
package dataset
