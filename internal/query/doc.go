// Package query implements the filter box language used to narrow the
// visible rows of a collection.
//
// Three shapes are recognised:
//
//	""                       every row (All)
//	"PriorityLevel >= 3"     structured comparison (Comparison)
//	"java"                   substring search over all values (FreeText)
//
// Comparison operators are =, !=, >, <, >=, <= and the keyword includes
// (any case). Text operators compare lower-cased values; ordered
// operators compare the leading decimal number of each side, so "12kg"
// compares as 12 and "abc" never compares.
//
// Parsing never fails. Input that does not match the comparison grammar
// falls back to free-text search.
package query
