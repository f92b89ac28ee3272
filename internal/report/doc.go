// Package report renders collections and findings for people and for
// golden files.
//
// Text output uses lipgloss tables; cells with a finding are styled the
// way the grid marks error cells. Canonical JSON (sorted keys, NFC
// strings, no HTML escaping) backs the scenario traces compared against
// golden files.
package report
