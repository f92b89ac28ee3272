// Package sheet reads uploaded CSV and XLSX files into records and writes
// collections back out.
//
// Readers are header driven: the first row names the columns and every
// later row becomes one record, cells zipped against the headers. Blank
// CSV lines are kept as rows so they surface as missing values instead of
// disappearing silently.
//
// Row ids are not assigned here. The dataset store numbers records when
// they are ingested.
package sheet
