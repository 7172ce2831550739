// Package manifest writes the list files that drive the DTI preprocessing
// pipeline. Each list holds one column of a table: line N of every list
// describes the same subject. The column order is fixed by Columns and rows
// are only ever written to all lists at once.
package manifest
