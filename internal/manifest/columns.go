package manifest

import (
	"strings"

	"github.com/johncolby/DTI-Preprocessing/internal/layout"
)

// Row is everything the pipeline needs to know about one subject.
type Row struct {
	Scans    []string // raw scans to average, in order
	Analysis layout.Analysis
	Bvecs    string
	Bvals    string
}

// Column pairs a list file with the formatter for its line.
type Column struct {
	File   string
	Format func(Row) string
}

// Columns is the fixed list table. The pipeline reads these files by name, so
// names and order must not change.
var Columns = []Column{
	{"inpt.list", func(r Row) string { return strings.Join(r.Scans, " ") }},
	{"dti.list", func(r Row) string { return r.Analysis.DtifitDir() }},
	{"data.list", func(r Row) string { return r.Analysis.DataPath() }},
	{"bet.list", func(r Row) string { return r.Analysis.BrainPath() }},
	{"mask.list", func(r Row) string { return r.Analysis.MaskPath() }},
	{"bvec.list", func(r Row) string { return r.Bvecs }},
	{"bval.list", func(r Row) string { return r.Bvals }},
	{"dtk.list", func(r Row) string { return r.Analysis.ToolkitPrefix() }},
	{"dtk2.list", func(r Row) string { return r.Analysis.TrackFile() }},
	{"fa.list", func(r Row) string { return r.Analysis.FAPath() }},
}

// FileNames returns the list file names in column order.
func FileNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.File
	}
	return names
}
