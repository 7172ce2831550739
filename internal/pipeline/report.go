package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/johncolby/DTI-Preprocessing/internal/platform"
)

// Outcome is what happened to one subject.
type Outcome int

const (
	// Emitted subjects got a row in every list file.
	Emitted Outcome = iota
	// AlreadyProcessed subjects had tensor outputs; folders were still ensured.
	AlreadyProcessed
	// InsufficientScans subjects had fewer raw scans than requested.
	InsufficientScans
)

// String returns the console status text for the outcome.
func (o Outcome) String() string {
	switch o {
	case Emitted:
		return "OK"
	case AlreadyProcessed:
		return "DTI files already present"
	case InsufficientScans:
		return "Not enough scans"
	default:
		return "unknown"
	}
}

// SubjectResult records the handling of one subject.
type SubjectResult struct {
	ID      string
	Outcome Outcome
	Found   int      // matching raw scans
	Scans   []string // scans written to inpt.list; nil unless Emitted
	Links   []platform.LinkResult
}

// Warnings returns one "<name>: <err>" string per link that was not created.
func (r SubjectResult) Warnings() []string {
	var out []string
	for _, l := range r.Links {
		if l.OK() {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %v", linkName(l.Link), l.Err))
	}
	return out
}

// StatusLine is the tab separated console line for the subject.
func (r SubjectResult) StatusLine() string {
	fields := append([]string{r.ID, r.Outcome.String()}, r.Warnings()...)
	return strings.Join(fields, "\t")
}

// linkName labels a link warning by its basename, e.g. "bvals".
func linkName(path string) string {
	return filepath.Base(path)
}

// Report collects the results of a run in processing order.
type Report struct {
	ListDir  string
	Rows     int // lines written to each list file
	Subjects []SubjectResult
}

// Count returns how many subjects ended with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, s := range r.Subjects {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

// Emitted returns the IDs written to the lists, in list order.
func (r *Report) Emitted() []string {
	var ids []string
	for _, s := range r.Subjects {
		if s.Outcome == Emitted {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
