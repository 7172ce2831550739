package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/johncolby/DTI-Preprocessing/internal/layout"
)

// ListSubjects returns every entry under SUBJECTS/, sorted lexicographically.
func ListSubjects(e *layout.Experiment) ([]string, error) {
	entries, err := os.ReadDir(e.SubjectsRoot())
	if err != nil {
		return nil, fmt.Errorf("listing subjects in %s: %w", e.SubjectsRoot(), err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}

// Set is the sorted list of raw scan paths found for one subject.
type Set []string

// Select returns the first n scans and whether the set holds at least n.
func (s Set) Select(n int) ([]string, bool) {
	if n < 0 || len(s) < n {
		return nil, false
	}
	return s[:n], true
}

// Matches reports whether name is a raw scan for idStr: it must end in ext and
// contain idStr before that extension. Hidden files never match.
func Matches(name, idStr, ext string) bool {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
		return false
	}
	return strings.Contains(strings.TrimSuffix(name, ext), idStr)
}

// FindRaw returns the raw scans of subject id whose names contain idStr,
// sorted by path. A subject without a RAW directory, or a SUBJECTS entry that
// is not a directory at all, has no scans.
func FindRaw(e *layout.Experiment, id, idStr string) (Set, error) {
	rawDir := e.RawDir(id)
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading raw scans in %s: %w", rawDir, err)
	}

	var set Set
	for _, entry := range entries {
		if Matches(entry.Name(), idStr, e.Names.ScanExt) {
			set = append(set, filepath.Join(rawDir, entry.Name()))
		}
	}
	sort.Strings(set)
	return set, nil
}
