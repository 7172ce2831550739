package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Set holds every list file open for writing.
type Set struct {
	dir     string
	files   []*os.File
	writers []*bufio.Writer
	rows    int
	closed  bool
}

// Create truncates (or creates) every list file in dir. If any file cannot be
// opened, the ones already opened are closed before returning.
func Create(dir string) (*Set, error) {
	s := &Set{dir: dir}
	for _, c := range Columns {
		path := filepath.Join(dir, c.File)
		f, err := os.Create(path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating list file %s: %w", path, err)
		}
		s.files = append(s.files, f)
		s.writers = append(s.writers, bufio.NewWriter(f))
	}
	return s, nil
}

// Write appends one line per column for r.
func (s *Set) Write(r Row) error {
	if s.closed {
		return errors.New("write to closed list set")
	}
	for i, c := range Columns {
		if _, err := s.writers[i].WriteString(c.Format(r) + "\n"); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Join(s.dir, c.File), err)
		}
	}
	s.rows++
	return nil
}

// Rows returns how many rows have been written.
func (s *Set) Rows() int { return s.rows }

// Dir returns the directory holding the list files.
func (s *Set) Dir() string { return s.dir }

// Close flushes and closes every file. It is safe to call more than once and
// returns the first error seen.
func (s *Set) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for i, f := range s.files {
		if err := s.writers[i].Flush(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flushing %s: %w", f.Name(), err)
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", f.Name(), err)
		}
	}
	return firstErr
}
