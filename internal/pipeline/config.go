package pipeline

import (
	"errors"
	"fmt"

	"github.com/johncolby/DTI-Preprocessing/internal/layout"
)

// Config describes one run.
type Config struct {
	ExptDir  string
	OutName  string   // analysis folder created in each subject directory
	NScans   int      // raw scans required and averaged per subject
	IDStr    string   // substring identifying raw DWI series
	Subjects []string // explicit subject IDs in processing order; empty means all
	Layout   layout.Names
}

// Validate reports configuration errors that would make a run meaningless.
func (c Config) Validate() error {
	if c.ExptDir == "" {
		return errors.New("experiment directory is required")
	}
	if c.OutName == "" {
		return errors.New("output directory name is required")
	}
	if c.NScans < 1 {
		return fmt.Errorf("number of scans must be at least 1, got %d", c.NScans)
	}
	return nil
}
