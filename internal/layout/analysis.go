package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tensorOutputPrefix is the basename prefix shared by dtifit and diffusion
// toolkit outputs.
const tensorOutputPrefix = "dti"

// EnsureAnalysisLayout creates dir/dtifit, dir/track and dir/diffusion_toolkit,
// including missing parents. Existing directories are left alone.
func EnsureAnalysisLayout(dir string) error {
	for _, sub := range []string{DtifitDir, TrackDir, ToolkitDir} {
		path := filepath.Join(dir, sub)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			continue
		}
		if err := os.MkdirAll(path, DirPermNormal); err != nil {
			return fmt.Errorf("creating analysis directory %s: %w", path, err)
		}
	}
	return nil
}

// HasTensorOutputs reports whether dtifit/dti* or diffusion_toolkit/dti*
// matches at least one existing entry. Any match counts as a finished subject.
func (a Analysis) HasTensorOutputs() (bool, error) {
	for _, dir := range []string{a.DtifitDir(), a.ToolkitDir()} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return false, fmt.Errorf("checking outputs in %s: %w", dir, err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), tensorOutputPrefix) {
				return true, nil
			}
		}
	}
	return false, nil
}
