package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Default directory and file names for an experiment tree.
const (
	DefaultSubjectsDir = "SUBJECTS"
	DefaultPipelineDir = "PIPELINE"
	DefaultGradDir     = "grad"
	DefaultRawDir      = "RAW"
	DefaultScanExt     = ".nii.gz"

	// Analysis subdirectories created under <subject>/<outName>/.
	DtifitDir  = "dtifit"
	TrackDir   = "track"
	ToolkitDir = "diffusion_toolkit"

	BvecsName = "bvecs"
	BvalsName = "bvals"
)

// DirPermNormal is the mode for every directory this tool creates.
const DirPermNormal os.FileMode = 0755

// Names holds the configurable directory names of an experiment tree.
type Names struct {
	Subjects string
	Pipeline string
	Grad     string // relative to the pipeline directory
	Raw      string // relative to each subject directory
	ScanExt  string
}

// DefaultNames returns the conventional layout names.
func DefaultNames() Names {
	return Names{
		Subjects: DefaultSubjectsDir,
		Pipeline: DefaultPipelineDir,
		Grad:     DefaultGradDir,
		Raw:      DefaultRawDir,
		ScanExt:  DefaultScanExt,
	}
}

// withDefaults fills empty fields from DefaultNames.
func (n Names) withDefaults() Names {
	d := DefaultNames()
	if n.Subjects == "" {
		n.Subjects = d.Subjects
	}
	if n.Pipeline == "" {
		n.Pipeline = d.Pipeline
	}
	if n.Grad == "" {
		n.Grad = d.Grad
	}
	if n.Raw == "" {
		n.Raw = d.Raw
	}
	if n.ScanExt == "" {
		n.ScanExt = d.ScanExt
	}
	return n
}

// Experiment is an experiment root resolved to an absolute path.
type Experiment struct {
	Root  string
	Names Names
}

// NewExperiment resolves root to an absolute path. Nothing is checked on disk;
// a missing tree surfaces as an error from whichever operation touches it.
func NewExperiment(root string, names Names) (*Experiment, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving experiment directory %s: %w", root, err)
	}
	return &Experiment{Root: abs, Names: names.withDefaults()}, nil
}

// SubjectsRoot returns <root>/SUBJECTS.
func (e *Experiment) SubjectsRoot() string {
	return filepath.Join(e.Root, e.Names.Subjects)
}

// PipelineRoot returns <root>/PIPELINE, where the list files are written.
func (e *Experiment) PipelineRoot() string {
	return filepath.Join(e.Root, e.Names.Pipeline)
}

// GradRoot returns <root>/PIPELINE/grad.
func (e *Experiment) GradRoot() string {
	return filepath.Join(e.PipelineRoot(), e.Names.Grad)
}

// SubjectDir returns <root>/SUBJECTS/<id>.
func (e *Experiment) SubjectDir(id string) string {
	return filepath.Join(e.SubjectsRoot(), id)
}

// RawDir returns <root>/SUBJECTS/<id>/RAW.
func (e *Experiment) RawDir(id string) string {
	return filepath.Join(e.SubjectDir(id), e.Names.Raw)
}

// Analysis returns the analysis folder <root>/SUBJECTS/<id>/<outName>.
func (e *Experiment) Analysis(id, outName string) Analysis {
	return Analysis{Dir: filepath.Join(e.SubjectDir(id), outName)}
}

// BvecsPath returns the shared gradient-direction table for nScans repetitions,
// e.g. PIPELINE/grad/bvecs2.
func (e *Experiment) BvecsPath(nScans int) string {
	return filepath.Join(e.GradRoot(), BvecsName+strconv.Itoa(nScans))
}

// BvalsPath returns the shared gradient-strength table for nScans repetitions.
func (e *Experiment) BvalsPath(nScans int) string {
	return filepath.Join(e.GradRoot(), BvalsName+strconv.Itoa(nScans))
}

// Analysis is one subject's output folder.
type Analysis struct {
	Dir string
}

func (a Analysis) DtifitDir() string  { return filepath.Join(a.Dir, DtifitDir) }
func (a Analysis) TrackDir() string   { return filepath.Join(a.Dir, TrackDir) }
func (a Analysis) ToolkitDir() string { return filepath.Join(a.Dir, ToolkitDir) }

// DataPath is the averaged DWI series consumed by tractography.
func (a Analysis) DataPath() string { return filepath.Join(a.TrackDir(), "data.nii.gz") }

// BrainPath is the brain-extracted b0 image.
func (a Analysis) BrainPath() string { return filepath.Join(a.TrackDir(), "nodif_brain.nii.gz") }

// MaskPath is the brain mask written next to BrainPath.
func (a Analysis) MaskPath() string { return filepath.Join(a.TrackDir(), "nodif_brain_mask.nii.gz") }

// ToolkitPrefix is the output prefix handed to diffusion toolkit.
func (a Analysis) ToolkitPrefix() string { return filepath.Join(a.ToolkitDir(), "dti") }

func (a Analysis) TrackFile() string { return filepath.Join(a.ToolkitDir(), "dti.trk") }
func (a Analysis) FAPath() string    { return filepath.Join(a.ToolkitDir(), "dti_fa.nii.gz") }

// BvecsLink and BvalsLink are the per-subject links to the shared gradient tables.
func (a Analysis) BvecsLink() string { return filepath.Join(a.TrackDir(), BvecsName) }
func (a Analysis) BvalsLink() string { return filepath.Join(a.TrackDir(), BvalsName) }
