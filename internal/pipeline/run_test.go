package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/johncolby/DTI-Preprocessing/internal/logging"
	"github.com/johncolby/DTI-Preprocessing/internal/manifest"
	"github.com/johncolby/DTI-Preprocessing/internal/platform"
)

// fixture is a synthetic experiment tree.
type fixture struct {
	root string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{root: t.TempDir()}
	f.mkdir(t, "SUBJECTS")
	f.mkdir(t, "PIPELINE/grad")
	f.write(t, "PIPELINE/grad/bvecs2", "1 0 0\n")
	f.write(t, "PIPELINE/grad/bvals2", "0 1000\n")
	return f
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) mkdir(t *testing.T, rel string) {
	t.Helper()
	if err := os.MkdirAll(f.path(rel), 0755); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	f.mkdir(t, filepath.Dir(rel))
	if err := os.WriteFile(f.path(rel), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// subject creates SUBJECTS/<id>/RAW with n matching scans plus a distractor.
func (f *fixture) subject(t *testing.T, id string, n int) {
	t.Helper()
	f.mkdir(t, "SUBJECTS/"+id+"/RAW")
	for i := n; i >= 1; i-- {
		f.write(t, "SUBJECTS/"+id+"/RAW/"+id+"_30DIR_"+string(rune('0'+i))+".nii.gz", "")
	}
	f.write(t, "SUBJECTS/"+id+"/RAW/"+id+"_T1.nii.gz", "")
}

func (f *fixture) lines(t *testing.T, list string) []string {
	t.Helper()
	data, err := os.ReadFile(f.path("PIPELINE/" + list))
	if err != nil {
		t.Fatalf("reading %s: %v", list, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (f *fixture) config() Config {
	return Config{ExptDir: f.root, OutName: "2avg", NScans: 2, IDStr: "30DIR"}
}

func run(t *testing.T, cfg Config) (*Report, string) {
	t.Helper()
	var out bytes.Buffer
	rep, err := Run(cfg, &out, logging.Discard())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return rep, out.String()
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestRun_EligibleAndInsufficient(t *testing.T) {
	f := newFixture(t)
	f.subject(t, "A", 3)
	f.subject(t, "B", 1)

	rep, out := run(t, f.config())

	if got := rep.Emitted(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Emitted = %v, want [A]", got)
	}
	if rep.Rows != 1 {
		t.Errorf("Rows = %d, want 1", rep.Rows)
	}
	for _, name := range manifest.FileNames() {
		if n := len(f.lines(t, name)); n != 1 {
			t.Errorf("%s has %d lines, want 1", name, n)
		}
	}

	wantInpt := f.path("SUBJECTS/A/RAW/A_30DIR_1.nii.gz") + " " + f.path("SUBJECTS/A/RAW/A_30DIR_2.nii.gz")
	if got := f.lines(t, "inpt.list")[0]; got != wantInpt {
		t.Errorf("inpt.list = %q, want %q", got, wantInpt)
	}

	wantLines := map[string]string{
		"dti.list":  f.path("SUBJECTS/A/2avg/dtifit"),
		"data.list": f.path("SUBJECTS/A/2avg/track/data.nii.gz"),
		"bet.list":  f.path("SUBJECTS/A/2avg/track/nodif_brain.nii.gz"),
		"mask.list": f.path("SUBJECTS/A/2avg/track/nodif_brain_mask.nii.gz"),
		"bvec.list": f.path("PIPELINE/grad/bvecs2"),
		"bval.list": f.path("PIPELINE/grad/bvals2"),
		"dtk.list":  f.path("SUBJECTS/A/2avg/diffusion_toolkit/dti"),
		"dtk2.list": f.path("SUBJECTS/A/2avg/diffusion_toolkit/dti.trk"),
		"fa.list":   f.path("SUBJECTS/A/2avg/diffusion_toolkit/dti_fa.nii.gz"),
	}
	for list, want := range wantLines {
		if got := f.lines(t, list)[0]; got != want {
			t.Errorf("%s = %q, want %q", list, got, want)
		}
	}

	if exists(f.path("SUBJECTS/B/2avg")) {
		t.Error("analysis dir created for subject without enough scans")
	}

	wantOut := "A\tOK\nB\tNot enough scans\n"
	if out != wantOut {
		t.Errorf("output = %q, want %q", out, wantOut)
	}

	for _, link := range []string{"bvecs", "bvals"} {
		target, err := os.Readlink(f.path("SUBJECTS/A/2avg/track/" + link))
		if err != nil {
			t.Fatalf("Readlink %s: %v", link, err)
		}
		if want := f.path("PIPELINE/grad/" + link + "2"); target != want {
			t.Errorf("%s -> %q, want %q", link, target, want)
		}
	}
}

func TestRun_AlreadyProcessed(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"dtifit", "SUBJECTS/A/2avg/dtifit/dti_FA.nii.gz"},
		{"diffusion toolkit", "SUBJECTS/A/2avg/diffusion_toolkit/dti.trk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.subject(t, "A", 2)
			f.write(t, tt.output, "done")

			rep, out := run(t, f.config())

			if got := rep.Count(AlreadyProcessed); got != 1 {
				t.Errorf("AlreadyProcessed = %d, want 1", got)
			}
			for _, name := range manifest.FileNames() {
				if n := len(f.lines(t, name)); n != 0 {
					t.Errorf("%s has %d lines, want 0", name, n)
				}
			}
			for _, sub := range []string{"dtifit", "track", "diffusion_toolkit"} {
				if !exists(f.path("SUBJECTS/A/2avg/" + sub)) {
					t.Errorf("%s not ensured", sub)
				}
			}
			if exists(f.path("SUBJECTS/A/2avg/track/bvecs")) {
				t.Error("bvecs link created for an already processed subject")
			}
			if out != "A\tDTI files already present\n" {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestRun_Rerun(t *testing.T) {
	f := newFixture(t)
	f.subject(t, "A", 2)
	f.subject(t, "C", 2)

	run(t, f.config())
	if n := len(f.lines(t, "inpt.list")); n != 2 {
		t.Fatalf("first run inpt.list lines = %d, want 2", n)
	}

	// Second run: directories and links already exist, A has finished.
	f.write(t, "SUBJECTS/A/2avg/dtifit/dti_V1.nii.gz", "")
	rep, out := run(t, f.config())

	if got := rep.Emitted(); !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("Emitted = %v, want [C]", got)
	}
	if got := f.lines(t, "dti.list"); len(got) != 1 || got[0] != f.path("SUBJECTS/C/2avg/dtifit") {
		t.Errorf("dti.list = %v, want only C", got)
	}

	c := rep.Subjects[1]
	if len(c.Links) != 2 {
		t.Fatalf("C links = %d, want 2", len(c.Links))
	}
	for _, l := range c.Links {
		if l.Status != platform.LinkExists {
			t.Errorf("link %s status = %s, want exists", l.Link, l.Status)
		}
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("output lines = %d, want 2: %q", len(lines), out)
	}
	fields := strings.Split(lines[1], "\t")
	if len(fields) != 4 || fields[0] != "C" || fields[1] != "OK" {
		t.Fatalf("C status line = %q", lines[1])
	}
	if !strings.HasPrefix(fields[2], "bvals: ") || !strings.HasPrefix(fields[3], "bvecs: ") {
		t.Errorf("warnings = %q, %q; want bvals then bvecs", fields[2], fields[3])
	}
}

func TestRun_OneLinkBlocked(t *testing.T) {
	f := newFixture(t)
	f.subject(t, "A", 2)
	f.write(t, "SUBJECTS/A/2avg/track/bvals", "stale copy")

	rep, _ := run(t, f.config())

	a := rep.Subjects[0]
	if a.Outcome != Emitted {
		t.Fatalf("Outcome = %s, want OK", a.Outcome)
	}
	if a.Links[0].Status != platform.LinkExists {
		t.Errorf("bvals status = %s, want exists", a.Links[0].Status)
	}
	if !a.Links[1].OK() {
		t.Errorf("bvecs status = %s, want created", a.Links[1].Status)
	}
	if w := a.Warnings(); len(w) != 1 || !strings.HasPrefix(w[0], "bvals: ") {
		t.Errorf("Warnings = %v", w)
	}
}

func TestRun_ExplicitSubjectsKeepOrder(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"A", "B", "C"} {
		f.subject(t, id, 2)
	}

	cfg := f.config()
	cfg.Subjects = []string{"C", "A"}
	rep, out := run(t, cfg)

	if got := rep.Emitted(); !reflect.DeepEqual(got, []string{"C", "A"}) {
		t.Errorf("Emitted = %v, want [C A]", got)
	}
	if out != "C\tOK\nA\tOK\n" {
		t.Errorf("output = %q", out)
	}
	if exists(f.path("SUBJECTS/B/2avg")) {
		t.Error("unlisted subject B was processed")
	}
	bet := f.lines(t, "bet.list")
	if bet[0] != f.path("SUBJECTS/C/2avg/track/nodif_brain.nii.gz") {
		t.Errorf("bet.list[0] = %q, want C", bet[0])
	}
}

func TestRun_SortedEnumeration(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"s10", "s02", "s01"} {
		f.subject(t, id, 2)
	}

	rep, _ := run(t, f.config())
	if got := rep.Emitted(); !reflect.DeepEqual(got, []string{"s01", "s02", "s10"}) {
		t.Errorf("Emitted = %v, want sorted", got)
	}
}

func TestRun_ListsTruncated(t *testing.T) {
	f := newFixture(t)
	f.write(t, "PIPELINE/inpt.list", "stale\n")

	run(t, f.config())
	if got := f.lines(t, "inpt.list"); len(got) != 0 {
		t.Errorf("inpt.list = %v, want empty", got)
	}
}

func TestRun_MissingPipelineDir(t *testing.T) {
	f := &fixture{root: t.TempDir()}
	f.subject(t, "A", 2)

	var out bytes.Buffer
	if _, err := Run(f.config(), &out, logging.Discard()); err == nil {
		t.Fatal("expected error without PIPELINE dir, got nil")
	}
}

func TestRun_MissingSubjectsDir(t *testing.T) {
	f := &fixture{root: t.TempDir()}
	f.mkdir(t, "PIPELINE")

	var out bytes.Buffer
	if _, err := Run(f.config(), &out, logging.Discard()); err == nil {
		t.Fatal("expected error without SUBJECTS dir, got nil")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{ExptDir: "/e", OutName: "2avg", NScans: 2}, false},
		{"empty idStr ok", Config{ExptDir: "/e", OutName: "2avg", NScans: 1}, false},
		{"no expt", Config{OutName: "2avg", NScans: 2}, true},
		{"no outName", Config{ExptDir: "/e", NScans: 2}, true},
		{"zero scans", Config{ExptDir: "/e", OutName: "2avg"}, true},
		{"negative scans", Config{ExptDir: "/e", OutName: "2avg", NScans: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		o    Outcome
		want string
	}{
		{Emitted, "OK"},
		{AlreadyProcessed, "DTI files already present"},
		{InsufficientScans, "Not enough scans"},
	}
	for _, tt := range tests {
		if got := tt.o.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
		}
	}
}

func TestRun_StrayFileInSubjects(t *testing.T) {
	f := newFixture(t)
	f.subject(t, "A", 2)
	f.write(t, "SUBJECTS/.DS_Store", "junk")
	f.write(t, "SUBJECTS/notes.txt", "todo")

	rep, out := run(t, f.config())

	want := ".DS_Store\tNot enough scans\nA\tOK\nnotes.txt\tNot enough scans\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if got := rep.Emitted(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("Emitted = %v, want [A]", got)
	}
	if n := len(f.lines(t, "inpt.list")); n != 1 {
		t.Errorf("inpt.list lines = %d, want 1", n)
	}
}
