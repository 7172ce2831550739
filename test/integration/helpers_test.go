//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to an isolated experiment tree.
type testEnv struct {
	HomeDir string // HOME, so no user config leaks in
	ExptDir string // experiment root with SUBJECTS/ and PIPELINE/
}

// setupTestEnv creates an experiment with SUBJECTS/, PIPELINE/grad and the
// gradient tables for 2 and 3 repetitions.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		ExptDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)

	for _, n := range []string{"2", "3"} {
		writeFile(t, env.pipeline("grad", "bvecs"+n), "1 0 0\n0 1 0\n0 0 1\n")
		writeFile(t, env.pipeline("grad", "bvals"+n), "0 1000 1000\n")
	}
	if err := os.MkdirAll(filepath.Join(env.ExptDir, "SUBJECTS"), 0755); err != nil {
		t.Fatalf("creating SUBJECTS: %v", err)
	}
	return env
}

func (e *testEnv) pipeline(elem ...string) string {
	return filepath.Join(append([]string{e.ExptDir, "PIPELINE"}, elem...)...)
}

func (e *testEnv) subject(id string, elem ...string) string {
	return filepath.Join(append([]string{e.ExptDir, "SUBJECTS", id}, elem...)...)
}

// addSubject writes n raw DWI series plus a structural scan for id.
func addSubject(t *testing.T, env *testEnv, id string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		writeFile(t, env.subject(id, "RAW", id+"_DTI_30DIR_0"+string(rune('0'+i))+".nii.gz"), "")
	}
	writeFile(t, env.subject(id, "RAW", id+"_MPRAGE.nii.gz"), "")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// readLines returns the lines of a list file.
func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertSymlink fails unless path is a symlink to target.
func assertSymlink(t *testing.T, path, target string) {
	t.Helper()
	got, err := os.Readlink(path)
	if err != nil {
		t.Errorf("expected symlink at %s (error: %v)", path, err)
		return
	}
	if got != target {
		t.Errorf("symlink %s -> %s, want %s", path, got, target)
	}
}
