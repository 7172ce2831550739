package layout

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// CheckResult summarizes a Check run.
type CheckResult struct {
	Missing  int
	Warnings int
	Subjects int
}

// OK reports whether every required entry was found.
func (r CheckResult) OK() bool { return r.Missing == 0 }

// Check reports, one line per entry, whether the experiment tree has what a
// run with nScans repetitions needs. It never modifies the tree.
func Check(w io.Writer, e *Experiment, nScans int) CheckResult {
	var res CheckResult

	fmt.Fprintf(w, "Experiment check: %s\n", e.Root)

	if checkDir(w, e.SubjectsRoot(), &res) {
		entries, err := os.ReadDir(e.SubjectsRoot())
		if err != nil {
			fmt.Fprintf(w, "  [FAIL] reading %s: %v\n", e.SubjectsRoot(), err)
			res.Missing++
		} else {
			res.Subjects = len(entries)
			fmt.Fprintf(w, "         %d subject entries\n", res.Subjects)
			if res.Subjects == 0 {
				fmt.Fprintf(w, "  [WARN] %s is empty\n", e.SubjectsRoot())
				res.Warnings++
			}
		}
	}

	checkDir(w, e.PipelineRoot(), &res)
	if checkDir(w, e.GradRoot(), &res) {
		checkGradFile(w, e.BvecsPath(nScans), &res)
		checkGradFile(w, e.BvalsPath(nScans), &res)
	}

	return res
}

func checkDir(w io.Writer, path string, res *CheckResult) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		res.Missing++
		return false
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		res.Missing++
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [MISS] %s exists but is not a directory\n", path)
		res.Missing++
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s\n", path)
	return true
}

func checkGradFile(w io.Writer, path string, res *CheckResult) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		res.Missing++
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		res.Missing++
		return
	}
	if info.Size() == 0 {
		fmt.Fprintf(w, "  [WARN] %s is empty\n", path)
		res.Warnings++
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
}
