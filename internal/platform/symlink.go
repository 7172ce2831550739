package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// LinkStatus describes the outcome of a CreateSymlink call.
type LinkStatus int

const (
	// LinkCreated means a new link (or Windows copy fallback) was written.
	LinkCreated LinkStatus = iota
	// LinkExists means something already occupies the link path.
	LinkExists
	// LinkFailed means the link could not be created for another reason.
	LinkFailed
)

// String returns a human-readable name for the status.
func (s LinkStatus) String() string {
	switch s {
	case LinkCreated:
		return "created"
	case LinkExists:
		return "exists"
	case LinkFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LinkResult holds the outcome of creating one symlink.
type LinkResult struct {
	Target string
	Link   string
	Status LinkStatus
	Err    error // nil when Status is LinkCreated
}

// OK reports whether the link was created.
func (r LinkResult) OK() bool { return r.Status == LinkCreated }

// CreateSymlink creates a symbolic link at link pointing to target.
// It never returns an error: an existing link path or any other failure is
// recorded in the result so the caller decides whether it matters.
func CreateSymlink(target, link string) LinkResult {
	res := LinkResult{Target: target, Link: link}

	err := os.Symlink(target, link)
	if err != nil && runtime.GOOS == "windows" && !errors.Is(err, fs.ErrExist) {
		// Symlinks need developer mode on Windows; fall back to a copy.
		if cpErr := copyFileForSymlink(target, link); cpErr == nil {
			err = nil
		} else {
			err = fmt.Errorf("symlink fallback (copy) failed: %w", cpErr)
		}
	}

	switch {
	case err == nil:
		res.Status = LinkCreated
	case errors.Is(err, fs.ErrExist):
		res.Status = LinkExists
		res.Err = err
	default:
		res.Status = LinkFailed
		res.Err = err
	}
	return res
}

// copyFileForSymlink copies src to dst. A relative src resolves against the
// directory containing dst, matching how a relative symlink would resolve.
func copyFileForSymlink(src, dst string) error {
	resolvedSrc := src
	if !filepath.IsAbs(src) {
		resolvedSrc = filepath.Join(filepath.Dir(dst), src)
	}

	in, err := os.Open(resolvedSrc)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
