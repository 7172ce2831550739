// Package platform provides the filesystem operations whose failure modes the
// rest of the tool needs to inspect rather than abort on. Symlink creation
// reports an outcome value instead of an error so callers can keep going when
// a link is already in place. On Windows without developer mode, links fall
// back to file copies.
package platform
