// Package layout describes the on-disk shape of an experiment directory: where
// subjects, raw scans, pipeline lists, and gradient tables live, and which
// analysis folders each subject gets. It also creates the per-subject analysis
// skeleton and reports on the health of an experiment tree.
package layout
