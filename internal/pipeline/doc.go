// Package pipeline prepares an experiment for the DTI preprocessing workflow.
//
// Run walks the subjects one at a time. A subject with fewer raw scans than
// requested is skipped untouched. An eligible subject always gets its analysis
// folders; if tensor outputs already exist it is left out of the lists,
// otherwise it gets one row in every list file and links to the shared
// gradient tables in its track folder.
package pipeline
