// Package cli defines the Cobra command tree for dtilists. The root command
// generates the pipeline lists; subcommands inspect an experiment and the
// resolved configuration. Commands only parse arguments and format output;
// the work happens in internal/pipeline, internal/layout and internal/config.
package cli
