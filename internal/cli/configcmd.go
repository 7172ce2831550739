package cli

import (
	"fmt"

	"github.com/johncolby/DTI-Preprocessing/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Show and validate dtilists settings. Settings come from
<exptDir>/PIPELINE/dtilists.yaml or ~/.dtilists/config.yaml, overridden by
DTILISTS_* environment variables.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [exptDir]",
		Short: "Print the resolved settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exptDir := ""
			if len(args) == 1 {
				exptDir = args[0]
			}
			cfg, err := config.Load(g.configFile, exptDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			file := cfg.File
			if file == "" {
				file = "(none)"
			}
			fmt.Fprintf(out, "config file:      %s\n", file)
			fmt.Fprintf(out, "subjects_dir:     %s\n", cfg.Layout.Subjects)
			fmt.Fprintf(out, "pipeline_dir:     %s\n", cfg.Layout.Pipeline)
			fmt.Fprintf(out, "grad_dir:         %s\n", cfg.Layout.Grad)
			fmt.Fprintf(out, "raw_dir:          %s\n", cfg.Layout.Raw)
			fmt.Fprintf(out, "scan_ext:         %s\n", cfg.Layout.ScanExt)
			if cfg.RequiredVersion != "" {
				fmt.Fprintf(out, "required_version: %s\n", cfg.RequiredVersion)
			}
			if cfg.Log.File != "" {
				fmt.Fprintf(out, "log.file:         %s\n", cfg.Log.File)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a config file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := config.ValidateFile(args[0])
			if err != nil {
				return err
			}
			if !result.Valid {
				return &config.InvalidError{Path: args[0], Issues: result.Issues}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		},
	})

	return cmd
}
