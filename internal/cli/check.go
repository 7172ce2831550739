package cli

import (
	"fmt"

	"github.com/johncolby/DTI-Preprocessing/internal/layout"
	"github.com/spf13/cobra"
)

func newCheckCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <exptDir> <nScans>",
		Short: "Check an experiment directory before generating lists",
		Long: `Report whether <exptDir> has the SUBJECTS and PIPELINE folders and the
gradient tables (PIPELINE/grad/bvecs<nScans>, bvals<nScans>) a run needs.
Nothing is created or modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nScans, err := parseNScans(args[1])
			if err != nil {
				return err
			}

			cfg, log, err := setup(cmd, g, args[0])
			if err != nil {
				return err
			}
			defer log.Close()

			expt, err := layout.NewExperiment(args[0], cfg.Layout)
			if err != nil {
				return err
			}

			res := layout.Check(cmd.OutOrStdout(), expt, nScans)
			if !res.OK() {
				return fmt.Errorf("%d required entries missing in %s", res.Missing, expt.Root)
			}
			return nil
		},
	}
}
