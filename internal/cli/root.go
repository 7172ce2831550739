package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/johncolby/DTI-Preprocessing/internal/branding"
	"github.com/johncolby/DTI-Preprocessing/internal/config"
	"github.com/johncolby/DTI-Preprocessing/internal/logging"
	"github.com/johncolby/DTI-Preprocessing/internal/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	verbose    bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	var subjects []string

	cmd := &cobra.Command{
		Use:   branding.CLIName() + " <exptDir> <outName> <nScans> <idStr> [-s SUBID...]",
		Short: branding.Description(),
		Long: branding.DisplayName() + ` checks, for a given experiment directory, how many DTI scan repetitions each
subject has and writes the input lists for the DTI preprocessing workflow into
<exptDir>/PIPELINE.

Subjects with at least <nScans> raw scans matching *<idStr>*.nii.gz get the
folders <outName>/{dtifit,track,diffusion_toolkit}. Subjects that already have
dti* outputs in dtifit/ or diffusion_toolkit/ are left out of the lists.`,
		Example: `  ` + branding.CLIName() + ` /path/to/exptDir 2avg 2 30DIR
  ` + branding.CLIName() + ` /path/to/exptDir 2avg 2 30DIR -s s01 s02 s07`,
		Args:          cobra.MinimumNArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := splitSubjects(subjects)
			if len(args) > 4 {
				// -s takes one or more IDs: "-s A B C" leaves B and C as positionals.
				if !cmd.Flags().Changed("subjects") {
					return fmt.Errorf("unexpected arguments %v (use -s to list subjects)", args[4:])
				}
				ids = append(ids, args[4:]...)
			}
			return runGenerate(cmd, g, args[:4], ids)
		},
	}

	cmd.PersistentFlags().StringVar(&g.configFile, "config", "", "Config file (default <exptDir>/PIPELINE/dtilists.yaml, then ~/"+branding.HomeDir()+"/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log details to stderr")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Also write logs to this file (rotated)")
	cmd.Flags().StringArrayVarP(&subjects, "subjects", "s", nil, "Subset of subject IDs in <exptDir>/SUBJECTS to process, in this order (default all, sorted)")

	cmd.AddCommand(newCheckCmd(g))
	cmd.AddCommand(newConfigCmd(g))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// splitSubjects expands comma separated -s values. IDs are otherwise taken
// literally; quotes have no meaning.
func splitSubjects(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func parseNScans(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("nScans must be an integer, got %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("nScans must be at least 1, got %d", n)
	}
	return n, nil
}

// setup loads config for exptDir, applies the version gate and builds the logger.
func setup(cmd *cobra.Command, g *globalOptions, exptDir string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load(g.configFile, exptDir)
	if err != nil {
		return nil, nil, err
	}
	if err := config.CheckVersion(cfg.RequiredVersion, buildVersion); err != nil {
		return nil, nil, err
	}

	logFile := cfg.Log.File
	if g.logFile != "" {
		logFile = g.logFile
	}
	log, err := logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:      cfg.Log.Level,
		Verbose:    g.verbose,
		File:       logFile,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.File != "" {
		log.WithField("file", cfg.File).Debug("loaded config")
	}
	return cfg, log, nil
}

func runGenerate(cmd *cobra.Command, g *globalOptions, args []string, subjects []string) error {
	nScans, err := parseNScans(args[2])
	if err != nil {
		return err
	}

	cfg, log, err := setup(cmd, g, args[0])
	if err != nil {
		return err
	}
	defer log.Close()

	rep, err := pipeline.Run(pipeline.Config{
		ExptDir:  args[0],
		OutName:  args[1],
		NScans:   nScans,
		IDStr:    args[3],
		Subjects: subjects,
		Layout:   cfg.Layout,
	}, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.ErrOrStderr(), "%d subjects: %d queued, %d already processed, %d without enough scans\n",
		len(rep.Subjects),
		rep.Rows,
		rep.Count(pipeline.AlreadyProcessed),
		rep.Count(pipeline.InsufficientScans))
	return nil
}
