package pipeline

import (
	"fmt"
	"io"

	"github.com/johncolby/DTI-Preprocessing/internal/layout"
	"github.com/johncolby/DTI-Preprocessing/internal/manifest"
	"github.com/johncolby/DTI-Preprocessing/internal/platform"
	"github.com/johncolby/DTI-Preprocessing/internal/scan"
	"github.com/sirupsen/logrus"
)

// Run processes every subject and writes the list files. A status line per
// subject goes to out as soon as that subject is done. Filesystem failures
// other than link creation stop the run; lists already written are left as
// they are.
func Run(cfg Config, out io.Writer, log logrus.FieldLogger) (rep *Report, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	expt, err := layout.NewExperiment(cfg.ExptDir, cfg.Layout)
	if err != nil {
		return nil, err
	}

	subjects := cfg.Subjects
	if len(subjects) == 0 {
		subjects, err = scan.ListSubjects(expt)
		if err != nil {
			return nil, err
		}
	}
	log.WithFields(logrus.Fields{
		"experiment": expt.Root,
		"subjects":   len(subjects),
		"nScans":     cfg.NScans,
		"idStr":      cfg.IDStr,
	}).Debug("starting run")

	lists, err := manifest.Create(expt.PipelineRoot())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := lists.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	p := &processor{
		cfg:   cfg,
		expt:  expt,
		lists: lists,
		bvecs: expt.BvecsPath(cfg.NScans),
		bvals: expt.BvalsPath(cfg.NScans),
		log:   log,
	}

	rep = &Report{ListDir: lists.Dir()}
	for _, id := range subjects {
		res, err := p.subject(id)
		if err != nil {
			return rep, fmt.Errorf("processing subject %s: %w", id, err)
		}
		rep.Subjects = append(rep.Subjects, res)
		rep.Rows = lists.Rows()
		fmt.Fprintln(out, res.StatusLine())
	}
	return rep, nil
}

type processor struct {
	cfg   Config
	expt  *layout.Experiment
	lists *manifest.Set
	bvecs string
	bvals string
	log   logrus.FieldLogger
}

func (p *processor) subject(id string) (SubjectResult, error) {
	res := SubjectResult{ID: id}
	log := p.log.WithField("subject", id)

	found, err := scan.FindRaw(p.expt, id, p.cfg.IDStr)
	if err != nil {
		return res, err
	}
	res.Found = len(found)

	scans, ok := found.Select(p.cfg.NScans)
	if !ok {
		log.WithField("found", len(found)).Debug("not enough raw scans")
		res.Outcome = InsufficientScans
		return res, nil
	}

	analysis := p.expt.Analysis(id, p.cfg.OutName)
	if err := layout.EnsureAnalysisLayout(analysis.Dir); err != nil {
		return res, err
	}
	log.WithField("dir", analysis.Dir).Debug("analysis layout ready")

	done, err := analysis.HasTensorOutputs()
	if err != nil {
		return res, err
	}
	if done {
		log.Debug("tensor outputs present, leaving subject out of lists")
		res.Outcome = AlreadyProcessed
		return res, nil
	}

	row := manifest.Row{
		Scans:    scans,
		Analysis: analysis,
		Bvecs:    p.bvecs,
		Bvals:    p.bvals,
	}
	if err := p.lists.Write(row); err != nil {
		return res, err
	}
	res.Outcome = Emitted
	res.Scans = scans
	log.WithField("scans", scans).Debug("queued")

	// bvals first, then bvecs; each attempted regardless of the other.
	for _, l := range [][2]string{
		{p.bvals, analysis.BvalsLink()},
		{p.bvecs, analysis.BvecsLink()},
	} {
		lr := platform.CreateSymlink(l[0], l[1])
		if lr.OK() {
			log.WithField("link", lr.Link).Debug("linked gradient table")
		} else {
			log.WithError(lr.Err).WithField("status", lr.Status).Info("gradient table link not created")
		}
		res.Links = append(res.Links, lr)
	}
	return res, nil
}
