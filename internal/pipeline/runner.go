// Package pipeline orchestrates batch media conversion: per-file
// classification, validation, dispatch to the external converters, and
// summary reporting.
package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/mediabatch/convertron/internal/archive"
	"github.com/mediabatch/convertron/internal/config"
	"github.com/mediabatch/convertron/internal/display"
	"github.com/mediabatch/convertron/internal/docconv"
	"github.com/mediabatch/convertron/internal/ffmpeg"
	"github.com/mediabatch/convertron/internal/format"
	"github.com/mediabatch/convertron/internal/logging"
	"github.com/mediabatch/convertron/internal/mediatype"
	"github.com/mediabatch/convertron/internal/naming"
	"github.com/mediabatch/convertron/internal/probe"
)

// Runner drives one batch run. It owns the run-scoped resources: the
// scratch directory, the path allocator, and the resolved page mode.
type Runner struct {
	cfg  *config.Config
	spec format.Spec
	log  *logging.Logger
	rep  display.Reporter

	prober   mediatype.Prober
	exec     *ffmpeg.Executor
	docs     *docconv.Converter
	alloc    *naming.Allocator
	expander *archive.Expander

	scratch  string
	pageMode config.PageMode
}

// New wires a Runner for the given configuration and target format spec.
// The format identifier must already be validated against the registry;
// an unknown format is a usage error handled before the batch starts.
func New(cfg *config.Config, spec format.Spec, log *logging.Logger, rep display.Reporter) *Runner {
	r := &Runner{
		cfg:    cfg,
		spec:   spec,
		log:    log,
		rep:    rep,
		prober: &probe.Prober{Bin: cfg.ProberBin},
		alloc:  naming.NewAllocator(),
	}
	r.exec = &ffmpeg.Executor{
		Bin:          cfg.TranscoderBin,
		Timeout:      cfg.Timeout,
		PollInterval: cfg.PollEvery,
	}
	r.docs = docconv.New()
	r.docs.Bin = cfg.DocConvBin
	r.docs.FallbackBin = cfg.DocConvFallback
	r.expander = archive.NewExpander(func(ctx context.Context, path string) mediatype.Category {
		return mediatype.Classify(ctx, r.prober, path)
	})
	return r
}

// Run is the top-level batch entry point: decide the page mode once,
// process every input (sequentially, or through a bounded worker pool
// when Jobs > 1), and aggregate the summary. The run's scratch directory
// is removed on every exit path.
func (r *Runner) Run(ctx context.Context) Summary {
	summary := Summary{Total: len(r.cfg.Inputs)}

	scratch, err := os.MkdirTemp("", "convertron-")
	if err != nil {
		r.log.Error("Cannot create scratch directory: %v", err)
		for _, in := range r.cfg.Inputs {
			summary.Failed = append(summary.Failed, filepath.Base(in))
		}
		return summary
	}
	r.scratch = scratch
	r.exec.WorkDir = scratch
	defer func() {
		if r.cfg.KeepScratch {
			r.log.Info("Scratch directory kept: %s", scratch)
			return
		}
		os.RemoveAll(scratch)
	}()

	r.pageMode = r.decidePageMode()
	r.logBatchHeader()

	outcomes := make([]Outcome, len(r.cfg.Inputs))
	if r.cfg.Jobs > 1 {
		r.runParallel(ctx, outcomes)
	} else {
		r.runSequential(ctx, outcomes)
	}

	for _, o := range outcomes {
		r.aggregate(&summary, o)
	}
	r.logSummary(&summary)
	return summary
}

func (r *Runner) runSequential(ctx context.Context, outcomes []Outcome) {
	for i, path := range r.cfg.Inputs {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			for j := i; j < len(r.cfg.Inputs); j++ {
				outcomes[j] = Outcome{Input: r.cfg.Inputs[j], Reason: "interrupted before processing"}
			}
			return
		}
		req := request{input: path, index: i + 1, total: len(r.cfg.Inputs)}
		r.log.Info("[%d/%d] %s", req.index, req.total, filepath.Base(path))
		outcomes[i] = r.convert(ctx, req)
		r.logOutcome(outcomes[i])
	}
}

// runParallel processes inputs through a bounded worker pool. The
// allocator serializes path allocation internally, progress updates carry
// the file's batch position, and batch cancellation reaches every worker
// through ctx (each executor kills its own process group).
func (r *Runner) runParallel(ctx context.Context, outcomes []Outcome) {
	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Jobs)

	for i, path := range r.cfg.Inputs {
		req := request{input: path, index: i + 1, total: len(r.cfg.Inputs)}
		g.Go(func() error {
			if ctx.Err() != nil {
				outcomes[req.index-1] = Outcome{Input: req.input, Reason: "interrupted before processing"}
				return nil
			}
			o := r.convert(ctx, req)
			r.logOutcome(o)
			outcomes[req.index-1] = o
			return nil
		})
	}
	_ = g.Wait()
}

// decidePageMode resolves the page-handling mode once for the whole
// batch. The question is only asked when it matters: an image target with
// at least one document input. A frontend that cannot answer defaults to
// single-page, so the batch never stalls.
func (r *Runner) decidePageMode() config.PageMode {
	if r.cfg.PageMode != config.PageAuto {
		return r.cfg.PageMode
	}
	if r.spec.Category != mediatype.Image {
		return config.PageSingle
	}
	for _, in := range r.cfg.Inputs {
		if mediatype.IsDocumentPath(in) {
			return r.rep.PromptPageMode()
		}
	}
	return config.PageSingle
}

func (r *Runner) aggregate(summary *Summary, o Outcome) {
	if o.Succeeded {
		summary.Succeeded++
		if fi, err := os.Stat(o.Input); err == nil {
			summary.InputBytes += fi.Size()
		}
		out := o.OutputPath
		if naming.IsPattern(out) {
			out = naming.MaterializePage(out, 1)
		}
		// Archive outcomes carry the output directory, not a file.
		if fi, err := os.Stat(out); err == nil && fi.Mode().IsRegular() {
			summary.OutputBytes += fi.Size()
		}
		return
	}
	summary.Failed = append(summary.Failed, filepath.Base(o.Input))
}

// --- Logging helpers ---

func (r *Runner) logOutcome(o Outcome) {
	name := filepath.Base(o.Input)
	switch {
	case o.Succeeded && r.cfg.DryRun:
		// convert already logged the [DRY] line
	case o.Succeeded && o.OutputPath != "":
		r.log.Success("%s -> %s", name, filepath.Base(o.OutputPath))
	case o.Succeeded:
		r.log.Success("%s converted", name)
	default:
		r.log.Error("%s: %s", name, o.Reason)
	}
}

func (r *Runner) logBatchHeader() {
	r.log.Info("Found %d files", len(r.cfg.Inputs))
	r.log.Info("Target: %s (%s)", r.spec.Name, r.spec.Category)
	if r.spec.Category == mediatype.Image {
		r.log.Info("Page mode: %s", r.pageMode)
	}
	if r.cfg.Jobs > 1 {
		r.log.Info("Jobs: %d parallel conversions", r.cfg.Jobs)
	}
	if r.cfg.Timeout > 0 {
		r.log.Info("Per-file timeout: %s", r.cfg.Timeout)
	}
	if r.cfg.DryRun {
		r.log.Warn("DRY RUN: no files will be written")
	}
}

func (r *Runner) logSummary(s *Summary) {
	r.log.Info("==============================")
	r.log.Info("Done: %d of %d converted, %d failed", s.Succeeded, s.Total, len(s.Failed))
	if len(s.Failed) > 0 {
		for _, name := range s.Failed {
			r.log.Error("  failed: %s", name)
		}
	}
	if r.cfg.DryRun || s.Succeeded == 0 {
		return
	}
	r.log.Info("  Input %s -> output %s",
		display.FormatBytes(s.InputBytes), display.FormatBytes(s.OutputBytes))
}
