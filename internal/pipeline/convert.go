package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mediabatch/convertron/internal/config"
	"github.com/mediabatch/convertron/internal/display"
	"github.com/mediabatch/convertron/internal/ffmpeg"
	"github.com/mediabatch/convertron/internal/format"
	"github.com/mediabatch/convertron/internal/mediatype"
	"github.com/mediabatch/convertron/internal/naming"
)

// request is one unit of conversion work. Archive members re-enter the
// state machine with depth 1 and an output directory next to the archive;
// depth is never allowed past 1, which makes the "no nested-archive
// expansion" rule explicit.
type request struct {
	input  string
	outDir string // "" means alongside the input
	index  int    // 1-based batch position, shared by archive members
	total  int
	depth  int
}

// convert runs the per-request state machine:
// classify → validate → (expand archive →)* stage → transcode → finalize.
// Every failure is converted into an Outcome with a specific reason.
func (r *Runner) convert(ctx context.Context, req request) Outcome {
	name := filepath.Base(req.input)
	fail := func(reason string) Outcome {
		return Outcome{Input: req.input, Reason: reason}
	}

	if _, err := os.Stat(req.input); err != nil {
		return fail("file not found")
	}

	// --- Validating ---
	src := mediatype.Classify(ctx, r.prober, req.input)
	if src == mediatype.Invalid {
		return fail("not a convertible media file")
	}

	if src == mediatype.Archive {
		if req.depth > 0 {
			// Members are pre-filtered; this is a guard, not a path.
			return fail("nested archives are not expanded")
		}
		return r.convertArchive(ctx, req)
	}

	if ok, reason := format.Validate(src, r.spec.Category); !ok {
		return fail(reason)
	}

	multi := src == mediatype.Document &&
		r.spec.Category == mediatype.Image &&
		r.pageMode == config.PageSeparate

	outDir := req.outDir
	if outDir == "" {
		outDir = filepath.Dir(req.input)
	}
	outPath := r.alloc.AllocateIn(outDir, req.input, r.spec.Name, multi)

	if r.cfg.DryRun {
		r.log.Success("[DRY] Would convert %s (%s) -> %s", name, src, filepath.Base(outPath))
		return Outcome{Input: req.input, Succeeded: true, OutputPath: outPath}
	}

	// Document-to-document never touches the transcoder.
	if src == mediatype.Document && r.spec.Category == mediatype.Document {
		return r.convertDocument(ctx, req, outPath)
	}

	job := ffmpeg.Request{
		InputPath:  req.input,
		OutputPath: outPath,
		Source:     src,
		Target:     r.spec.Category,
		PageMode:   r.pageMode,
		FormatArgs: r.spec.TranscoderArgs,
	}

	// --- Staging (document-to-image only) ---
	if src == mediatype.Document {
		if strings.EqualFold(filepath.Ext(req.input), ".txt") {
			job.PlainText = true
		} else {
			stageDir := filepath.Join(r.scratch, "stage-"+uuid.NewString())
			if err := os.MkdirAll(stageDir, 0o755); err != nil {
				return fail("cannot create staging directory")
			}
			// Intermediates are removed on success and failure alike.
			defer os.RemoveAll(stageDir)

			r.report(req, -1, "preparing document")
			staged, err := r.docs.StagePDF(ctx, req.input, stageDir)
			if err != nil {
				r.rep.EndLine()
				return fail(err.Error())
			}
			job.InputPath = staged
		}
	}

	// --- Duration probe: percentage is only computed for media sources.
	switch src {
	case mediatype.Audio, mediatype.Video:
		if pr, err := r.prober.Probe(ctx, req.input); err == nil {
			job.TotalDuration = pr.Duration()
		}
	case mediatype.Subtitle:
		if r.spec.Category == mediatype.Video {
			if pr, err := r.prober.Probe(ctx, req.input); err == nil {
				job.SubtitleSeconds = pr.Duration()
			}
		}
	}

	// --- Converting + Monitoring ---
	r.report(req, ffmpeg.Percentage(0, job.TotalDuration), "converting")
	res := r.exec.Run(ctx, &job, func(p ffmpeg.Progress) {
		r.report(req, p.Percent, "converting")
	})
	r.rep.EndLine()

	// --- Finalizing ---
	first := outPath
	if multi {
		first = naming.MaterializePage(outPath, 1)
	}

	switch {
	case res.TimedOut:
		removeOutputs(outPath, multi)
		return fail(res.Err.Error())
	case res.Err != nil:
		removeOutputs(outPath, multi)
		if ctx.Err() != nil {
			return fail("canceled")
		}
		r.logStderrTail(res.Stderr)
		return fail("transcoder failed")
	}

	if !outputOK(first) {
		removeOutputs(outPath, multi)
		return fail("conversion produced no output")
	}
	return Outcome{Input: req.input, Succeeded: true, OutputPath: outPath}
}

// convertArchive expands an archive and re-enters the state machine once
// per extracted member. Converted members land next to the archive, not
// in the scratch directory, so they survive cleanup. The archive request
// succeeds only when every member succeeds.
func (r *Runner) convertArchive(ctx context.Context, req request) Outcome {
	name := filepath.Base(req.input)

	dir := filepath.Join(r.scratch, "archive-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Outcome{Input: req.input, Reason: "cannot create extraction directory"}
	}
	defer os.RemoveAll(dir)

	r.report(req, -1, "extracting")
	members, err := r.expander.Expand(ctx, req.input, dir)
	r.rep.EndLine()
	if err != nil {
		return Outcome{Input: req.input, Reason: err.Error()}
	}
	r.log.Info("%s: %d convertible member(s)", name, len(members))

	outDir := filepath.Dir(req.input)
	var failed []string
	for _, m := range members {
		if ctx.Err() != nil {
			failed = append(failed, filepath.Base(m))
			continue
		}
		mo := r.convert(ctx, request{
			input:  m,
			outDir: outDir,
			index:  req.index,
			total:  req.total,
			depth:  req.depth + 1,
		})
		if mo.Succeeded {
			r.log.Debug("%s: converted member %s", name, filepath.Base(m))
		} else {
			r.log.Warn("%s: member %s: %s", name, filepath.Base(m), mo.Reason)
			failed = append(failed, filepath.Base(m))
		}
	}

	if len(failed) > 0 {
		return Outcome{
			Input: req.input,
			Reason: fmt.Sprintf("%d of %d archive member(s) failed: %s",
				len(failed), len(members), strings.Join(failed, ", ")),
		}
	}
	return Outcome{Input: req.input, Succeeded: true, OutputPath: outDir}
}

// convertDocument handles document-to-document via the document converter
// alone: convert into a private staging directory, then move the result
// to the allocated path.
func (r *Runner) convertDocument(ctx context.Context, req request, outPath string) Outcome {
	fail := func(reason string) Outcome {
		return Outcome{Input: req.input, Reason: reason}
	}

	stageDir := filepath.Join(r.scratch, "stage-"+uuid.NewString())
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return fail("cannot create staging directory")
	}
	defer os.RemoveAll(stageDir)

	r.report(req, -1, "converting document")
	produced, err := r.docs.Convert(ctx, req.input, r.spec.TranscoderArgs[0], stageDir)
	r.rep.EndLine()
	if err != nil {
		return fail(err.Error())
	}

	if err := moveFile(produced, outPath); err != nil {
		return fail("cannot move converted document into place")
	}
	if !outputOK(outPath) {
		os.Remove(outPath)
		return fail("conversion produced no output")
	}
	return Outcome{Input: req.input, Succeeded: true, OutputPath: outPath}
}

func (r *Runner) report(req request, percent int, stage string) {
	r.rep.Progress(display.Update{
		Name:    filepath.Base(req.input),
		Index:   req.index,
		Total:   req.total,
		Percent: percent,
		Stage:   stage,
	})
}

func (r *Runner) logStderrTail(stderr string) {
	if stderr == "" || !r.cfg.Verbose {
		return
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 10 {
		start = len(lines) - 10
	}
	r.log.Debug("Last transcoder output:")
	for _, l := range lines[start:] {
		r.log.Debug("  %s", l)
	}
}
