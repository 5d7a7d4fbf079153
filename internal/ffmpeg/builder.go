// Package ffmpeg builds and executes transcoder invocations with live
// progress reporting and deterministic teardown.
package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/mediabatch/convertron/internal/config"
	"github.com/mediabatch/convertron/internal/mediatype"
)

// Default canvas for conversions that synthesize their own video frame
// (subtitle rendering, plain-text rasterization).
const (
	subtitleCanvas = "1280x720"
	textCanvas     = "1240x1754" // A4 at 150 dpi
	// Rendered length when a subtitle file's own duration is unknown.
	defaultSubtitleSeconds = 60
)

// Request describes one transcoder invocation. FormatArgs comes from the
// format registry; the structural flags are derived here from the
// (source, target, page mode) triple.
type Request struct {
	InputPath  string
	OutputPath string // may embed the page placeholder for multi-output

	Source   mediatype.Category
	Target   mediatype.Category
	PageMode config.PageMode

	FormatArgs []string

	// TotalDuration is the probed source duration in seconds; 0 means
	// unknown and progress stays indeterminate.
	TotalDuration float64

	// SubtitleSeconds is the canvas length for subtitle-to-video
	// rendering; 0 selects the default.
	SubtitleSeconds float64

	// PlainText marks a text document rasterized directly via drawtext
	// instead of PDF staging.
	PlainText bool
}

// Build returns the full transcoder argument vector for req, with
// progress reporting directed at progressPath. The output is never
// overwritten (-n): the allocator guarantees the name was free, so an
// existing file means something else claimed it since allocation.
func Build(req *Request, progressPath string) []string {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-n"}

	switch {
	case req.PlainText:
		args = append(args,
			"-f", "lavfi", "-i", "color=c=white:s="+textCanvas+":d=1",
			"-vf", "drawtext=textfile="+filterEscape(req.InputPath)+":fontcolor=black:fontsize=28:x=40:y=40",
		)
	case req.Source == mediatype.Subtitle && req.Target == mediatype.Video:
		secs := req.SubtitleSeconds
		if secs <= 0 {
			secs = defaultSubtitleSeconds
		}
		args = append(args,
			"-f", "lavfi", "-i", fmt.Sprintf("color=c=black:s=%s:d=%.2f", subtitleCanvas, secs),
			"-vf", "subtitles="+filterEscape(req.InputPath),
		)
	default:
		args = append(args, "-i", req.InputPath)
	}

	args = append(args, req.FormatArgs...)
	args = append(args, structuralArgs(req)...)

	if progressPath != "" {
		args = append(args, "-progress", progressPath, "-nostats")
	}
	return append(args, req.OutputPath)
}

// structuralArgs returns the flags implied by the category pair and page
// mode rather than by the output format itself.
func structuralArgs(req *Request) []string {
	var args []string

	// Audio targets never carry the source's video streams (cover art,
	// or the video half of a video-to-audio extraction).
	if req.Target == mediatype.Audio {
		args = append(args, "-vn")
	}

	if req.Target == mediatype.Image {
		switch {
		case req.Source == mediatype.Image:
			// Image-to-image is always a single frame.
			args = append(args, "-frames:v", "1")
		case req.PageMode == config.PageSeparate:
			// Paginated output; the pattern in OutputPath does the rest.
		case req.PageMode == config.PageAnimated:
			// All pages flow into one animated output.
		default:
			args = append(args, "-frames:v", "1")
		}
	}

	return args
}

// filterEscape quotes a path for use inside an ffmpeg filter argument.
// Single quotes protect everything except single quotes themselves,
// which are escaped individually.
func filterEscape(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
