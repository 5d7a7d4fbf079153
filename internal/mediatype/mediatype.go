// Package mediatype defines the media category enum and the file
// classifier: extension sets first, ffprobe stream inspection second.
package mediatype

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/mediabatch/convertron/internal/probe"
)

// Category is the media category a file classifies into. It is derived
// from file contents/extension per file and never persisted.
type Category int

const (
	Invalid Category = iota
	Audio
	Video
	Image
	Document
	Subtitle
	Archive
)

// String returns the lowercase category name used in log and error text.
func (c Category) String() string {
	switch c {
	case Audio:
		return "audio"
	case Video:
		return "video"
	case Image:
		return "image"
	case Document:
		return "document"
	case Subtitle:
		return "subtitle"
	case Archive:
		return "archive"
	default:
		return "invalid"
	}
}

// Extension sets checked before any subprocess is spawned. Lowercase,
// with leading dot.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".odt":  true,
	".ods":  true,
	".odp":  true,
	".ppt":  true,
	".pptx": true,
	".xls":  true,
	".xlsx": true,
	".rtf":  true,
	".txt":  true,
}

var subtitleExtensions = map[string]bool{
	".srt": true,
	".ass": true,
	".ssa": true,
	".sub": true,
	".vtt": true,
}

// Archive suffixes are matched by suffix, not single-component extension,
// so compound forms like .tar.gz are recognized. Compound entries come
// first so ".tar.gz" wins over ".gz"-style partial matches elsewhere.
var archiveSuffixes = []string{
	".tar.gz",
	".tar.bz2",
	".tgz",
	".tbz2",
	".zip",
	".tar",
}

// Video codecs that denote a still image when they are the only stream
// content (ffprobe reports images as single video-codec streams).
var stillImageCodecs = map[string]bool{
	"mjpeg": true,
	"png":   true,
	"webp":  true,
	"gif":   true,
	"tiff":  true,
	"bmp":   true,
	"ico":   true,
}

// Prober is the metadata probe consulted when no extension set matches.
// *probe.Prober satisfies it; tests substitute fakes.
type Prober interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
}

// Classify determines the media category of the file at path.
//
// Extension sets decide Document, Subtitle, and Archive without touching
// the file. Everything else is probed: a file whose only real streams are
// still-image video codecs is an Image, any other video stream makes it a
// Video, audio-only makes it an Audio. A probe error or timeout yields
// Invalid: "cannot convert" is a classification, not a system fault.
func Classify(ctx context.Context, p Prober, path string) Category {
	if c, ok := ClassifyExtension(path); ok {
		return c
	}

	res, err := p.Probe(ctx, path)
	if err != nil {
		return Invalid
	}

	video := res.RealVideoStreams()
	switch {
	case len(video) > 0 && !res.HasAudio() && allStillImage(video):
		return Image
	case len(video) > 0:
		return Video
	case res.HasAudio():
		return Audio
	default:
		return Invalid
	}
}

// ClassifyExtension resolves the categories decided purely by filename:
// Document, Subtitle, and Archive. ok is false when the file needs a
// metadata probe.
func ClassifyExtension(path string) (Category, bool) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case documentExtensions[filepath.Ext(name)]:
		return Document, true
	case subtitleExtensions[filepath.Ext(name)]:
		return Subtitle, true
	}
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(name, s) {
			return Archive, true
		}
	}
	return Invalid, false
}

// IsDocumentPath reports whether path carries a document extension. Used
// by the orchestrator to detect document-to-image batches up front
// without probing every input.
func IsDocumentPath(path string) bool {
	return documentExtensions[filepath.Ext(strings.ToLower(path))]
}

func allStillImage(streams []probe.VideoStream) bool {
	for _, v := range streams {
		if !stillImageCodecs[v.Codec] {
			return false
		}
	}
	return true
}
