// Package format defines the output-format registry and the category
// compatibility rules that gate every conversion.
package format

import (
	"sort"
	"strings"

	"github.com/mediabatch/convertron/internal/mediatype"
)

// Spec describes one supported output format. TranscoderArgs is the codec
// argument template handed to the transcoder; for document formats it is
// the document converter's target token instead, and for subtitle formats
// it may be empty (the transcoder infers the codec from the extension).
type Spec struct {
	Name           string
	Category       mediatype.Category
	TranscoderArgs []string
}

// Registry maps output-format identifiers to their Spec. It is built once
// at startup by NewRegistry and read-only thereafter; every consumer
// receives it explicitly rather than reading shared tables.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry returns the registry of all supported output formats.
func NewRegistry() *Registry {
	specs := map[string]Spec{
		// Audio
		"mp3":  {Category: mediatype.Audio, TranscoderArgs: []string{"-c:a", "libmp3lame", "-q:a", "2"}},
		"wav":  {Category: mediatype.Audio, TranscoderArgs: []string{"-c:a", "pcm_s16le"}},
		"flac": {Category: mediatype.Audio, TranscoderArgs: []string{"-c:a", "flac"}},
		"ogg":  {Category: mediatype.Audio, TranscoderArgs: []string{"-c:a", "libvorbis", "-q:a", "5"}},
		"m4a":  {Category: mediatype.Audio, TranscoderArgs: []string{"-c:a", "aac", "-b:a", "192k"}},
		"opus": {Category: mediatype.Audio, TranscoderArgs: []string{"-c:a", "libopus", "-b:a", "128k"}},

		// Video
		"mp4":  {Category: mediatype.Video, TranscoderArgs: []string{"-c:v", "libx264", "-preset", "medium", "-crf", "23", "-c:a", "aac", "-b:a", "192k"}},
		"mkv":  {Category: mediatype.Video, TranscoderArgs: []string{"-c:v", "libx264", "-preset", "medium", "-crf", "23", "-c:a", "aac", "-b:a", "192k"}},
		"webm": {Category: mediatype.Video, TranscoderArgs: []string{"-c:v", "libvpx-vp9", "-crf", "31", "-b:v", "0", "-c:a", "libopus"}},
		"avi":  {Category: mediatype.Video, TranscoderArgs: []string{"-c:v", "mpeg4", "-q:v", "5", "-c:a", "libmp3lame", "-q:a", "4"}},

		// Image
		"jpg":  {Category: mediatype.Image, TranscoderArgs: []string{"-c:v", "mjpeg", "-q:v", "2"}},
		"png":  {Category: mediatype.Image, TranscoderArgs: []string{"-c:v", "png"}},
		"webp": {Category: mediatype.Image, TranscoderArgs: []string{"-c:v", "libwebp", "-quality", "90"}},
		"gif":  {Category: mediatype.Image, TranscoderArgs: []string{"-c:v", "gif"}},
		"bmp":  {Category: mediatype.Image, TranscoderArgs: []string{"-c:v", "bmp"}},
		"tiff": {Category: mediatype.Image, TranscoderArgs: []string{"-c:v", "tiff"}},

		// Document (args are the document converter's --convert-to target)
		"pdf":  {Category: mediatype.Document, TranscoderArgs: []string{"pdf"}},
		"docx": {Category: mediatype.Document, TranscoderArgs: []string{"docx"}},
		"odt":  {Category: mediatype.Document, TranscoderArgs: []string{"odt"}},
		"txt":  {Category: mediatype.Document, TranscoderArgs: []string{"txt:Text"}},

		// Subtitle (empty template: codec follows from the extension)
		"srt": {Category: mediatype.Subtitle},
		"ass": {Category: mediatype.Subtitle},
		"vtt": {Category: mediatype.Subtitle},
	}
	for name, s := range specs {
		s.Name = name
		specs[name] = s
	}
	return &Registry{specs: specs}
}

// Lookup resolves an output-format identifier, case-insensitively.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[strings.ToLower(strings.TrimPrefix(name, "."))]
	return s, ok
}

// Names returns all supported format identifiers, sorted, for usage text.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
