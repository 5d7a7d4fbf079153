package mediatype

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mediabatch/convertron/internal/probe"
)

// fakeProber serves canned probe results keyed by basename.
type fakeProber struct {
	res map[string]*probe.Result
}

func (f *fakeProber) Probe(_ context.Context, path string) (*probe.Result, error) {
	r, ok := f.res[filepath.Base(path)]
	if !ok {
		return nil, errors.New("probe failed")
	}
	return r, nil
}

func TestClassifyExtension(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Category
	}{
		{"pdf document", "/x/report.pdf", Document},
		{"docx document", "notes.DOCX", Document},
		{"plain text", "readme.txt", Document},
		{"srt subtitle", "movie.srt", Subtitle},
		{"vtt subtitle", "talk.vtt", Subtitle},
		{"zip archive", "photos.zip", Archive},
		{"uppercase zip", "PHOTOS.ZIP", Archive},
		{"plain tar", "backup.tar", Archive},
		{"compound tar.gz", "backup.tar.gz", Archive},
		{"compound tar.bz2", "backup.tar.bz2", Archive},
		{"short tgz", "backup.tgz", Archive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyExtension(tt.path)
			if !ok || got != tt.want {
				t.Errorf("ClassifyExtension(%q) = %v, %v; want %v, true", tt.path, got, ok, tt.want)
			}
		})
	}
}

func TestClassifyExtension_NeedsProbe(t *testing.T) {
	for _, path := range []string{"song.mp3", "movie.mkv", "photo.jpg", "unknown.bin"} {
		if _, ok := ClassifyExtension(path); ok {
			t.Errorf("ClassifyExtension(%q) decided without a probe", path)
		}
	}
}

func TestClassify_Probed(t *testing.T) {
	p := &fakeProber{res: map[string]*probe.Result{
		"song.mp3": {
			AudioStreams: []probe.AudioStream{{Codec: "mp3"}},
		},
		"cover-art.mp3": {
			AudioStreams: []probe.AudioStream{{Codec: "mp3"}},
			VideoStreams: []probe.VideoStream{{Codec: "mjpeg", IsAttachedPic: true}},
		},
		"movie.mkv": {
			VideoStreams: []probe.VideoStream{{Codec: "h264"}},
			AudioStreams: []probe.AudioStream{{Codec: "aac"}},
		},
		"photo.jpg": {
			VideoStreams: []probe.VideoStream{{Codec: "mjpeg"}},
		},
		"anim.webp": {
			VideoStreams: []probe.VideoStream{{Codec: "webp"}},
		},
		"silent.mkv": {
			VideoStreams: []probe.VideoStream{{Codec: "h264"}},
		},
		"empty.bin": {},
	}}

	tests := []struct {
		path string
		want Category
	}{
		{"song.mp3", Audio},
		{"cover-art.mp3", Audio}, // attached pic must not make it a video
		{"movie.mkv", Video},
		{"photo.jpg", Image},
		{"anim.webp", Image},
		{"silent.mkv", Video},
		{"empty.bin", Invalid},
		{"missing.bin", Invalid}, // probe error is a classification, not a fault
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := Classify(context.Background(), p, tt.path)
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{Audio, "audio"},
		{Video, "video"},
		{Image, "image"},
		{Document, "document"},
		{Subtitle, "subtitle"},
		{Archive, "archive"},
		{Invalid, "invalid"},
		{Category(99), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestIsDocumentPath(t *testing.T) {
	if !IsDocumentPath("/a/b/report.PDF") {
		t.Error("report.PDF should be a document path")
	}
	if IsDocumentPath("/a/b/song.mp3") {
		t.Error("song.mp3 should not be a document path")
	}
}
