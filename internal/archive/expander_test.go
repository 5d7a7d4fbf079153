package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mediabatch/convertron/internal/mediatype"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path   string
		want   Kind
		wantOK bool
	}{
		{"a.zip", KindZip, true},
		{"A.ZIP", KindZip, true},
		{"b.tar", KindTar, true},
		{"b.tar.gz", KindTarGz, true},
		{"b.TGZ", KindTarGz, true},
		{"b.tar.bz2", KindTarBz2, true},
		{"b.tbz2", KindTarBz2, true},
		{"c.rar", "", false},
		{"song.mp3", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := DetectKind(tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DetectKind(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// classifyByExt is a classifier fake keyed on extension, so tests do not
// need a probe subprocess.
func classifyByExt(_ context.Context, path string) mediatype.Category {
	switch filepath.Ext(path) {
	case ".mp3", ".wav":
		return mediatype.Audio
	case ".zip":
		return mediatype.Archive
	default:
		return mediatype.Invalid
	}
}

// fakeExtract simulates extraction by writing the given member names into
// the destination directory (the final -C/-d argument).
func fakeExtract(t *testing.T, names ...string) CommandRunner {
	t.Helper()
	return func(_ context.Context, _ string, args ...string) error {
		dest := args[len(args)-1]
		for _, n := range names {
			p := filepath.Join(dest, n)
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestExpand_FiltersMembers(t *testing.T) {
	scratch := t.TempDir()
	e := &Expander{
		Classify: classifyByExt,
		Run:      fakeExtract(t, "song.mp3", "readme.txt.bak", "inner/voice.wav", "nested.zip"),
	}

	members, err := e.Expand(context.Background(), "/in/bundle.zip", scratch)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %v, want 2 entries", members)
	}
	// Sorted, and only the audio members survive; the nested archive and
	// the unclassifiable file are dropped.
	if filepath.Base(members[0]) != "voice.wav" || filepath.Base(members[1]) != "song.mp3" {
		t.Errorf("members = %v", members)
	}
}

func TestExpand_NoConvertibleMembers(t *testing.T) {
	scratch := t.TempDir()
	e := &Expander{
		Classify: classifyByExt,
		Run:      fakeExtract(t, "notes.bak", "nested.zip"),
	}

	_, err := e.Expand(context.Background(), "/in/junk.tar.gz", scratch)
	if !errors.Is(err, ErrNoConvertibleMembers) {
		t.Fatalf("err = %v, want ErrNoConvertibleMembers", err)
	}
	if !strings.Contains(err.Error(), "junk.tar.gz") {
		t.Errorf("error does not name the archive: %v", err)
	}
}

func TestExpand_ExtractionFailure(t *testing.T) {
	scratch := t.TempDir()
	e := &Expander{
		Classify: classifyByExt,
		Run: func(context.Context, string, ...string) error {
			return errors.New("exit status 2")
		},
	}

	_, err := e.Expand(context.Background(), "/in/broken.zip", scratch)
	var xe *ExtractError
	if !errors.As(err, &xe) {
		t.Fatalf("err = %T, want *ExtractError", err)
	}
	if xe.Kind != KindZip {
		t.Errorf("Kind = %q", xe.Kind)
	}
	if !strings.Contains(err.Error(), "broken.zip") {
		t.Errorf("error does not name the archive: %v", err)
	}
}

func TestExpand_UnrecognizedType(t *testing.T) {
	e := &Expander{Classify: classifyByExt, Run: fakeExtract(t)}
	_, err := e.Expand(context.Background(), "/in/file.rar", t.TempDir())
	var xe *ExtractError
	if !errors.As(err, &xe) {
		t.Fatalf("err = %T, want *ExtractError", err)
	}
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		kind     Kind
		wantName string
		wantFlag string
	}{
		{KindZip, "unzip", "-o"},
		{KindTar, "tar", "-xf"},
		{KindTarGz, "tar", "-xzf"},
		{KindTarBz2, "tar", "-xjf"},
	}
	for _, tt := range tests {
		name, args := extractCommand(tt.kind, "/a/x", "/dest")
		if name != tt.wantName || args[0] != tt.wantFlag {
			t.Errorf("extractCommand(%s) = %s %v", tt.kind, name, args)
		}
		if args[len(args)-1] != "/dest" {
			t.Errorf("extractCommand(%s): destination not last arg: %v", tt.kind, args)
		}
	}
}
