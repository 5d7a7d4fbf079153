package naming

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAllocate_Fresh(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()

	got := a.Allocate(filepath.Join(dir, "song.wav"), "mp3", false)
	want := filepath.Join(dir, "song_converted.mp3")
	if got != want {
		t.Errorf("Allocate = %q, want %q", got, want)
	}
}

// Re-allocating for the same input without creating the file must return
// the same path, not burn a counter.
func TestAllocate_Idempotent(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()
	input := filepath.Join(dir, "song.wav")

	first := a.Allocate(input, "mp3", false)
	second := a.Allocate(input, "mp3", false)
	if first != second {
		t.Errorf("repeat allocation changed: %q then %q", first, second)
	}
}

func TestAllocate_CounterSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()
	input := filepath.Join(dir, "song.wav")

	touch(t, filepath.Join(dir, "song_converted.mp3"))
	touch(t, filepath.Join(dir, "song_converted_1.mp3"))

	got := a.Allocate(input, "mp3", false)
	want := filepath.Join(dir, "song_converted_2.mp3")
	if got != want {
		t.Errorf("Allocate = %q, want %q", got, want)
	}
}

// A candidate that exists but cannot be statted (here a symlink loop, so
// the check works regardless of privileges) must count as taken, not
// free.
func TestAllocate_UnstatableNameIsTaken(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()

	loop := filepath.Join(dir, "song_converted.mp3")
	if err := os.Symlink(loop, loop); err != nil {
		t.Fatal(err)
	}

	got := a.Allocate(filepath.Join(dir, "song.wav"), "mp3", false)
	if want := filepath.Join(dir, "song_converted_1.mp3"); got != want {
		t.Errorf("Allocate = %q, want %q", got, want)
	}
}

// Two different inputs with the same stem must get distinct outputs even
// though neither exists on disk yet.
func TestAllocate_DistinctInputsSameStem(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()

	first := a.Allocate(filepath.Join(dir, "song.wav"), "mp3", false)
	second := a.Allocate(filepath.Join(dir, "song.flac"), "mp3", false)
	if first == second {
		t.Errorf("both inputs allocated %q", first)
	}
	if want := filepath.Join(dir, "song_converted_1.mp3"); second != want {
		t.Errorf("second allocation = %q, want %q", second, want)
	}
}

func TestAllocateIn_OtherDirectory(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	a := NewAllocator()

	got := a.AllocateIn(out, filepath.Join(dir, "scan.pdf"), "pdf", false)
	if filepath.Dir(got) != out {
		t.Errorf("AllocateIn placed %q outside %q", got, out)
	}
}

func TestAllocate_MultiPattern(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()
	input := filepath.Join(dir, "report.pdf")

	got := a.Allocate(input, "png", true)
	if !IsPattern(got) {
		t.Fatalf("multi allocation %q has no page placeholder", got)
	}
	first := MaterializePage(got, 1)
	if want := filepath.Join(dir, "report_converted_001.png"); first != want {
		t.Errorf("first page = %q, want %q", first, want)
	}
}

// A multi allocation collides when the materialized first page exists.
func TestAllocate_MultiCollision(t *testing.T) {
	dir := t.TempDir()
	a := NewAllocator()
	input := filepath.Join(dir, "report.pdf")

	touch(t, filepath.Join(dir, "report_converted_001.png"))

	got := a.Allocate(input, "png", true)
	if want := filepath.Join(dir, "report_converted_1_"+PagePlaceholder+".png"); got != want {
		t.Errorf("Allocate = %q, want %q", got, want)
	}
}

func TestMaterializePage_PrintfSafeStem(t *testing.T) {
	pattern := "/x/100%d_converted_" + PagePlaceholder + ".png"
	got := MaterializePage(pattern, 7)
	if got != "/x/100%d_converted_007.png" {
		t.Errorf("MaterializePage = %q", got)
	}
}
