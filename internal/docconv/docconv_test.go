package docconv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// call records one converter invocation.
type call struct {
	bin  string
	args []string
}

// fakeRunner builds a CommandRunner that records calls and fails the
// binaries listed in failBins. On success it writes the output file the
// real converter would produce.
func fakeRunner(t *testing.T, calls *[]call, failBins ...string) CommandRunner {
	t.Helper()
	fail := map[string]bool{}
	for _, b := range failBins {
		fail[b] = true
	}
	return func(_ context.Context, name string, args ...string) error {
		*calls = append(*calls, call{bin: name, args: args})
		if fail[name] {
			return errors.New("exit status 1")
		}
		// args: ... --convert-to <target> --outdir <dir> <input>
		var target, outDir string
		for i, a := range args {
			switch a {
			case "--convert-to":
				target = args[i+1]
			case "--outdir":
				outDir = args[i+1]
			}
		}
		input := args[len(args)-1]
		return os.WriteFile(producedPath(input, target, outDir), []byte("converted"), 0o644)
	}
}

func TestConvert_Primary(t *testing.T) {
	out := t.TempDir()
	var calls []call
	c := &Converter{Bin: "libreoffice", FallbackBin: "soffice", Run: fakeRunner(t, &calls)}

	got, err := c.Convert(context.Background(), "/docs/report.docx", "pdf", out)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if want := filepath.Join(out, "report.pdf"); got != want {
		t.Errorf("produced = %q, want %q", got, want)
	}
	if len(calls) != 1 || calls[0].bin != "libreoffice" {
		t.Errorf("calls = %+v, want one libreoffice call", calls)
	}
}

func TestConvert_Fallback(t *testing.T) {
	out := t.TempDir()
	var calls []call
	c := &Converter{Bin: "libreoffice", FallbackBin: "soffice", Run: fakeRunner(t, &calls, "libreoffice")}

	got, err := c.Convert(context.Background(), "/docs/report.docx", "txt:Text", out)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if want := filepath.Join(out, "report.txt"); got != want {
		t.Errorf("produced = %q, want %q", got, want)
	}
	if len(calls) != 2 || calls[1].bin != "soffice" {
		t.Fatalf("calls = %+v, want libreoffice then soffice", calls)
	}
	// The fallback invocation uses its own argument conventions.
	if calls[1].args[1] != "--norestore" {
		t.Errorf("fallback args = %v", calls[1].args)
	}
}

func TestConvert_BothFail(t *testing.T) {
	var calls []call
	c := &Converter{Bin: "libreoffice", FallbackBin: "soffice",
		Run: fakeRunner(t, &calls, "libreoffice", "soffice")}

	_, err := c.Convert(context.Background(), "/docs/report.docx", "pdf", t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "report.docx") {
		t.Errorf("error does not name the input: %v", err)
	}
}

// The converter exiting zero without writing output is still a failure.
func TestConvert_EmptyOutput(t *testing.T) {
	out := t.TempDir()
	c := &Converter{Bin: "libreoffice", FallbackBin: "soffice",
		Run: func(_ context.Context, _ string, args ...string) error {
			input := args[len(args)-1]
			return os.WriteFile(producedPath(input, "pdf", out), nil, 0o644)
		}}

	_, err := c.Convert(context.Background(), "/docs/report.docx", "pdf", out)
	if err == nil || !strings.Contains(err.Error(), "produced no output") {
		t.Errorf("err = %v", err)
	}
}

func TestStagePDF_Passthrough(t *testing.T) {
	dir := t.TempDir()
	stage := t.TempDir()
	src := filepath.Join(dir, "scan.PDF")
	if err := os.WriteFile(src, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &Converter{Run: func(context.Context, string, ...string) error {
		t.Fatal("converter invoked for a PDF input")
		return nil
	}}
	got, err := c.StagePDF(context.Background(), src, stage)
	if err != nil {
		t.Fatalf("StagePDF: %v", err)
	}
	data, err := os.ReadFile(got)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Errorf("staged copy = %q, %v", data, err)
	}
}

func TestStagePDF_Converts(t *testing.T) {
	stage := t.TempDir()
	var calls []call
	c := &Converter{Bin: "libreoffice", FallbackBin: "soffice", Run: fakeRunner(t, &calls)}

	got, err := c.StagePDF(context.Background(), "/docs/notes.odt", stage)
	if err != nil {
		t.Fatalf("StagePDF: %v", err)
	}
	if want := filepath.Join(stage, "notes.pdf"); got != want {
		t.Errorf("staged = %q, want %q", got, want)
	}
}

func TestTargetExtension(t *testing.T) {
	tests := []struct{ target, want string }{
		{"pdf", "pdf"},
		{"txt:Text", "txt"},
		{"docx", "docx"},
	}
	for _, tt := range tests {
		if got := TargetExtension(tt.target); got != tt.want {
			t.Errorf("TargetExtension(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}
