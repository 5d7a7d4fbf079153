// Package docconv drives the external document converter (LibreOffice).
// The primary binary is tried first; on failure a fallback invocation
// with different argument conventions is attempted before the conversion
// is declared failed.
package docconv

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandRunner executes one converter subprocess. Overridable in tests.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Converter converts documents via an external office suite.
type Converter struct {
	Bin         string // primary binary, default "libreoffice"
	FallbackBin string // fallback binary, default "soffice"
	Run         CommandRunner
}

// New returns a Converter using the default binaries from PATH.
func New() *Converter {
	return &Converter{
		Bin:         "libreoffice",
		FallbackBin: "soffice",
		Run:         runCommand,
	}
}

// Convert converts input to target, writing into outDir, and returns the
// produced file path. target is a converter target token such as "pdf" or
// "txt:Text" (the part after the colon selects the export filter).
//
// The converter derives the output name itself (input stem plus target
// extension), so callers convert into a private staging directory and
// move the result where they need it.
func (c *Converter) Convert(ctx context.Context, input, target, outDir string) (string, error) {
	primary := []string{"--headless", "--convert-to", target, "--outdir", outDir, input}
	fallback := []string{"--headless", "--norestore", "--writer", "--convert-to", target, "--outdir", outDir, input}

	err := c.Run(ctx, c.Bin, primary...)
	if err != nil {
		if err = c.Run(ctx, c.FallbackBin, fallback...); err != nil {
			return "", fmt.Errorf("document conversion of %s failed: %w", filepath.Base(input), err)
		}
	}

	produced := producedPath(input, target, outDir)
	fi, err := os.Stat(produced)
	if err != nil || fi.Size() == 0 {
		return "", fmt.Errorf("document conversion of %s produced no output", filepath.Base(input))
	}
	return produced, nil
}

// StagePDF returns a PDF representation of input inside stageDir: a
// pass-through copy when the input already is a PDF, otherwise a
// conversion. The result is an intermediate file owned by the caller.
func (c *Converter) StagePDF(ctx context.Context, input, stageDir string) (string, error) {
	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		dst := filepath.Join(stageDir, filepath.Base(input))
		if err := copyFile(input, dst); err != nil {
			return "", fmt.Errorf("staging %s: %w", filepath.Base(input), err)
		}
		return dst, nil
	}
	return c.Convert(ctx, input, "pdf", stageDir)
}

// TargetExtension strips the export-filter part of a target token:
// "txt:Text" → "txt".
func TargetExtension(target string) string {
	if i := strings.IndexByte(target, ':'); i >= 0 {
		return target[:i]
	}
	return target
}

func producedPath(input, target, outDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+"."+TargetExtension(target))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}
