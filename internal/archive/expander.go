// Package archive expands recognized archives into a scratch directory
// and classifies the extracted members into convertible media files.
package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mediabatch/convertron/internal/mediatype"
)

// Kind identifies a supported archive container.
type Kind string

const (
	KindZip    Kind = "zip"
	KindTar    Kind = "tar"
	KindTarGz  Kind = "tar.gz"
	KindTarBz2 Kind = "tar.bz2"
)

// Suffix table in match order; compound suffixes before plain ".tar".
var kindSuffixes = []struct {
	suffix string
	kind   Kind
}{
	{".tar.gz", KindTarGz},
	{".tgz", KindTarGz},
	{".tar.bz2", KindTarBz2},
	{".tbz2", KindTarBz2},
	{".zip", KindZip},
	{".tar", KindTar},
}

// DetectKind returns the archive kind for path, matched case-insensitively
// by filename suffix.
func DetectKind(path string) (Kind, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, e := range kindSuffixes {
		if strings.HasSuffix(name, e.suffix) {
			return e.kind, true
		}
	}
	return "", false
}

// Classifier decides the media category of an extracted member.
type Classifier func(ctx context.Context, path string) mediatype.Category

// CommandRunner executes one extraction subprocess. Overridable so tests
// can extract without the real tools installed.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Expander extracts archives via the external extraction tools and
// filters the results down to convertible media members.
type Expander struct {
	Classify Classifier
	Run      CommandRunner
}

// NewExpander returns an Expander using the system extraction tools.
func NewExpander(classify Classifier) *Expander {
	return &Expander{Classify: classify, Run: runCommand}
}

// Expand extracts archivePath into scratchDir and returns the extracted
// regular files that classify as convertible media, sorted for
// deterministic processing order.
//
// Members classified Invalid are dropped silently, as are nested archives:
// expansion is one level deep only. An archive that extracts cleanly but
// yields no convertible member fails with ErrNoConvertibleMembers, which
// is distinct from an extraction failure (*ExtractError).
func (e *Expander) Expand(ctx context.Context, archivePath, scratchDir string) ([]string, error) {
	kind, ok := DetectKind(archivePath)
	if !ok {
		return nil, &ExtractError{Archive: archivePath, Err: fmt.Errorf("unrecognized archive type")}
	}

	name, args := extractCommand(kind, archivePath, scratchDir)
	if err := e.Run(ctx, name, args...); err != nil {
		return nil, &ExtractError{Archive: archivePath, Kind: kind, Err: err}
	}

	var members []string
	err := filepath.WalkDir(scratchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		switch e.Classify(ctx, path) {
		case mediatype.Invalid, mediatype.Archive:
			return nil
		}
		members = append(members, path)
		return nil
	})
	if err != nil {
		return nil, &ExtractError{Archive: archivePath, Kind: kind, Err: err}
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(archivePath), ErrNoConvertibleMembers)
	}
	sort.Strings(members)
	return members, nil
}

// extractCommand returns the extraction subprocess for an archive kind.
// One tool variant per kind, mirroring the external extractor interface.
func extractCommand(kind Kind, archivePath, dest string) (string, []string) {
	switch kind {
	case KindZip:
		return "unzip", []string{"-o", "-qq", archivePath, "-d", dest}
	case KindTarGz:
		return "tar", []string{"-xzf", archivePath, "-C", dest}
	case KindTarBz2:
		return "tar", []string{"-xjf", archivePath, "-C", dest}
	default:
		return "tar", []string{"-xf", archivePath, "-C", dest}
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}
