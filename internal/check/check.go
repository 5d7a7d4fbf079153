// Package check provides system diagnostics (--check mode) and
// pre-pipeline validation of the external tools the pipeline drives.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/mediabatch/convertron/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrTranscoderNotFound = errors.New("transcoder (ffmpeg) not found on PATH")
	ErrProberNotFound     = errors.New("prober (ffprobe) not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability of the
// transcoder, prober, archive extractors, and document converter. This is
// informational only; it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkVersioned(log, "transcoder", cfg.TranscoderBin)
	checkVersioned(log, "prober", cfg.ProberBin)

	checkPresent(log, "zip extractor", "unzip")
	checkPresent(log, "tar extractor", "tar")

	if path, err := exec.LookPath(cfg.DocConvBin); err == nil {
		log.Success("document converter: %s", path)
	} else if path, err := exec.LookPath(cfg.DocConvFallback); err == nil {
		log.Success("document converter (fallback): %s", path)
	} else {
		log.Warn("document converter not found (document conversions will fail)")
	}
}

// checkVersioned verifies bin is on PATH and logs its version banner.
func checkVersioned(log Logger, label, bin string) {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s: %s not found", label, bin)
		return
	}
	out, err := exec.Command(bin, "-version").Output()
	if err != nil {
		log.Warn("%s: %s found but -version failed: %v", label, bin, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", label, firstLine)
}

func checkPresent(log Logger, label, bin string) {
	if path, err := exec.LookPath(bin); err == nil {
		log.Success("%s: %s", label, path)
	} else {
		log.Warn("%s: %s not found (matching archives will fail)", label, bin)
	}
}

// CheckDeps is the pre-pipeline validation: the transcoder and prober
// must be on PATH before any file is processed. Extractors and the
// document converter are checked per request instead, since a batch may
// not need them. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.TranscoderBin); err != nil {
		return ErrTranscoderNotFound
	}
	if _, err := exec.LookPath(cfg.ProberBin); err != nil {
		return ErrProberNotFound
	}
	return nil
}
