// Package config holds runtime configuration: defaults, an optional TOML
// config file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"time"
)

// --- Enum types for validated string fields ---

// PageMode controls how multi-page documents become images.
type PageMode string

const (
	PageAuto     PageMode = "auto"     // Ask once per batch when it matters (default).
	PageSingle   PageMode = "single"   // First page only.
	PageSeparate PageMode = "separate" // One image per page.
	PageAnimated PageMode = "animated" // All pages in one animated image.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid from a TOML file, then mutated by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Conversion request (set from positional args).
	OutputFormat string
	Inputs       []string

	// Behavior.
	PageMode    PageMode      // Default: "auto".
	Jobs        int           // Concurrent conversions. Default: 1 (sequential).
	Timeout     time.Duration // Per-conversion cap. Default: 2h. 0 disables.
	PollEvery   time.Duration // Progress poll interval. Default: 1s.
	DryRun      bool
	KeepScratch bool // Keep the scratch directory for debugging.

	// External tools.
	TranscoderBin   string // Default: "ffmpeg".
	ProberBin       string // Default: "ffprobe".
	DocConvBin      string // Default: "libreoffice".
	DocConvFallback string // Default: "soffice".

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults applied. Used as the
// base before the config file and CLI flags overlay it.
func DefaultConfig() Config {
	return Config{
		PageMode:        PageAuto,
		Jobs:            1,
		Timeout:         2 * time.Hour,
		PollEvery:       time.Second,
		TranscoderBin:   "ffmpeg",
		ProberBin:       "ffprobe",
		DocConvBin:      "libreoffice",
		DocConvFallback: "soffice",
		ColorMode:       ColorAuto,
	}
}

// Validate checks enum fields and numeric ranges, and, outside CheckOnly
// mode, the usage requirements: an output format and at least
// one input file. Usage failures here are fatal to the whole run; they
// are the only errors that are.
func (c *Config) Validate() error {
	switch c.PageMode {
	case PageAuto, PageSingle, PageSeparate, PageAnimated:
		// valid
	default:
		return errors.New("invalid page mode (use 'auto', 'single', 'separate' or 'animated')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Jobs < 1 {
		return fmt.Errorf("invalid jobs value %d (must be >= 1)", c.Jobs)
	}
	if c.PollEvery <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	if c.CheckOnly {
		return nil
	}
	if c.OutputFormat == "" {
		return errors.New("need an output format (first positional argument)")
	}
	if len(c.Inputs) == 0 {
		return errors.New("need at least one input file")
	}
	return nil
}
