package config

// This file implements CLI flag parsing and help text. A small pre-pass
// finds --config so the TOML file is applied before flags, letting flags
// override file values naturally.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses args (os.Args[1:]) into cfg. On --help or --version
// it prints and exits. On error it returns non-nil (unknown flag, bad
// enum value, unreadable config file).
func ParseFlags(cfg *Config, args []string, version string) error {
	if path := findConfigArg(args); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("convertron", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var util utilityFlags
	defineBehaviorFlags(fs, cfg)
	defineToolFlags(fs, cfg)
	defineDisplayFlags(fs, cfg)
	defineUtilityFlags(fs, &util)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if util.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if util.showVersion {
		fmt.Fprintln(os.Stdout, "convertron v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// utilityFlags holds flags that trigger print-and-exit after Parse.
type utilityFlags struct {
	showHelp    bool
	showVersion bool
}

// defineBehaviorFlags registers page mode, jobs, timeout, dry-run.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&pageModeValue{&cfg.PageMode}, "page-mode", "Document-to-image page handling")
	fs.Var(&pageModeValue{&cfg.PageMode}, "p", "Same as --page-mode")
	fs.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Concurrent conversions")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Same as --jobs")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-conversion time limit (0 disables)")
	fs.DurationVar(&cfg.PollEvery, "poll", cfg.PollEvery, "Progress poll interval")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&cfg.KeepScratch, "keep-scratch", false, "Keep the scratch directory")
}

// defineToolFlags registers the external tool binary overrides.
func defineToolFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.TranscoderBin, "transcoder", cfg.TranscoderBin, "Transcoder binary")
	fs.StringVar(&cfg.ProberBin, "prober", cfg.ProberBin, "Metadata probe binary")
	fs.StringVar(&cfg.DocConvBin, "doc-converter", cfg.DocConvBin, "Document converter binary")
	fs.StringVar(&cfg.DocConvFallback, "doc-converter-fallback", cfg.DocConvFallback, "Fallback document converter binary")
}

// defineDisplayFlags registers --color, --verbose, --check, --log, --config.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&colorModeValue{&cfg.ColorMode}, "color", "Color output: auto, always, never")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	// Already consumed by the pre-pass; registered so Parse accepts it.
	fs.String("config", "", "TOML config file")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, u *utilityFlags) {
	fs.BoolVar(&u.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&u.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&u.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&u.showHelp, "h", false, "Same as --help")
}

// parsePositionalArgs sets OutputFormat and Inputs from the positional
// args when not in CheckOnly mode: <format> <file>...
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("need an output format and at least one input file")
	}
	cfg.OutputFormat = strings.ToLower(args[0])
	cfg.Inputs = args[1:]
	return nil
}

// findConfigArg scans raw args for --config before flag parsing runs.
// Accepts "--config path", "-config path" and the "=" forms.
func findConfigArg(args []string) string {
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name := strings.TrimLeft(a, "-")
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
	}
	return ""
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 32
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "Convertron v" + version + " — batch media converter"},
		{"", ""},
		{"  convertron [OPTIONS] <format> <file>...", ""},
		{"", ""},
		{"Behavior", ""},
		{"  -p, --page-mode <mode>", "Document-to-image pages: auto, single, separate, animated"},
		{"  -j, --jobs <n>", "Concurrent conversions (default: 1)"},
		{"  --timeout <duration>", "Per-conversion time limit (default: 2h, 0 disables)"},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"", ""},
		{"External tools", ""},
		{"  --transcoder <bin>", "Transcoder binary (default: ffmpeg)"},
		{"  --prober <bin>", "Metadata probe binary (default: ffprobe)"},
		{"  --doc-converter <bin>", "Document converter binary (default: libreoffice)"},
		{"", ""},
		{"Display", ""},
		{"  --color <auto|always|never>", "Color output (default: auto)"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  --config <path>", "TOML config file"},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (transcoder, prober, extractors)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			fmt.Fprintln(os.Stderr)
		case l.desc == "":
			fmt.Fprintln(os.Stderr, l.flags)
		case l.flags == "":
			fmt.Fprintln(os.Stderr, l.desc)
		default:
			padding := col1 - len(l.flags)
			if padding < 1 {
				padding = 1
			}
			fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
		}
	}
}

// flag.Value adapters so enum types work with flag.Var.

type pageModeValue struct{ p *PageMode }

func (v *pageModeValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *pageModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*v.p = PageAuto
	case "single":
		*v.p = PageSingle
	case "separate":
		*v.p = PageSeparate
	case "animated":
		*v.p = PageAnimated
	default:
		return fmt.Errorf("invalid page mode %q (use 'auto', 'single', 'separate' or 'animated')", s)
	}
	return nil
}

type colorModeValue struct{ p *ColorMode }

func (v *colorModeValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *colorModeValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*v.p = ColorAuto
	case "always":
		*v.p = ColorAlways
	case "never":
		*v.p = ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
