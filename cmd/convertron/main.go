// Command convertron is the CLI entrypoint for the batch media converter.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check) or the conversion pipeline over the given inputs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mediabatch/convertron/internal/check"
	"github.com/mediabatch/convertron/internal/config"
	"github.com/mediabatch/convertron/internal/display"
	"github.com/mediabatch/convertron/internal/format"
	"github.com/mediabatch/convertron/internal/logging"
	"github.com/mediabatch/convertron/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "convertron: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "convertron: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convertron: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// Resolve the output format before any file is touched: an unknown
	// identifier is a usage error, fatal to the whole run.
	registry := format.NewRegistry()
	spec, ok := registry.Lookup(cfg.OutputFormat)
	if !ok {
		log.Error("Unsupported output format %q", cfg.OutputFormat)
		log.Error("Supported: %s", strings.Join(registry.Names(), ", "))
		return 1
	}

	log.Info("=== Convertron v%s (%s) ===", version, commit)
	log.Info("Converting %d file(s) to %s", len(cfg.Inputs), spec.Name)
	log.Info("")

	// Fail fast if the transcoder or prober is unavailable.
	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling — cancel context on SIGINT/SIGTERM so the
	// pipeline can kill in-flight transcoder process groups and clean up
	// the scratch directory.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping…")
		cancel()
	}()

	// Phase 4: Run the batch.
	reporter := display.NewTermReporter()
	summary := pipeline.New(&cfg, spec, log, reporter).Run(ctx)

	if len(summary.Failed) > 0 {
		return 1
	}
	return 0
}
