package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the subset of Config settable from a TOML file.
// Zero values mean "not set" and leave the existing Config value alone.
type fileConfig struct {
	PageMode        string `toml:"page_mode"`
	Jobs            int    `toml:"jobs"`
	Timeout         string `toml:"timeout"` // Go duration string, e.g. "90m".
	Transcoder      string `toml:"transcoder"`
	Prober          string `toml:"prober"`
	DocConverter    string `toml:"doc_converter"`
	DocConvFallback string `toml:"doc_converter_fallback"`
	Color           string `toml:"color"`
	LogFile         string `toml:"log_file"`
}

// LoadFile overlays settings from a TOML file onto cfg. CLI flags are
// applied after this, so flags win over file values.
func LoadFile(path string, cfg *Config) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undec[0].String())
	}

	if fc.PageMode != "" {
		cfg.PageMode = PageMode(fc.PageMode)
	}
	if fc.Jobs != 0 {
		cfg.Jobs = fc.Jobs
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config file %s: timeout: %w", path, err)
		}
		cfg.Timeout = d
	}
	if fc.Transcoder != "" {
		cfg.TranscoderBin = fc.Transcoder
	}
	if fc.Prober != "" {
		cfg.ProberBin = fc.Prober
	}
	if fc.DocConverter != "" {
		cfg.DocConvBin = fc.DocConverter
	}
	if fc.DocConvFallback != "" {
		cfg.DocConvFallback = fc.DocConvFallback
	}
	if fc.Color != "" {
		cfg.ColorMode = ColorMode(fc.Color)
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	return nil
}
