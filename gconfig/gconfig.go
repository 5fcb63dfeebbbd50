// Package gconfig loads the TOML configuration every gvox binary is
// driven by: worker pool size, container compression/checksum defaults,
// and logging. Grounded on the teacher's server/config.go.
package gconfig

import (
	"fmt"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/IntegratedQuantum/gvox/gvlog"
)

// Config is the top-level decoded TOML document.
type Config struct {
	Workers     int             `toml:"workers"`
	Compression string          `toml:"compression"`
	Checksum    bool            `toml:"checksum"`
	Logging     gvlog.LogConfig `toml:"logging"`
}

// LoadConfig decodes the TOML file at path into a Config.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("gconfig: decoding %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects an unknown compression name. RegionSide and
// MaxPaletteVariants are intentionally not part of this struct: they are
// frozen wire-format parameters, not runtime tuning knobs.
func (c *Config) Validate() error {
	switch c.Compression {
	case "", "none", "gzip", "lz4":
	default:
		return fmt.Errorf("gconfig: unknown compression %q", c.Compression)
	}
	return nil
}

// WorkerCount returns Workers, or runtime.NumCPU() when Workers <= 0.
func (c *Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
