// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

// Package config loads the server configuration: defaults, then an
// optional YAML file, then command-line flags, later sources overriding
// earlier ones.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full server configuration tree.
type Config struct {
	World       World       `koanf:"world"`
	Metrics     Metrics     `koanf:"metrics"`
	Persistence Persistence `koanf:"persistence"`
	Logging     Logging     `koanf:"logging"`
	Audit       Audit       `koanf:"audit"`
}

// World sizes the item grid.
type World struct {
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// Metrics configures the observability endpoint.
type Metrics struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// Persistence configures the commit barrier. An empty DSN selects the
// no-op confirmer: trades commit without durability, for development
// only.
type Persistence struct {
	DSN            string        `koanf:"dsn"`
	ConfirmTimeout time.Duration `koanf:"confirm_timeout"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "text"
}

// Audit sizes the audit trail buffer.
type Audit struct {
	Buffer int `koanf:"buffer"`
}

// Flags returns the flag set Load consumes, with every default bound.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("tmsrv", pflag.ContinueOnError)
	f.String("config", "", "path to YAML config file")
	f.Int("world.width", 4096, "world grid width in cells")
	f.Int("world.height", 4096, "world grid height in cells")
	f.Bool("metrics.enabled", true, "serve Prometheus metrics and health probes")
	f.String("metrics.addr", ":9090", "metrics listen address")
	f.String("persistence.dsn", "", "PostgreSQL DSN; empty disables durable saves")
	f.Duration("persistence.confirm_timeout", 5*time.Second, "per-participant save confirmation timeout")
	f.String("logging.level", "info", "log level (debug, info, warn, error)")
	f.String("logging.format", "json", "log output format (json or text)")
	f.Int("audit.buffer", 1024, "audit trail buffer size")
	return f
}

// Load builds the configuration from the flag set: flag defaults first,
// then the YAML file named by --config (when present), then explicitly
// set flags on top.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, oops.Code("CONFIG_FILE_MISSING").With("path", path).Wrap(err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_INVALID").With("path", path).Wrap(err)
		}
	}

	// Set flags override the file; unset flags only fill gaps.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return oops.Code("CONFIG_INVALID").With("width", c.World.Width).With("height", c.World.Height).
			Errorf("world dimensions must be positive")
	}
	if c.Persistence.ConfirmTimeout <= 0 {
		return oops.Code("CONFIG_INVALID").With("confirm_timeout", c.Persistence.ConfirmTimeout.String()).
			Errorf("confirm timeout must be positive")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return oops.Code("CONFIG_INVALID").With("format", c.Logging.Format).
			Errorf("unknown log format")
	}
	return nil
}
