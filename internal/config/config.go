// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

// Package config loads server configuration from file and flags.
package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the server configuration. Precedence: defaults, then the
// config file, then command-line flags.
type Config struct {
	Modules ModulesConfig `koanf:"modules"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	HTTP    HTTPConfig    `koanf:"http"`
}

// ModulesConfig configures plugin discovery.
type ModulesConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// MetricsConfig configures the observability HTTP server.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // empty disables the server
}

// HTTPConfig configures the main HTTP listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Modules: ModulesConfig{Dir: "modules"},
		Log:     LogConfig{Format: "json", Level: "info"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		HTTP:    HTTPConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load builds the configuration from an optional YAML file and an
// optional flag set layered over the defaults.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks configuration constraints.
func (c Config) Validate() error {
	if c.Modules.Dir == "" {
		return fmt.Errorf("modules.dir is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}
