// Package config loads cafebill settings from an optional YAML file and
// the environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, command-line flags (applied by the caller).
//
// Environment variables:
//
//	CAFEBILL_CONFIG:    config file path (default: cafebill.yaml, optional)
//	CAFEBILL_DB:        database path
//	LOG_LEVEL:          debug, info, warn, error
//	CAFEBILL_ID_SCHEME: millis or uuid
//	CAFEBILL_METRICS_FILE: Prometheus textfile written after each command
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultPath     = "cafebill.yaml"
	DefaultDatabase = "./cafebill.db"
	DefaultLogLevel = "info"
	DefaultFormat   = "text"
	DefaultIDScheme = "millis"
)

// Environment variable names.
const (
	EnvConfig   = "CAFEBILL_CONFIG"
	EnvDatabase = "CAFEBILL_DB"
	EnvLogLevel = "LOG_LEVEL"
	EnvIDScheme = "CAFEBILL_ID_SCHEME"
	EnvMetrics  = "CAFEBILL_METRICS_FILE"
)

// Config holds resolved settings.
type Config struct {
	Database string `yaml:"database"`
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
	IDScheme string `yaml:"id_scheme"`

	// MetricsFile, when set, receives the Prometheus metrics of each run.
	MetricsFile string `yaml:"metrics_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		LogLevel: DefaultLogLevel,
		Format:   DefaultFormat,
		IDScheme: DefaultIDScheme,
	}
}

// Load resolves settings from path and the environment.
//
// An empty path falls back to CAFEBILL_CONFIG, then to DefaultPath. A
// missing file is only an error when the path was given explicitly.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if path = getenv(EnvConfig); path != "" {
			explicit = true
		} else {
			path = DefaultPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	overrideFromEnv(&cfg, getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode reads YAML over cfg, rejecting unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func overrideFromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvDatabase); v != "" {
		cfg.Database = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvIDScheme); v != "" {
		cfg.IDScheme = v
	}
	if v := getenv(EnvMetrics); v != "" {
		cfg.MetricsFile = v
	}
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("config: database must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q (want debug, info, warn or error)", c.LogLevel)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown format %q (want text or json)", c.Format)
	}
	switch c.IDScheme {
	case "millis", "uuid":
	default:
		return fmt.Errorf("config: unknown id_scheme %q (want millis or uuid)", c.IDScheme)
	}
	return nil
}
