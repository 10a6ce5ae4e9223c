// Package config loads gbxmeta CLI defaults from a YAML file.
//
// The file is named by the --config flag or the GBXMETA_CONFIG environment
// variable. Without either, Default applies. Command-line flags override
// whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"gbxmeta/internal/gbxfmt"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "GBXMETA_CONFIG"

// Formats lists the values accepted for Format.
var Formats = []string{"text", "json", "yaml", "cbor"}

// Config holds CLI defaults.
type Config struct {
	// Format is the info output format: text, json, yaml or cbor.
	Format string `yaml:"format"`

	// Strict aborts a decode on collaborator failure instead of recording
	// a diagnostic.
	Strict bool `yaml:"strict"`

	// Workers bounds the batch scan pool. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// Ext is the file suffix matched by batch and watch, case-insensitive.
	Ext string `yaml:"ext"`

	// MaxChunks caps the header chunk directory. Zero means the decoder default.
	MaxChunks int `yaml:"max_chunks"`

	// CacheSize is the number of decoded files kept by digest during a scan.
	CacheSize int `yaml:"cache_size"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:    "text",
		Workers:   runtime.GOMAXPROCS(0),
		Ext:       ".map.gbx",
		CacheSize: 256,
	}
}

// Load reads the file named by GBXMETA_CONFIG, or returns Default when the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(Formats, c.Format) {
		errs = append(errs, fmt.Errorf("format must be one of: %v", Formats))
	}
	if c.Ext == "" {
		errs = append(errs, errors.New("ext is required"))
	}
	if c.MaxChunks < 0 {
		errs = append(errs, fmt.Errorf("max_chunks must not be negative, got %d", c.MaxChunks))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// DecodeOptions maps the config onto decoder options.
func (c *Config) DecodeOptions() gbxfmt.Options {
	opts := gbxfmt.Options{MaxChunks: c.MaxChunks}
	if c.Strict {
		opts.Mode = gbxfmt.ModeStrict
	}
	return opts
}
