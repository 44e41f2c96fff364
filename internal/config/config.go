// Package config loads craftplan settings from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the resolver and shell.
type Config struct {
	// DatabasePath is the sqlite database location. Empty means no
	// database is attached and recipes live only in memory or books.
	DatabasePath string `yaml:"database_path"`

	// MaxDepth bounds the number of demands a single resolution may
	// visit before giving up.
	MaxDepth int `yaml:"max_depth"`

	// CacheSize is the number of memoized resolutions kept per index
	// revision.
	CacheSize int `yaml:"cache_size"`

	// Color enables ANSI color in shell output.
	Color bool `yaml:"color"`

	// Prompt is printed before each shell read.
	Prompt string `yaml:"prompt"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MaxDepth:  1000,
		CacheSize: 128,
		Color:     true,
		Prompt:    ">>> ",
	}
}

// Load reads the configuration file at path, overlaying it on the
// defaults, then applies environment overrides. A missing file is not
// an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CRAFTPLAN_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("CRAFTPLAN_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing CRAFTPLAN_MAX_DEPTH: %w", err)
		}
		c.MaxDepth = n
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Color = false
	}
	return nil
}

func (c *Config) validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	return nil
}
