// Package models defines data structures for configuration and scraped records.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultUserAgent is sent when the configuration does not name one.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, " +
	"like Gecko) Chrome/80.0.3987.132 Safari/537.36"

// Config holds scraper settings. Durations are whole seconds so the yaml file
// reads the same as the command line flags.
type Config struct {
	Timeout        int    `yaml:"timeout"`
	MaxRetries     int    `yaml:"max_retries"` // reserved, no retry logic reads it yet
	RetryDelay     int    `yaml:"retry_delay"` // reserved
	WaitTime       int    `yaml:"wait_time"`
	UserAgent      string `yaml:"user_agent"`
	PrepareEdges   bool   `yaml:"prepare_edges"`
	DetectLanguage bool   `yaml:"detect_language"`
	CacheDir       string `yaml:"cache_dir"`
	CacheTTL       int    `yaml:"cache_ttl"`
	DBPath         string `yaml:"db_path"`
}

// DefaultConfig returns the settings used when nothing else is specified.
func DefaultConfig() Config {
	return Config{
		Timeout:    10,
		MaxRetries: 3,
		RetryDelay: 5,
		WaitTime:   4,
		UserAgent:  DefaultUserAgent,
		CacheTTL:   3600,
	}
}

// LoadConfig reads a yaml file on top of DefaultConfig. Keys missing from the
// file keep their default. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings no scrape can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %d", c.Timeout))
	}
	if c.WaitTime < 0 {
		errs = append(errs, fmt.Errorf("wait_time must not be negative, got %d", c.WaitTime))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries))
	}
	if c.CacheDir != "" && c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must be positive when cache_dir is set, got %d", c.CacheTTL))
	}
	return errors.Join(errs...)
}

func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) WaitDuration() time.Duration {
	return time.Duration(c.WaitTime) * time.Second
}

func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}
