// Package config loads the ordercore YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvDatabasePath overrides the configured database path when set.
const EnvDatabasePath = "ORDERCORE_DB"

// Config is the full ordercore configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Guard    GuardConfig    `yaml:"guard"`
	Retry    RetryConfig    `yaml:"retry"`
}

// DatabaseConfig locates the SQLite record store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// GuardConfig tunes the guard rule set.
type GuardConfig struct {
	// LowStockThreshold is the boundary below which a stock alert
	// fires. Zero means the built-in default.
	LowStockThreshold int64 `yaml:"low_stock_threshold"`
}

// RetryConfig bounds write-conflict retries.
type RetryConfig struct {
	// Attempts is the maximum number of tries per operation. Zero
	// means the built-in default.
	Attempts int `yaml:"attempts"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "ordercore.db"},
	}
}

// Load reads and validates a YAML configuration file. The
// ORDERCORE_DB environment variable, when set, overrides the database
// path from the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv returns the default configuration with environment
// overrides applied. Used when no config file is supplied.
func FromEnv() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if p := os.Getenv(EnvDatabasePath); p != "" {
		cfg.Database.Path = p
	}
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Guard.LowStockThreshold < 0 {
		return fmt.Errorf("guard.low_stock_threshold must not be negative, got %d", c.Guard.LowStockThreshold)
	}
	if c.Retry.Attempts < 0 {
		return fmt.Errorf("retry.attempts must not be negative, got %d", c.Retry.Attempts)
	}
	return nil
}
