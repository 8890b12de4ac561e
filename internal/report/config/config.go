// Package config provides configuration for the report pipeline.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the report pipeline limits.
type Config struct {
	// MaxPages stops pagination with an error after this many pages. Zero means unlimited.
	MaxPages int `yaml:"max_pages"`
	// MaxRows stops pagination with an error once more rows were expanded. Zero means unlimited.
	MaxRows int `yaml:"max_rows"`
	// ExpandWorkers is the number of goroutines flattening one page. Defaults to 4.
	ExpandWorkers int `yaml:"expand_workers"`
}

// DefaultConfig returns the default report configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:      10000,
		MaxRows:       1_000_000,
		ExpandWorkers: 4,
	}
}

// ApplyDefaults fills in zero values with defaults.
// MaxPages and MaxRows keep zero as "unlimited".
func (c *Config) ApplyDefaults() {
	if c.ExpandWorkers == 0 {
		c.ExpandWorkers = DefaultConfig().ExpandWorkers
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ESREPORT_REPORT_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRows = n
		}
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No path fields yet.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.MaxPages < 0 {
		return fmt.Errorf("report.max_pages cannot be negative")
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("report.max_rows cannot be negative")
	}
	if c.ExpandWorkers < 0 {
		return fmt.Errorf("report.expand_workers cannot be negative")
	}
	return nil
}
