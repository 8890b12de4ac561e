// Package config provides configuration for the API gateway.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the API gateway configuration.
type Config struct {
	// RequestTimeout bounds one report request, including every backend page.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxBodySize is the largest accepted request body in bytes.
	MaxBodySize int64 `yaml:"max_body_size"`
	// DefaultFormat is used when a report request names no format.
	DefaultFormat string `yaml:"default_format"`
	// EnableMetrics exposes Prometheus metrics on /metrics.
	EnableMetrics bool `yaml:"enable_metrics"`
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 5 * time.Minute,
		MaxBodySize:    1 << 20,
		DefaultFormat:  "json",
		EnableMetrics:  true,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = defaults.MaxBodySize
	}
	if c.DefaultFormat == "" {
		c.DefaultFormat = defaults.DefaultFormat
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ESREPORT_GATEWAY_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No paths to resolve in gateway config.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.RequestTimeout < 0 {
		return fmt.Errorf("gateway.request_timeout cannot be negative")
	}
	if c.MaxBodySize < 0 {
		return fmt.Errorf("gateway.max_body_size cannot be negative")
	}
	switch c.DefaultFormat {
	case "json", "html", "text":
	default:
		return fmt.Errorf("gateway.default_format %q is invalid (must be json, html or text)", c.DefaultFormat)
	}
	return nil
}
