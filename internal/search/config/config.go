// Package config provides configuration for the search backend client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds the search backend connection settings.
type Config struct {
	// URL is the base address of the search API, e.g. https://es.internal:9200.
	URL string `yaml:"url"`
	// UIEndpoint is the base address of the saved-objects API used to resolve saved queries.
	UIEndpoint string `yaml:"ui_endpoint"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// InsecureSkipVerify disables TLS certificate verification against the backend.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// RequestTimeout bounds a single backend call, including reading the body.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RetryMax       int           `yaml:"retry_max"`
	RetryWaitMin   time.Duration `yaml:"retry_wait_min"`
	RetryWaitMax   time.Duration `yaml:"retry_wait_max"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`

	// SavedQueryCacheTTL keeps resolved saved queries in memory. Zero disables the cache.
	SavedQueryCacheTTL time.Duration `yaml:"saved_query_cache_ttl"`
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		URL:                "http://localhost:9200",
		RequestTimeout:     30 * time.Second,
		RetryMax:           2,
		RetryWaitMin:       200 * time.Millisecond,
		RetryWaitMax:       2 * time.Second,
		MaxIdleConns:       100,
		SavedQueryCacheTTL: 5 * time.Minute,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.URL == "" {
		c.URL = defaults.URL
	}
	if c.UIEndpoint == "" {
		c.UIEndpoint = c.URL
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaults.RequestTimeout
	}
	if c.RetryWaitMin == 0 {
		c.RetryWaitMin = defaults.RetryWaitMin
	}
	if c.RetryWaitMax == 0 {
		c.RetryWaitMax = defaults.RetryWaitMax
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaults.MaxIdleConns
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ESREPORT_SEARCH_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("ESREPORT_SEARCH_UI_ENDPOINT"); v != "" {
		c.UIEndpoint = v
	}
	if v := os.Getenv("ESREPORT_SEARCH_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("ESREPORT_SEARCH_PASSWORD"); v != "" {
		c.Password = v
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No path fields yet.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if err := checkURL("search.url", c.URL); err != nil {
		return err
	}
	if err := checkURL("search.ui_endpoint", c.UIEndpoint); err != nil {
		return err
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("search.retry_max cannot be negative")
	}
	if c.RetryWaitMin > c.RetryWaitMax {
		return fmt.Errorf("search.retry_wait_min must not exceed search.retry_wait_max")
	}
	if c.SavedQueryCacheTTL < 0 {
		return fmt.Errorf("search.saved_query_cache_ttl cannot be negative")
	}
	return nil
}

func checkURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s has invalid scheme %q (must be http or https)", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host", name)
	}
	return nil
}
