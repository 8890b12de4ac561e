// Package config assembles the application configuration from its sections.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gateway "github.com/syntrixbase/esreport/internal/gateway/config"
	report "github.com/syntrixbase/esreport/internal/report/config"
	search "github.com/syntrixbase/esreport/internal/search/config"
	server "github.com/syntrixbase/esreport/internal/server"
	"gopkg.in/yaml.v3"
)

// DefaultDir is the directory LoadConfig reads when none is given.
const DefaultDir = "config"

// Config holds the application configuration
type Config struct {
	Server  server.Config  `yaml:"server"`
	Gateway gateway.Config `yaml:"gateway"`
	Search  search.Config  `yaml:"search"`
	Report  report.Config  `yaml:"report"`
	Logging LoggingConfig  `yaml:"logging"`
}

// Default returns a configuration with every section at its defaults.
func Default() *Config {
	return &Config{
		Server:  server.DefaultConfig(),
		Gateway: gateway.DefaultConfig(),
		Search:  search.DefaultConfig(),
		Report:  report.DefaultConfig(),
		Logging: DefaultLoggingConfig(),
	}
}

// LoadConfig loads configuration from files and environment variables.
// Order: defaults -> config.yml -> config.local.yml -> ApplyEnvOverrides -> ResolvePaths -> Validate
// Missing files are skipped; unreadable or malformed files are errors.
func LoadConfig(dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := Default()

	for _, name := range []string{"config.yml", "config.local.yml"} {
		if err := loadFile(filepath.Join(dir, name), cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Apply(dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply runs the configuration lifecycle on every section.
func (c *Config) Apply(configDir string) error {
	if err := ApplyServiceConfigs(configDir,
		&c.Server,
		&c.Gateway,
		&c.Search,
		&c.Report,
		&c.Logging,
	); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	return nil
}

func loadFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return nil
}
