// Package config loads and saves the shell's YAML configuration file,
// following the load-or-create-default pattern cmd/fluid-cli/main.go uses
// via tui.EnsureConfigExists: a missing file is not an error, it is
// substituted with a written-out default.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds gosh's user-tunable settings.
type Config struct {
	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file,omitempty"`
	HistoryLimit int    `yaml:"history_limit"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the configuration used when no config file exists yet.
func Default() *Config {
	return &Config{
		Prompt:       "$ ",
		HistoryLimit: 1000,
		LogLevel:     "info",
	}
}

// Load reads path, or returns and persists Default() if path doesn't
// exist yet.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := cfg.Save(path); saveErr != nil {
			return nil, saveErr
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir for %s: %w", path, err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
