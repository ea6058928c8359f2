// Package paths resolves gosh's XDG configuration and data directories,
// adapted from fluid-cli/internal/paths/paths.go and trimmed to the
// POSIX-only branch (Windows consoles are a Non-goal).
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDir returns the gosh configuration directory:
// $XDG_CONFIG_HOME/gosh if set, else ~/.config/gosh.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gosh"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("paths: config dir: %w", err)
	}
	return filepath.Join(home, ".config", "gosh"), nil
}

// DataDir returns the gosh data directory for history and logs:
// $XDG_DATA_HOME/gosh if set, else ~/.local/share/gosh.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "gosh"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("paths: data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "gosh"), nil
}

// ConfigFile returns the path to config.yaml.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// HistoryFile returns the default path to the history file.
func HistoryFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// LogFile returns the path to the session log file.
func LogFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gosh.log"), nil
}

// CatalogCacheFile returns the path to the executable-catalog cache
// database.
func CatalogCacheFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}

// EnsureDir creates dir (and parents) if it does not already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("paths: create %s: %w", dir, err)
	}
	return nil
}
