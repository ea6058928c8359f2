package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestLoad_ExistingFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prompt: \"> \"\nhistory_limit: 50\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestSave_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{Prompt: "gosh> ", HistoryLimit: 10, LogLevel: "debug"}
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
