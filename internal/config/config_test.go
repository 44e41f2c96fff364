package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.DatabasePath)
	assert.Equal(t, 1000, cfg.MaxDepth)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.True(t, cfg.Color)
	assert.Equal(t, ">>> ", cfg.Prompt)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"database_path: /tmp/recipes.db\nmax_depth: 50\nprompt: \"craft> \"\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/recipes.db", cfg.DatabasePath)
	assert.Equal(t, 50, cfg.MaxDepth)
	assert.Equal(t, "craft> ", cfg.Prompt)
	// Unset keys keep their defaults.
	assert.Equal(t, 128, cfg.CacheSize)
	assert.True(t, cfg.Color)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: [not a number"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CRAFTPLAN_DB", "/env/recipes.db")
	t.Setenv("CRAFTPLAN_MAX_DEPTH", "25")
	t.Setenv("NO_COLOR", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/env/recipes.db", cfg.DatabasePath)
	assert.Equal(t, 25, cfg.MaxDepth)
	assert.False(t, cfg.Color)
}

func TestEnvInvalidMaxDepth(t *testing.T) {
	t.Setenv("CRAFTPLAN_MAX_DEPTH", "lots")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth: -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "max_depth")
}
