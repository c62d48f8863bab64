package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty dir so no config.yaml is picked up.
	tmpDir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.False(t, cfg.Pipeline.ModelBackend)
	assert.Equal(t, 50, cfg.Pipeline.MinClauseLength)
	assert.Equal(t, 20, cfg.Pipeline.MinSentenceLength)
	assert.Equal(t, 10, cfg.Pipeline.MaxKeyTerms)
	assert.Equal(t, 3.0, cfg.Risk.BaselineScore)
	assert.Equal(t, 1.5, cfg.Risk.DefaultFactorWeight)
	assert.Equal(t, 10.0, cfg.Risk.ScoreCeiling)
	assert.Equal(t, 7.0, cfg.Risk.HighClauseScore)
	assert.Equal(t, 2, cfg.Risk.NonCompliantHighCount)
	assert.Equal(t, 8.0, cfg.Risk.NonCompliantScore)
	assert.Equal(t, 6.0, cfg.Risk.ReviewScore)
	assert.Equal(t, 90, cfg.Lifecycle.InfoDays)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/mou
pipeline:
  model_backend: true
risk:
  high_clause_score: 6.5
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(yaml), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/mou", cfg.Store.DatabaseURL)
	assert.True(t, cfg.Pipeline.ModelBackend)
	assert.Equal(t, 6.5, cfg.Risk.HighClauseScore)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8.0, cfg.Risk.NonCompliantScore)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}
