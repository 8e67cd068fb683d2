package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultModelName, cfg.Name)
	assert.Equal(t, DefaultCacheDir, cfg.CacheDir)
	assert.GreaterOrEqual(t, cfg.MaxConcurrent, 1)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("MODEL_NAME", "sentence-transformers/all-MiniLM-L6-v2")
	t.Setenv("MODEL_CACHE_DIR", "/var/cache/models")
	t.Setenv("INFERENCE_MAX_CONCURRENT", "4")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", cfg.Name)
	assert.Equal(t, "/var/cache/models", cfg.CacheDir)
	assert.Equal(t, 4, cfg.MaxConcurrent)
}

func TestNewConfig_InvalidConcurrencyFailsFast(t *testing.T) {
	t.Setenv("INFERENCE_MAX_CONCURRENT", "not-a-number")

	_, err := NewConfig()
	require.Error(t, err)

	t.Setenv("INFERENCE_MAX_CONCURRENT", "0")

	_, err = NewConfig()
	require.Error(t, err)
}

func TestConfig_PathFlattensModelName(t *testing.T) {
	cfg := Config{Name: "sentence-transformers/all-MiniLM-L6-v2", CacheDir: "/tmp/models"}

	assert.Equal(t,
		filepath.Join("/tmp/models", "sentence-transformers_all-MiniLM-L6-v2"),
		cfg.Path(),
	)
}
