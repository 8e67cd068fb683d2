package model

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const (
	// DefaultModelName is the sentence-embedding model loaded when
	// MODEL_NAME is not set. all-MiniLM-L6-v2 produces 384-dimensional
	// vectors and is small enough to serve on CPU.
	DefaultModelName = "all-MiniLM-L6-v2"

	// DefaultCacheDir is where model artifacts are expected on disk.
	DefaultCacheDir = "/tmp/models"
)

type Config struct {
	// Name of the pretrained embedding model to load.
	Name string // MODEL_NAME

	// CacheDir is the local directory holding pre-fetched model artifacts.
	// Loading from the cache is preferred; a network fetch through the
	// artifact store is the fallback when the model is absent.
	CacheDir string // MODEL_CACHE_DIR

	// MaxConcurrent caps the number of inference calls executing at once.
	// Inference is CPU-bound, so the default is the number of CPUs.
	MaxConcurrent int // INFERENCE_MAX_CONCURRENT
}

// NewConfig reads the model configuration from environment variables.
// Unparsable values are a startup error rather than a silent fallback.
func NewConfig() (Config, error) {
	name := os.Getenv("MODEL_NAME")
	if name == "" {
		name = DefaultModelName
	}

	cacheDir := os.Getenv("MODEL_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}

	maxConcurrent := runtime.NumCPU()
	if v := os.Getenv("INFERENCE_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("model: invalid INFERENCE_MAX_CONCURRENT %q", v)
		}
		maxConcurrent = n
	}

	return Config{
		Name:          name,
		CacheDir:      cacheDir,
		MaxConcurrent: maxConcurrent,
	}, nil
}

// Path returns the directory the model is loaded from. Slashes in the model
// name (e.g. "sentence-transformers/all-MiniLM-L6-v2") are flattened so one
// model maps to one cache subdirectory.
func (c Config) Path() string {
	return filepath.Join(c.CacheDir, strings.ReplaceAll(c.Name, "/", "_"))
}
