package model

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/Aleph-Alpha/embedding-server/pkg/artifact"
	"github.com/Aleph-Alpha/embedding-server/pkg/logger"
)

const warmupText = "warmup"

// LocalProvider runs the sentence-embedding model in-process through a hugot
// feature-extraction pipeline (ONNX weights, tokenizer from the model dir).
//
// Construction is cheap; the expensive one-time load happens in Load so the
// HTTP servers can come up first and answer liveness probes while the model
// is still loading. After Load succeeds the pipeline is never mutated again,
// so Embed needs no locking.
type LocalProvider struct {
	cfg   Config
	store *artifact.Store
	log   *logger.Logger

	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline

	loaded    atomic.Bool
	dimension int
	loadTime  time.Duration
}

// NewLocalProvider returns an unloaded provider. Call Load exactly once
// before serving traffic.
func NewLocalProvider(cfg Config, store *artifact.Store, log *logger.Logger) *LocalProvider {
	return &LocalProvider{
		cfg:   cfg,
		store: store,
		log:   log,
	}
}

// Load fetches the model into the cache if necessary, builds the inference
// pipeline, and runs a warm-up inference that fixes the embedding dimension.
// Any failure wraps ErrModelLoad and leaves the provider unusable.
func (p *LocalProvider) Load(ctx context.Context) error {
	if p.loaded.Load() {
		return nil
	}

	modelPath := p.cfg.Path()
	start := time.Now()

	if err := p.ensureCached(ctx, modelPath); err != nil {
		return err
	}

	p.log.Info("loading model", nil, map[string]interface{}{
		"model": p.cfg.Name,
		"path":  modelPath,
	})

	session, err := hugot.NewGoSession()
	if err != nil {
		return fmt.Errorf("%w: create session: %v", ErrModelLoad, err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "sentence-embedding",
	})
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("%w: build pipeline: %v", ErrModelLoad, err)
	}

	// Warm-up inference: pays the first-call initialization cost before the
	// instance becomes ready and tells us the embedding dimension.
	warmup, err := pipeline.RunPipeline([]string{warmupText})
	if err != nil {
		_ = session.Destroy()
		return fmt.Errorf("%w: warmup inference: %v", ErrModelLoad, err)
	}
	if len(warmup.Embeddings) == 0 || len(warmup.Embeddings[0]) == 0 {
		_ = session.Destroy()
		return fmt.Errorf("%w: warmup produced no embedding", ErrModelLoad)
	}

	p.session = session
	p.pipeline = pipeline
	p.dimension = len(warmup.Embeddings[0])
	p.loadTime = time.Since(start)
	p.loaded.Store(true)

	p.log.Info("model loaded", nil, map[string]interface{}{
		"model":     p.cfg.Name,
		"dimension": p.dimension,
		"load_time": p.loadTime.String(),
	})

	return nil
}

// ensureCached makes sure the model directory exists locally, fetching it
// from the artifact store when configured.
func (p *LocalProvider) ensureCached(ctx context.Context, modelPath string) error {
	if _, err := os.Stat(modelPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat model cache: %v", ErrModelLoad, err)
	}

	if p.store == nil {
		return fmt.Errorf("%w: model %q not found in cache %q and no artifact store is configured",
			ErrModelLoad, p.cfg.Name, p.cfg.CacheDir)
	}

	p.log.Warn("model missing from cache, falling back to artifact store", nil, map[string]interface{}{
		"model": p.cfg.Name,
		"path":  modelPath,
	})

	if err := p.store.FetchModel(ctx, p.cfg.Name, modelPath); err != nil {
		return fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	return nil
}

// Embed runs one vectorized inference call over the whole batch. Output
// order matches input order.
func (p *LocalProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !p.loaded.Load() {
		return nil, ErrNotLoaded
	}

	out, err := p.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrInference, len(out.Embeddings), len(texts))
	}

	return out.Embeddings, nil
}

// Dimension returns the embedding dimension discovered during warm-up.
func (p *LocalProvider) Dimension() int {
	if !p.loaded.Load() {
		return 0
	}
	return p.dimension
}

// ModelVersion returns the configured model name.
func (p *LocalProvider) ModelVersion() string {
	return p.cfg.Name
}

// LoadTime reports how long the one-time model load took.
func (p *LocalProvider) LoadTime() time.Duration {
	return p.loadTime
}

// Loaded reports whether Load completed successfully.
func (p *LocalProvider) Loaded() bool {
	return p.loaded.Load()
}

// Close destroys the inference session. The provider is unusable afterwards.
func (p *LocalProvider) Close() error {
	if p.session == nil {
		return nil
	}
	p.loaded.Store(false)
	return p.session.Destroy()
}
