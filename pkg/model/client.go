package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// Observer receives inference load signals. It is implemented by the metrics
// collector; recording is side-effect-only and can never fail a request.
type Observer interface {
	InflightInc()
	InflightDec()
	ObserveBatchSize(n int)
}

// Client is the public entrypoint for computing embeddings.
//
// It owns the inference worker pool: a weighted semaphore caps how many
// inference calls run at once so that CPU-bound model work cannot starve the
// goroutines serving health and metrics traffic. Requests beyond the cap
// queue on the semaphore and still count against their own deadline.
type Client struct {
	provider Provider
	sem      *semaphore.Weighted
	obs      Observer
}

// NewClient constructs a Client around a Provider.
func NewClient(cfg Config, provider Provider, obs Observer) *Client {
	return &Client{
		provider: provider,
		sem:      semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		obs:      obs,
	}
}

type embedResult struct {
	vectors [][]float32
	err     error
}

// Embed computes one embedding per input text, preserving input order.
//
// The call respects ctx's deadline while queueing and while inference runs.
// Inference itself is not preemptible: on timeout the in-flight computation
// is abandoned and its worker slot is released only when it finishes. The
// abandoned result is discarded.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no texts provided", ErrInference)
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, c.translateContextErr(err)
	}

	c.obs.InflightInc()
	c.obs.ObserveBatchSize(len(texts))

	ch := make(chan embedResult, 1)
	go func() {
		defer c.sem.Release(1)
		defer c.obs.InflightDec()

		vectors, err := c.provider.Embed(ctx, texts)
		ch <- embedResult{vectors: vectors, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, c.translateContextErr(ctx.Err())
	case res := <-ch:
		return res.vectors, res.err
	}
}

// Similarity computes the cosine similarity of two texts using a single
// batched inference call.
func (c *Client) Similarity(ctx context.Context, text1, text2 string) (float64, error) {
	vectors, err := c.Embed(ctx, []string{text1, text2})
	if err != nil {
		return 0, err
	}
	return cosineSimilarity(vectors[0], vectors[1]), nil
}

// Dimension returns the embedding dimension of the loaded model.
func (c *Client) Dimension() int {
	return c.provider.Dimension()
}

// ModelVersion returns the identifier of the loaded model.
func (c *Client) ModelVersion() string {
	return c.provider.ModelVersion()
}

// LoadTime reports how long the one-time model load took.
func (c *Client) LoadTime() time.Duration {
	return c.provider.LoadTime()
}

// Loaded reports whether the model finished loading.
func (c *Client) Loaded() bool {
	return c.provider.Loaded()
}

// Close releases the underlying provider.
func (c *Client) Close() error {
	return c.provider.Close()
}

func (c *Client) translateContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request deadline exceeded", ErrTimeout)
	}
	return err
}
