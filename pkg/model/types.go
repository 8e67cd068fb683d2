package model

import (
	"context"
	"time"
)

// Provider is the contract for computing embeddings.
//
// Embed returns one vector per input text, in input order. Implementations
// must be safe for concurrent use: inference is a pure function of the
// input batch and the loaded weights.
type Provider interface {
	// Embed generates embeddings for the given texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed embedding dimension of the loaded model,
	// or 0 before the model finished loading.
	Dimension() int

	// ModelVersion returns the identifier of the loaded model.
	ModelVersion() string

	// LoadTime reports how long the one-time model load took.
	LoadTime() time.Duration

	// Loaded reports whether the model finished loading.
	Loaded() bool

	// Close releases resources held by the provider.
	Close() error
}
