// Package model owns the embedding model's lifecycle and the inference path.
//
// The model is loaded exactly once per process, eagerly at startup, so that
// the readiness transition is a discrete observable event instead of being
// smeared across the first request's latency. After the load the model
// handle is immutable and shared without locking: inference is a pure
// function of the input batch and the loaded weights.
//
// Batches are processed as one vectorized pipeline call, never as N
// single-text calls; this is the principal performance-critical path of the
// service.
package model
