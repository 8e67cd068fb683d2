package model

import "errors"

// Error kinds for the inference path. Callers classify failures with
// errors.Is; the HTTP layer maps each kind to a status code.
var (
	// ErrModelLoad is returned when the model artifact cannot be fetched
	// or deserialized. It is fatal for readiness: the instance stays
	// permanently not-ready and expects an external restart.
	ErrModelLoad = errors.New("model load failed")

	// ErrNotLoaded is returned by inference calls that arrive before the
	// startup load completed.
	ErrNotLoaded = errors.New("model not loaded")

	// ErrInference is returned on a runtime computation failure. It is
	// scoped to the failing request and never affects process health.
	ErrInference = errors.New("inference failed")

	// ErrTimeout is returned when an inference call exceeds the request
	// deadline. The underlying computation is abandoned, not preempted.
	ErrTimeout = errors.New("inference timed out")
)
