// Package api implements the HTTP surface of the embedding server: request
// and response schemas, input validation, the stable error taxonomy, and the
// route handlers for prediction, similarity, model metadata, and the
// liveness and readiness probes.
//
// Handlers translate every failure into an ErrorResponse with a stable error
// kind before writing it, and record a request counter and latency sample per
// route so the autoscaler has a uniform signal across endpoints.
package api
