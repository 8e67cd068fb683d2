// Package tracer provides distributed tracing with OpenTelemetry.
//
// The embedding server is a leaf service: it receives trace context from its
// callers through W3C headers and emits one span per request plus a child
// span around the inference call. Export to an OTLP collector is opt-in via
// configuration; without it spans stay in-process.
package tracer
