// Package server owns the application HTTP listener: the echo instance, the
// middleware chain (panic recovery, CORS, tracing, process-time header,
// request logging), the route table, and the start/drain lifecycle hooks.
//
// The metrics listener is not here; it lives in the metrics package on its
// own port so scrapes never contend with inference traffic.
package server
