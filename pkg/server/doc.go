// Package server exposes the pipeline over HTTP.
//
// # Routes
//
//	POST /v1/simulate   run a machine and return its trace graph
//	POST /v1/pebble     pebble a graph (?strategy=time|space)
//	POST /v1/validate   report graph validity and acyclicity
//	GET  /metrics       Prometheus metrics, when a handler is configured
//	GET  /healthz       liveness
//
// Request and response bodies are JSON. Graphs use the format of
// [io.WriteJSON]. Every simulate and pebble response carries the run ID in
// the X-Run-ID header.
//
// # Errors
//
// Failures are answered with {"code": ..., "error": ...}. The status comes
// from [errors.HTTPStatus]: a cyclic graph sent to /v1/pebble is a 422
// with code CYCLE, malformed input is a 400.
//
// [io.WriteJSON]: github.com/matzehuels/tapegraph/pkg/io.WriteJSON
// [errors.HTTPStatus]: github.com/matzehuels/tapegraph/pkg/errors.HTTPStatus
package server
