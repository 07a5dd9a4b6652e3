// Package pkg provides the core libraries for Tapegraph.
//
// # Overview
//
// Tapegraph runs deterministic multi-tape Turing machines, records every
// step as a node in a dependency graph, and plays the pebble game on that
// graph. The pkg directory is organized into four main areas:
//
//  1. Domain logic: [tm], [dag], [trace], [pebble]
//  2. Serialization and rendering: [io], [render/nodelink]
//  3. Infrastructure: [cache], [errors], [observability], [buildinfo]
//  4. Orchestration: [pipeline], [server]
//
// # Architecture
//
// The typical data flow:
//
//	Machine file (text, TOML, YAML)
//	         ↓
//	    [io] package (parse + build)
//	         ↓
//	    [tm] package (engine steps)
//	         ↓
//	    [trace] package (one node per fired step)
//	         ↓
//	    [pebble] package (strategies + verification)
//	         ↓
//	    JSON/text/DOT/SVG/PNG output
//
// # Quick Start
//
// Run a machine, trace it and pebble the trace:
//
//	import (
//	    "github.com/matzehuels/tapegraph/pkg/dag"
//	    "github.com/matzehuels/tapegraph/pkg/io"
//	    "github.com/matzehuels/tapegraph/pkg/pebble"
//	    "github.com/matzehuels/tapegraph/pkg/tm"
//	    "github.com/matzehuels/tapegraph/pkg/trace"
//	)
//
//	m, _ := io.ReadMachine(file, tm.DefaultBlank)
//	e, _ := tm.NewEngine(m)
//	_ = e.LoadInput(0, "111")
//
//	g := dag.New()
//	b := trace.New(e, g)
//	b.Begin()
//	for !e.Halted() {
//	    if _, err := b.Step(); err != nil {
//	        break
//	    }
//	}
//
//	moves, _ := pebble.SpaceOriented(g)
//	stats, _ := pebble.Verify(g, moves)
//
// [pipeline.Runner] wraps the same steps with caching, step limits and
// cancellation, and is what the CLI and the HTTP server call.
//
// # Main Packages
//
// [tm] - Machine definitions, tapes that grow in both directions and the
// single-step engine. Each written cell remembers the step that wrote it.
//
// [dag] - Arena-backed dependency graph with monotonic node IDs, validity
// checks, Kahn ordering with a lowest-ID tie-break and per-node pebble state.
//
// [dag/transform] - Cycle breaking, transitive reduction and layering for
// graphs that did not come from a trace.
//
// [trace] - Drives an engine and adds a node per fired step, with edges from
// the previous step and from the steps that wrote the cells it read.
//
// [pebble] - The pebble game rules, a time-oriented and a space-oriented
// strategy, and a verifier that replays a move list on a clean copy.
//
// [io] - Machine and graph file formats and move lists.
//
// [render/nodelink] - Graphviz diagrams coloured by pebble state.
//
// [cache] - File, Redis and null caches for simulation and pebbling results.
//
// [server] - HTTP API over the pipeline with Prometheus instrumentation.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/pebble/...   # Specific package
//	go test -run Example       # Examples only
//
// [tm]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/tm
// [dag]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/dag/transform
// [trace]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/trace
// [pebble]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/pebble
// [io]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/pipeline#Runner
// [server]: https://pkg.go.dev/github.com/matzehuels/tapegraph/pkg/server
package pkg
