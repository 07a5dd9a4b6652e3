// Package dag provides the dependency graph that connects the steps of a
// Turing machine run and that the pebble game is played on.
//
// # Overview
//
// Nodes are computation events identified by a [NodeID]. An edge From -> To
// means To depends on From. The graph is stored as an arena: node IDs index a
// slice and adjacency lists are sorted slices of IDs, so every query returns
// nodes in ascending order and results are reproducible.
//
// IDs come from a counter owned by the graph. The counter only moves forward;
// removing a node leaves a gap, and only [Graph.Clear] resets it.
//
// # Basic Usage
//
//	g := dag.New()
//	a := g.AddNode()
//	b := g.AddNode()
//	g.AddEdge(a, b)
//	order, err := g.TopologicalOrder()
//
// Duplicate edges are ignored. Self-loops are rejected with [ErrSelfLoop].
// Removing a node removes all of its edges.
//
// # Validity and Cycles
//
// [Graph.Validate] reports isolated nodes; graphs with zero or one node are
// trivially valid. Cycles are detected by [Graph.TopologicalOrder], which
// runs Kahn's algorithm with a min-heap tie-break and returns a *[CycleError]
// when some nodes cannot be emitted.
//
// # Pebbles
//
// Each node carries its current [PebbleState] and an EverPebbled witness.
// These are changed only through [Graph.SetPebbled] and
// [Graph.ResetPebbles], which the pebble package drives.
//
// # Traversal
//
// [Graph.Ancestors] and [Graph.Descendants] walk the graph with an explicit
// stack, so arbitrarily deep traces do not grow the call stack.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. Callers that share one between an
// engine trace and a reader must serialize access.
package dag
