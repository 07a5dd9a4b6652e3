// Package transform provides graph repairs that prepare a dependency graph
// for pebbling and drawing.
//
// # Overview
//
// Hand-edited or imported graphs may contain cycles or redundant edges. A
// trace produced by the trace package never does, but the same utilities
// are useful for comparing it with its transitive reduction.
//
// # Cycle Breaking
//
// [BreakCycles] removes the back edges of a depth-first search. The search
// is iterative and visits nodes in ascending ID order, so the removed edges
// are reproducible.
//
// # Transitive Reduction
//
// [TransitiveReduction] removes edges implied by longer paths. If A→B and
// B→C exist, then A→C is redundant and removed.
//
// # Layering
//
// [AssignLayers] computes longest-path layers and [Layout] turns them into
// presentation coordinates for the renderer.
//
// [Repair] applies all three in order.
package transform
