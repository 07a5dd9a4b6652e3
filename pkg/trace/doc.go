// Package trace turns the steps of a Turing machine run into a dependency
// graph.
//
// A [Builder] wraps a [tm.Engine] and a [dag.Graph]. [Builder.Begin] adds
// node n0 for the initial configuration. Every step that fires a transition
// adds one node n_k with an edge from the previous step node (control
// dependency) and an edge from the node that last wrote each cell the step
// reads (data dependency). The written cells then record n_k as their
// lineage.
//
// Steps that do not fire (rejected or already accepted) add nothing.
//
// The resulting graph is acyclic by construction: every edge points from an
// older node to a newer one.
package trace
