// Package pebble plays the black pebble game on a dependency graph.
//
// A pebble on a node stands for a stored value. A node may receive a pebble
// only when every predecessor holds one; a pebble may be removed at any
// time. A move sequence pebbles a graph when every node has held a pebble at
// least once.
//
// # Manual Play
//
// [Game] applies moves one at a time and rejects illegal placements with an
// *[IllegalMoveError] without changing any state.
//
// # Strategies
//
// [TimeOriented] walks the topological order, placing each node and freeing
// each predecessor once all of its successors hold a pebble at the same
// time. A predecessor that never reaches that point keeps its pebble.
// [SpaceOriented] picks, among the nodes that are ready, the one that leaves
// the fewest pebbles on the board, which usually lowers the peak number of
// pebbles in use. Neither is optimal.
//
// Both strategies require an acyclic graph and return a *[dag.CycleError]
// otherwise. They record their moves through a [Game] on the graph, so
// afterwards every node has EverPebbled set.
//
// # Verification
//
// [Verify] replays a move list on a copy of the graph and reports the peak
// pebble count, or the first illegal move.
package pebble
