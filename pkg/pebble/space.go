package pebble

import (
	"github.com/matzehuels/tapegraph/pkg/dag"
)

// SpaceOriented computes a pebbling that tries to keep few pebbles on the
// graph at once.
//
// A node is ready when all of its predecessors have been pebbled. At each
// turn the ready node with the lowest cost is placed, where cost is the net
// change in pebbles after the placement and the removals it enables: +1 for
// the node, -1 for each predecessor it is the last unserved successor of,
// and -1 if it is a sink. Ties go to the lowest ID. A predecessor is freed
// as soon as each of its successors has held a pebble, and a sink right
// after placement, so no pebbles remain at the end.
//
// This is a greedy heuristic: it does not guarantee the minimum peak.
func SpaceOriented(g *dag.Graph) ([]Move, error) {
	if _, err := g.TopologicalOrder(); err != nil {
		return nil, err
	}

	gm := NewGame(g)
	ids := g.NodeIDs()

	// unserved[p] counts successors of p that have not been pebbled yet;
	// waiting[u] counts predecessors of u that have not been pebbled yet.
	unserved := make(map[dag.NodeID]int, len(ids))
	waiting := make(map[dag.NodeID]int, len(ids))
	ready := make(map[dag.NodeID]bool)
	for _, id := range ids {
		unserved[id] = g.OutDegree(id)
		waiting[id] = g.InDegree(id)
		if waiting[id] == 0 {
			ready[id] = true
		}
	}

	cost := func(u dag.NodeID) int {
		c := 1
		for _, p := range g.Predecessors(u) {
			if unserved[p] == 1 {
				c--
			}
		}
		if unserved[u] == 0 {
			c--
		}
		return c
	}

	for len(ready) > 0 {
		best, bestCost := dag.NodeID(-1), 0
		for _, id := range ids {
			if !ready[id] {
				continue
			}
			if c := cost(id); best < 0 || c < bestCost {
				best, bestCost = id, c
			}
		}
		delete(ready, best)

		if _, err := gm.Place(best); err != nil {
			return nil, err
		}
		for _, p := range g.Predecessors(best) {
			unserved[p]--
			if unserved[p] == 0 {
				if _, err := gm.Remove(p); err != nil {
					return nil, err
				}
			}
		}
		if unserved[best] == 0 {
			if _, err := gm.Remove(best); err != nil {
				return nil, err
			}
		}
		for _, s := range g.Successors(best) {
			waiting[s]--
			if waiting[s] == 0 {
				ready[s] = true
			}
		}
	}
	return gm.Moves(), nil
}
