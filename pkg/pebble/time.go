package pebble

import (
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// TimeOriented computes a pebbling by walking the topological order once.
// For each node u:
//
//  1. any predecessor of u without a pebble is re-placed
//  2. u is placed
//  3. each predecessor whose successors all hold a pebble right now is removed
//  4. u is removed at once if it has no successors
//
// Step 3 looks at the live pebbles only. A predecessor whose sink successor
// was already removed in step 4 therefore keeps its pebble, and the final
// position may hold pebbles. The move count is at most 2·V.
//
// The graph's pebble state is reset first and reflects the final position
// afterwards.
func TimeOriented(g *dag.Graph) ([]Move, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	gm := NewGame(g)
	for _, u := range order {
		preds := g.Predecessors(u)
		for _, p := range preds {
			if n, _ := g.Node(p); !n.IsPebbled() {
				if _, err := gm.Place(p); err != nil {
					return nil, fmt.Errorf("re-derive %d for %d: %w", p, u, err)
				}
			}
		}
		if _, err := gm.Place(u); err != nil {
			return nil, err
		}
		for _, p := range preds {
			if n, _ := g.Node(p); n.IsPebbled() && allLive(g, p) {
				if _, err := gm.Remove(p); err != nil {
					return nil, err
				}
			}
		}
		if g.OutDegree(u) == 0 {
			if _, err := gm.Remove(u); err != nil {
				return nil, err
			}
		}
	}
	return gm.Moves(), nil
}

// allLive reports whether every successor of id currently holds a pebble.
func allLive(g *dag.Graph, id dag.NodeID) bool {
	for _, s := range g.Successors(id) {
		if n, _ := g.Node(s); !n.IsPebbled() {
			return false
		}
	}
	return true
}
