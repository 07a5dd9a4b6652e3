package transform

import "github.com/matzehuels/tapegraph/pkg/dag"

// TransitiveReduction removes every edge (u, v) for which another path from
// u to v exists, and returns the number of edges removed. If A→B, B→C and
// A→C all exist, A→C is removed.
//
// The graph must be acyclic; run [BreakCycles] first if unsure. The reduced
// graph has the same reachability but smaller predecessor sets, so it
// usually needs fewer pebbles.
//
// # Performance
//
// Reachability is computed with one iterative search per node: O(V·(V+E))
// time and O(V²) bits of space.
func TransitiveReduction(g *dag.Graph) int {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return 0
	}

	index := make(map[dag.NodeID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	adjacency := make([][]int, len(ids))
	for _, e := range g.Edges() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}

	reachable := computeReachability(adjacency)

	removed := 0
	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, mid := range adjacency[src] {
			if mid != dst && reachable[mid][dst] {
				g.RemoveEdge(e.From, e.To)
				removed++
				break
			}
		}
	}
	return removed
}

func computeReachability(adjacency [][]int) [][]bool {
	n := len(adjacency)
	reachable := make([][]bool, n)
	stack := make([]int, 0, n)
	for source := range n {
		row := make([]bool, n)
		row[source] = true
		stack = append(stack[:0], source)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adjacency[cur] {
				if !row[next] {
					row[next] = true
					stack = append(stack, next)
				}
			}
		}
		reachable[source] = row
	}
	return reachable
}
