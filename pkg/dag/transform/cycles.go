package transform

import "github.com/matzehuels/tapegraph/pkg/dag"

// BreakCycles removes back edges found by a depth-first search until the
// graph is acyclic, and returns the number of edges removed.
//
// The search starts from sources, then from any node not yet visited, both
// in ascending ID order, so the removed edges are the same on every run.
// It uses an explicit stack and is safe on arbitrarily deep graphs.
func BreakCycles(g *dag.Graph) int {
	const (
		white = iota
		gray
		black
	)

	type frame struct {
		node  dag.NodeID
		succ  []dag.NodeID
		index int
	}

	color := make(map[dag.NodeID]int, g.NodeCount())
	var backEdges []dag.Edge

	dfs := func(root dag.NodeID) {
		color[root] = gray
		stack := []frame{{node: root, succ: g.Successors(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.index == len(top.succ) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.succ[top.index]
			top.index++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{node: child, succ: g.Successors(child)})
			case gray:
				backEdges = append(backEdges, dag.Edge{From: top.node, To: child})
			}
		}
	}

	for _, id := range g.Sources() {
		if color[id] == white {
			dfs(id)
		}
	}
	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfs(id)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e.From, e.To)
	}
	return len(backEdges)
}
