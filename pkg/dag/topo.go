package dag

import "container/heap"

// idHeap is a min-heap of node IDs.
type idHeap []NodeID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(NodeID)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalOrder returns the nodes ordered so that every edge points from
// an earlier to a later node, using Kahn's algorithm. Among nodes that are
// ready at the same time the lowest ID goes first, so the order is unique
// for a given graph.
//
// If the graph has a cycle it returns a *[CycleError] and no order. The graph
// is never modified.
func (g *Graph) TopologicalOrder() ([]NodeID, error) {
	indeg := make([]int, len(g.slots))
	ready := &idHeap{}
	for i := range g.slots {
		if !g.slots[i].alive {
			continue
		}
		indeg[i] = len(g.slots[i].pred)
		if indeg[i] == 0 {
			*ready = append(*ready, NodeID(i))
		}
	}
	heap.Init(ready)

	order := make([]NodeID, 0, g.nodes)
	for ready.Len() > 0 {
		u := heap.Pop(ready).(NodeID)
		order = append(order, u)
		for _, v := range g.slots[u].succ {
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}

	if len(order) < g.nodes {
		var remaining []NodeID
		for i := range g.slots {
			if g.slots[i].alive && indeg[i] > 0 {
				remaining = append(remaining, NodeID(i))
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}
	return order, nil
}

// IsAcyclic reports whether the graph has no directed cycle.
func (g *Graph) IsAcyclic() bool {
	_, err := g.TopologicalOrder()
	return err == nil
}
