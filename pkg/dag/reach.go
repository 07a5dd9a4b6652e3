package dag

import "slices"

// Ancestors returns every node from which id is reachable, ascending.
// The walk uses an explicit stack.
func (g *Graph) Ancestors(id NodeID) []NodeID {
	return g.walk(id, func(s *slot) []NodeID { return s.pred })
}

// Descendants returns every node reachable from id, ascending.
func (g *Graph) Descendants(id NodeID) []NodeID {
	return g.walk(id, func(s *slot) []NodeID { return s.succ })
}

// Reachable reports whether to can be reached from from along edges.
func (g *Graph) Reachable(from, to NodeID) bool {
	if !g.HasNode(from) || !g.HasNode(to) {
		return false
	}
	return slices.Contains(g.Descendants(from), to)
}

func (g *Graph) walk(start NodeID, next func(*slot) []NodeID) []NodeID {
	if !g.HasNode(start) {
		return nil
	}
	seen := make([]bool, len(g.slots))
	seen[start] = true
	stack := []NodeID{start}
	var out []NodeID
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, v := range next(&g.slots[u]) {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
			stack = append(stack, v)
		}
	}
	slices.Sort(out)
	return out
}
