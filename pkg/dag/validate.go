package dag

import (
	"fmt"
	"strings"
)

// ValidityKind is the outcome of [Graph.Validate].
type ValidityKind int

const (
	// EmptyOK: the graph has no nodes.
	EmptyOK ValidityKind = iota
	// SingletonOK: the graph has exactly one node.
	SingletonOK
	// IsolatedNode: the graph has two or more nodes and one of them has no
	// incident edges.
	IsolatedNode
	// OK: every node has at least one incident edge.
	OK
)

func (k ValidityKind) String() string {
	switch k {
	case EmptyOK:
		return "empty-ok"
	case SingletonOK:
		return "singleton-ok"
	case IsolatedNode:
		return "isolated-node"
	case OK:
		return "ok"
	default:
		return fmt.Sprintf("validity(%d)", int(k))
	}
}

// Validity is the result of [Graph.Validate]. Node is only meaningful when
// Kind is IsolatedNode.
type Validity struct {
	Kind ValidityKind
	Node NodeID
}

// Valid reports whether the graph passed validation.
func (v Validity) Valid() bool { return v.Kind != IsolatedNode }

func (v Validity) String() string {
	if v.Kind == IsolatedNode {
		return fmt.Sprintf("isolated-node(%d)", v.Node)
	}
	return v.Kind.String()
}

// Validate checks that no node is isolated. Graphs with fewer than two nodes
// are trivially valid. The isolated node reported is the one with the lowest ID.
//
// Validate does not check for cycles; use [Graph.TopologicalOrder].
func (g *Graph) Validate() Validity {
	switch g.nodes {
	case 0:
		return Validity{Kind: EmptyOK}
	case 1:
		return Validity{Kind: SingletonOK}
	}
	for i := range g.slots {
		s := &g.slots[i]
		if s.alive && len(s.pred) == 0 && len(s.succ) == 0 {
			return Validity{Kind: IsolatedNode, Node: NodeID(i)}
		}
	}
	return Validity{Kind: OK}
}

// Report returns a multi-line summary of the graph: validity, nodes with
// coordinates and pebble state, and edges.
func (g *Graph) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Validity: %s\n", g.Validate())
	fmt.Fprintf(&sb, "Nodes: %d\n", g.nodes)
	for _, n := range g.Nodes() {
		fmt.Fprintf(&sb, "  %d (%g, %g) %s", n.ID, n.X, n.Y, n.Pebble)
		if n.EverPebbled {
			sb.WriteString(" ever")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Edges: %d\n", g.edges)
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "  %d -> %d\n", e.From, e.To)
	}
	return sb.String()
}
