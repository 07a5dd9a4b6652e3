package dag

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNodeWithID] for negative IDs.
	ErrInvalidNodeID = errors.New("node ID must not be negative")

	// ErrDuplicateNodeID is returned by [Graph.AddNodeWithID] when a node
	// with the same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] for an edge from a node to
	// itself. A self-loop is a cycle of length one and can never be pebbled.
	ErrSelfLoop = errors.New("self-loop edges are not allowed")

	// ErrNodeNotFound is returned by operations on a node that does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrGraphHasCycle is the sentinel wrapped by [CycleError].
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// CycleError is returned by [Graph.TopologicalOrder] when Kahn's algorithm
// cannot emit every node. Remaining lists the nodes that were left over, in
// ascending order: every cycle passes only through these nodes.
type CycleError struct {
	Remaining []NodeID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle through %d node(s): %v", len(e.Remaining), e.Remaining)
}

// Unwrap returns [ErrGraphHasCycle].
func (e *CycleError) Unwrap() error { return ErrGraphHasCycle }

// NodeID identifies a node. IDs are assigned by the graph in increasing
// order and never reused until [Graph.Clear].
type NodeID int

// Metadata stores arbitrary key-value pairs attached to the graph, such as
// the machine a trace was built from.
type Metadata map[string]any

// PebbleState is the current pebble state of a node.
type PebbleState int

const (
	Unpebbled PebbleState = iota
	Pebbled
)

func (s PebbleState) String() string {
	if s == Pebbled {
		return "pebbled"
	}
	return "unpebbled"
}

// Node is a computation event in the dependency graph.
//
// X and Y are presentation coordinates and have no meaning to the graph.
// EverPebbled is a persistent witness: once set it stays set until
// [Graph.ResetPebbles] or [Graph.Clear].
type Node struct {
	ID          NodeID
	X, Y        float64
	Pebble      PebbleState
	EverPebbled bool
}

// IsPebbled reports whether the node currently holds a pebble.
func (n Node) IsPebbled() bool { return n.Pebble == Pebbled }

// Edge is a directed dependency: To depends on From.
type Edge struct {
	From NodeID
	To   NodeID
}

type slot struct {
	node  Node
	alive bool
	succ  []NodeID // sorted
	pred  []NodeID // sorted
}

// Graph is a directed dependency graph stored as an arena indexed by NodeID.
// Adjacency lists are kept sorted so every query returns nodes in ascending
// order.
//
// A Graph may contain cycles; [Graph.TopologicalOrder] detects them.
// The zero value is not usable; use New.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	slots []slot
	next  NodeID
	nodes int
	edges int
	meta  Metadata
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{meta: Metadata{}}
}

// Meta returns the graph-level metadata. The map is never nil and is live.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode creates a node with the next free ID and returns it.
func (g *Graph) AddNode() NodeID {
	id := g.next
	g.put(id, 0, 0)
	return id
}

// AddNodeWithID creates a node with an explicit ID, as used when importing a
// persisted graph. The counter advances past id so later AddNode calls never
// collide.
func (g *Graph) AddNodeWithID(id NodeID, x, y float64) error {
	if id < 0 {
		return ErrInvalidNodeID
	}
	if g.HasNode(id) {
		return fmt.Errorf("%w: %d", ErrDuplicateNodeID, id)
	}
	g.put(id, x, y)
	return nil
}

func (g *Graph) put(id NodeID, x, y float64) {
	for int(id) >= len(g.slots) {
		g.slots = append(g.slots, slot{})
	}
	g.slots[id] = slot{node: Node{ID: id, X: x, Y: y}, alive: true}
	g.nodes++
	if id >= g.next {
		g.next = id + 1
	}
}

// SetPosition updates the presentation coordinates of a node.
func (g *Graph) SetPosition(id NodeID, x, y float64) error {
	s := g.slot(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	s.node.X, s.node.Y = x, y
	return nil
}

// RemoveNode deletes a node and every edge incident to it. It reports
// whether the node existed.
func (g *Graph) RemoveNode(id NodeID) bool {
	s := g.slot(id)
	if s == nil {
		return false
	}
	for _, to := range s.succ {
		g.slots[to].pred = remove(g.slots[to].pred, id)
	}
	for _, from := range s.pred {
		g.slots[from].succ = remove(g.slots[from].succ, id)
	}
	g.edges -= len(s.succ) + len(s.pred)
	*s = slot{}
	g.nodes--
	return true
}

// AddEdge adds the dependency from -> to. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(from, to NodeID) error {
	if !g.HasNode(from) {
		return fmt.Errorf("%w: %d", ErrUnknownSourceNode, from)
	}
	if !g.HasNode(to) {
		return fmt.Errorf("%w: %d", ErrUnknownTargetNode, to)
	}
	if from == to {
		return fmt.Errorf("%w: %d", ErrSelfLoop, from)
	}
	succ, added := insert(g.slots[from].succ, to)
	if !added {
		return nil
	}
	g.slots[from].succ = succ
	g.slots[to].pred, _ = insert(g.slots[to].pred, from)
	g.edges++
	return nil
}

// RemoveEdge deletes the edge from -> to. It reports whether the edge existed.
func (g *Graph) RemoveEdge(from, to NodeID) bool {
	if !g.HasEdge(from, to) {
		return false
	}
	g.slots[from].succ = remove(g.slots[from].succ, to)
	g.slots[to].pred = remove(g.slots[to].pred, from)
	g.edges--
	return true
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id NodeID) bool { return g.slot(id) != nil }

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to NodeID) bool {
	s := g.slot(from)
	if s == nil {
		return false
	}
	_, found := slices.BinarySearch(s.succ, to)
	return found
}

// Node returns a copy of the node.
func (g *Graph) Node(id NodeID) (Node, bool) {
	s := g.slot(id)
	if s == nil {
		return Node{}, false
	}
	return s.node, true
}

// Successors returns the nodes that depend on id, ascending.
func (g *Graph) Successors(id NodeID) []NodeID {
	if s := g.slot(id); s != nil {
		return slices.Clone(s.succ)
	}
	return nil
}

// Predecessors returns the nodes id depends on, ascending.
func (g *Graph) Predecessors(id NodeID) []NodeID {
	if s := g.slot(id); s != nil {
		return slices.Clone(s.pred)
	}
	return nil
}

// InDegree returns the number of predecessors of id.
func (g *Graph) InDegree(id NodeID) int {
	if s := g.slot(id); s != nil {
		return len(s.pred)
	}
	return 0
}

// OutDegree returns the number of successors of id.
func (g *Graph) OutDegree(id NodeID) int {
	if s := g.slot(id); s != nil {
		return len(s.succ)
	}
	return 0
}

// NodeIDs returns all node IDs in ascending order.
func (g *Graph) NodeIDs() []NodeID {
	out := make([]NodeID, 0, g.nodes)
	for i := range g.slots {
		if g.slots[i].alive {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Nodes returns copies of all nodes in ascending ID order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, g.nodes)
	for i := range g.slots {
		if g.slots[i].alive {
			out = append(out, g.slots[i].node)
		}
	}
	return out
}

// Edges returns all edges sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i := range g.slots {
		for _, to := range g.slots[i].succ {
			out = append(out, Edge{From: NodeID(i), To: to})
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return g.nodes }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// NextID returns the ID the next AddNode call will assign.
func (g *Graph) NextID() NodeID { return g.next }

// Sources returns nodes without predecessors, ascending.
func (g *Graph) Sources() []NodeID {
	var out []NodeID
	for i := range g.slots {
		if g.slots[i].alive && len(g.slots[i].pred) == 0 {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Sinks returns nodes without successors, ascending.
func (g *Graph) Sinks() []NodeID {
	var out []NodeID
	for i := range g.slots {
		if g.slots[i].alive && len(g.slots[i].succ) == 0 {
			out = append(out, NodeID(i))
		}
	}
	return out
}

// Clear removes all nodes, edges and metadata and resets the ID counter.
func (g *Graph) Clear() {
	g.slots = nil
	g.next = 0
	g.nodes = 0
	g.edges = 0
	g.meta = Metadata{}
}

// Clone returns a deep copy, including pebble state and the ID counter.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		slots: make([]slot, len(g.slots)),
		next:  g.next,
		nodes: g.nodes,
		edges: g.edges,
		meta:  make(Metadata, len(g.meta)),
	}
	for i, s := range g.slots {
		c.slots[i] = slot{node: s.node, alive: s.alive, succ: slices.Clone(s.succ), pred: slices.Clone(s.pred)}
	}
	for k, v := range g.meta {
		c.meta[k] = v
	}
	return c
}

// Replace makes g a deep copy of src. Callers that must keep a graph
// unchanged on failure build into a scratch graph and Replace on success.
func (g *Graph) Replace(src *Graph) {
	*g = *src.Clone()
}

func (g *Graph) slot(id NodeID) *slot {
	if id < 0 || int(id) >= len(g.slots) || !g.slots[id].alive {
		return nil
	}
	return &g.slots[id]
}

func insert(s []NodeID, id NodeID) ([]NodeID, bool) {
	i, found := slices.BinarySearch(s, id)
	if found {
		return s, false
	}
	return slices.Insert(s, i, id), true
}

func remove(s []NodeID, id NodeID) []NodeID {
	i, found := slices.BinarySearch(s, id)
	if !found {
		return s
	}
	return slices.Delete(s, i, i+1)
}
