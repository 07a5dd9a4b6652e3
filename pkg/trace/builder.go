package trace

import (
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

// Graph metadata keys set by [Builder.Begin].
const (
	MetaTapes      = "tapes"
	MetaComplexity = "complexity"
	MetaStart      = "start"
)

// LineageMode selects which cell a step claims as its output.
type LineageMode int

const (
	// WrittenCell records the step as the last writer of the cell it wrote,
	// which is the cell under the head before the move. A later step reading
	// that cell depends on it.
	WrittenCell LineageMode = iota
	// HeadCell records the step on the cell under the head after the move.
	// Every step then reads the lineage of its predecessor, so the graph
	// degenerates to a chain.
	HeadCell
)

func (m LineageMode) String() string {
	if m == HeadCell {
		return "head"
	}
	return "written"
}

// ParseLineageMode accepts "written" (or "") and "head".
func ParseLineageMode(s string) (LineageMode, error) {
	switch s {
	case "", "written":
		return WrittenCell, nil
	case "head":
		return HeadCell, nil
	default:
		return WrittenCell, fmt.Errorf("unknown lineage mode %q (want written or head)", s)
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithLineageMode sets the lineage mode (default WrittenCell).
func WithLineageMode(m LineageMode) Option {
	return func(b *Builder) { b.mode = m }
}

// Event describes one traced step.
type Event struct {
	Result tm.StepResult
	// Added reports whether a node was created. It is false when the step
	// did not fire.
	Added bool
	Node  dag.NodeID
	// Deps are the predecessors wired to Node, ascending.
	Deps []dag.NodeID
}

// Builder records engine steps into a graph. The graph and engine are
// owned by the caller and shared by reference; the builder never copies them.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	graph   *dag.Graph
	engine  *tm.Engine
	mode    LineageMode
	prev    dag.NodeID
	started bool
}

// New creates a builder over an engine and a graph.
func New(e *tm.Engine, g *dag.Graph, opts ...Option) *Builder {
	b := &Builder{graph: g, engine: e, mode: WrittenCell}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Graph returns the graph being built.
func (b *Builder) Graph() *dag.Graph { return b.graph }

// Engine returns the traced engine.
func (b *Builder) Engine() *tm.Engine { return b.engine }

// Started reports whether Begin has run since the last Reset.
func (b *Builder) Started() bool { return b.started }

// Previous returns the most recent step node, or false before Begin.
func (b *Builder) Previous() (dag.NodeID, bool) { return b.prev, b.started }

// Begin adds n0 for the engine's current configuration and records it as
// the lineage of every head cell. In WrittenCell mode every non-blank cell
// gets it too; in HeadCell mode lineage only ever lives under a head.
// Calling Begin
// again without Reset changes nothing and returns the previous step node.
func (b *Builder) Begin() dag.NodeID {
	if b.started {
		return b.prev
	}
	n0 := b.graph.AddNode()
	m := b.engine.Machine()
	b.graph.Meta()[MetaTapes] = m.Tapes()
	b.graph.Meta()[MetaComplexity] = m.Complexity()
	b.graph.Meta()[MetaStart] = m.Start().Name

	for i := range m.Tapes() {
		t := b.engine.Tape(i)
		t.SetLineageAt(t.Position(), int(n0))
		if b.mode != WrittenCell {
			continue
		}
		for pos := -t.Origin(); pos < t.Len()-t.Origin(); pos++ {
			if t.ReadAt(pos) != t.Blank() {
				t.SetLineageAt(pos, int(n0))
			}
		}
	}
	b.prev = n0
	b.started = true
	return n0
}

// Step advances the engine by one step and records it. Begin is called
// first if needed. An error is only returned if the graph rejects an edge,
// which happens when a caller edited the graph between steps.
func (b *Builder) Step() (Event, error) {
	if !b.started {
		b.Begin()
	}

	res := b.engine.Step()
	ev := Event{Result: res}
	if !res.Outcome.Fired() {
		return ev, nil
	}

	n := b.graph.AddNode()
	deps := make([]dag.NodeID, 0, 1+len(res.Positions))
	if b.graph.HasNode(b.prev) {
		deps = append(deps, b.prev)
	}
	for i, pos := range res.Positions {
		l := b.engine.Tape(i).LineageAt(pos)
		if l == tm.NoLineage || !b.graph.HasNode(dag.NodeID(l)) {
			continue
		}
		deps = append(deps, dag.NodeID(l))
	}
	for _, d := range deps {
		if err := b.graph.AddEdge(d, n); err != nil {
			return ev, fmt.Errorf("trace step %d: %w", b.engine.Steps(), err)
		}
	}

	for i, pos := range res.Positions {
		t := b.engine.Tape(i)
		switch b.mode {
		case HeadCell:
			t.SetLineageAt(t.Position(), int(n))
		default:
			t.SetLineageAt(pos, int(n))
		}
	}

	b.prev = n
	ev.Added = true
	ev.Node = n
	ev.Deps = b.graph.Predecessors(n)
	return ev, nil
}

// Reset forgets the previous step node so the next Step or Begin starts a
// new trace root. It touches neither the engine nor the graph; reset those
// separately with [tm.Engine.Reset] and [dag.Graph.Clear].
func (b *Builder) Reset() {
	b.started = false
	b.prev = 0
}
