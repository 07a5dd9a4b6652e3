package pebble

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

func TestTimeOriented_Diamond(t *testing.T) {
	g := diamond(t)
	moves, err := TimeOriented(g)
	if err != nil {
		t.Fatal(err)
	}

	want := []Move{
		{Place, 0, 0},
		{Place, 1, 1},
		{Place, 2, 2},
		{Remove, 0, 3},
		{Place, 3, 4},
		{Remove, 1, 5},
		{Remove, 2, 6},
		{Remove, 3, 7},
	}
	if !slices.Equal(moves, want) {
		t.Errorf("TimeOriented() =\n%v\nwant\n%v", moves, want)
	}
	if !g.IsFullyPebbled() {
		t.Error("IsFullyPebbled() = false after TimeOriented")
	}
	if g.PebbledCount() != 0 {
		t.Errorf("PebbledCount() = %d, want 0", g.PebbledCount())
	}
}

func TestTimeOriented_RemovedSinkSibling(t *testing.T) {
	// A→B, A→C: B is a sink and is removed before C is placed, so A's
	// successors are never all pebbled at once and A keeps its pebble
	g := dag.New()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	_ = g.AddEdge(a, b)
	_ = g.AddEdge(a, c)

	moves, err := TimeOriented(g)
	if err != nil {
		t.Fatal(err)
	}
	want := []Move{
		{Place, a, 0},
		{Place, b, 1},
		{Remove, b, 2},
		{Place, c, 3},
		{Remove, c, 4},
	}
	if !slices.Equal(moves, want) {
		t.Errorf("TimeOriented() =\n%v\nwant\n%v", moves, want)
	}
	if n, _ := g.Node(a); !n.IsPebbled() || g.PebbledCount() != 1 {
		t.Errorf("PebbledCount() = %d, want only %d pebbled", g.PebbledCount(), a)
	}
	if !g.IsFullyPebbled() {
		t.Error("IsFullyPebbled() = false")
	}
}

func TestStrategies_Cycle(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			g := dag.New()
			x, y := g.AddNode(), g.AddNode()
			_ = g.AddEdge(x, y)
			_ = g.AddEdge(y, x)

			s, _ := Lookup(name)
			moves, err := s(g)
			if !errors.Is(err, dag.ErrGraphHasCycle) {
				t.Errorf("error = %v, want cycle", err)
			}
			if moves != nil {
				t.Errorf("moves = %v, want nil", moves)
			}
			if g.EdgeCount() != 2 {
				t.Error("graph modified")
			}
		})
	}
}

func TestStrategies_EmptyAndSingleton(t *testing.T) {
	for _, name := range Names() {
		s, _ := Lookup(name)
		moves, err := s(dag.New())
		if err != nil || len(moves) != 0 {
			t.Errorf("%s on empty graph = %v, %v", name, moves, err)
		}

		g := dag.New()
		g.AddNode()
		moves, err = s(g)
		want := []Move{{Place, 0, 0}, {Remove, 0, 1}}
		if err != nil || !slices.Equal(moves, want) {
			t.Errorf("%s on singleton = %v, %v", name, moves, err)
		}
	}
}

func TestSpaceOriented_LowerPeak(t *testing.T) {
	// three independent pairs 0→3, 1→4, 2→5: walking the topological
	// order holds all three sources at once
	g := dag.New()
	for range 6 {
		g.AddNode()
	}
	_ = g.AddEdge(0, 3)
	_ = g.AddEdge(1, 4)
	_ = g.AddEdge(2, 5)

	timeMoves, _ := TimeOriented(g)
	spaceMoves, _ := SpaceOriented(g)
	ts, err := Verify(g, timeMoves)
	if err != nil {
		t.Fatal(err)
	}
	ss, err := Verify(g, spaceMoves)
	if err != nil {
		t.Fatal(err)
	}
	if ts.Peak != 4 || ss.Peak != 2 {
		t.Errorf("peaks: time = %d, space = %d, want 4 and 2", ts.Peak, ss.Peak)
	}
}

func TestLookup(t *testing.T) {
	if _, err := Lookup("optimal"); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Lookup(optimal) error = %v", err)
	}
	if got := Names(); !slices.Equal(got, []string{"space", "time"}) {
		t.Errorf("Names() = %v", got)
	}
}

func randomDAG(r *rand.Rand, n int, p float64) *dag.Graph {
	g := dag.New()
	for range n {
		g.AddNode()
	}
	perm := r.Perm(n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if r.Float64() < p {
				_ = g.AddEdge(dag.NodeID(perm[i]), dag.NodeID(perm[j]))
			}
		}
	}
	return g
}

// TestStrategies_Properties checks legality and coverage of both strategies
// on random acyclic graphs by replaying every move against the rule.
func TestStrategies_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 99))
	for _, name := range Names() {
		s, _ := Lookup(name)
		for trial := range 200 {
			g := randomDAG(r, 1+r.IntN(25), 0.15)
			moves, err := s(g)
			if err != nil {
				t.Fatalf("%s trial %d: %v", name, trial, err)
			}

			pebbled := make(map[dag.NodeID]bool)
			for i, m := range moves {
				if m.Time != i {
					t.Fatalf("%s trial %d: move %d has time %d", name, trial, i, m.Time)
				}
				if m.Action == Remove {
					delete(pebbled, m.Node)
					continue
				}
				for _, p := range g.Predecessors(m.Node) {
					if !pebbled[p] {
						t.Fatalf("%s trial %d: %v placed without predecessor %d", name, trial, m, p)
					}
				}
				pebbled[m.Node] = true
			}

			if !g.IsFullyPebbled() {
				t.Fatalf("%s trial %d: not fully pebbled", name, trial)
			}
			// the time strategy may leave a source whose sink successor was
			// removed before its last sibling was placed
			if name == StrategySpace && len(pebbled) != 0 {
				t.Fatalf("%s trial %d: %d pebbles left on the graph", name, trial, len(pebbled))
			}
			if _, err := Verify(g, moves); err != nil {
				t.Fatalf("%s trial %d: Verify() = %v", name, trial, err)
			}
		}
	}
}
