package trace

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

func mustMachine(t *testing.T, b *tm.Builder) *tm.Machine {
	t.Helper()
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func copyMachine(t *testing.T) *tm.Machine {
	t.Helper()
	b := tm.NewBuilder(2)
	_ = b.AddState("scan", true, false)
	_ = b.AddState("done", false, true)
	for _, s := range []tm.Symbol{'a', 'b'} {
		if err := b.AddTransition("scan", []tm.Symbol{s, '#'}, "scan", []tm.Symbol{s, s}, []tm.Move{tm.Right, tm.Right}); err != nil {
			t.Fatal(err)
		}
	}
	_ = b.AddTransition("scan", []tm.Symbol{'#', '#'}, "done", []tm.Symbol{'#', '#'}, []tm.Move{tm.Stay, tm.Stay})
	return mustMachine(t, b)
}

func runAll(t *testing.T, b *Builder) []Event {
	t.Helper()
	var events []Event
	for range 100 {
		ev, err := b.Step()
		if err != nil {
			t.Fatal(err)
		}
		events = append(events, ev)
		if !ev.Added || ev.Result.Outcome != tm.Stepped {
			break
		}
	}
	return events
}

func TestBuilder_TwoTapeCopy(t *testing.T) {
	e, _ := tm.NewEngine(copyMachine(t))
	if err := e.LoadInput(0, "ab"); err != nil {
		t.Fatal(err)
	}
	g := dag.New()
	b := New(e, g)

	if n0 := b.Begin(); n0 != 0 {
		t.Fatalf("Begin() = %d, want 0", n0)
	}
	events := runAll(t, b)

	if len(events) != 3 || events[2].Result.Outcome != tm.Accepted {
		t.Fatalf("events = %+v, want 3 steps ending in accept", events)
	}
	want := []dag.Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 2}, {From: 2, To: 3}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
	if !slices.Equal(events[1].Deps, []dag.NodeID{0, 1}) {
		t.Errorf("Deps of n2 = %v, want [0 1]", events[1].Deps)
	}
	if g.Meta()[MetaTapes] != 2 || g.Meta()[MetaStart] != "scan" {
		t.Errorf("Meta() = %v", g.Meta())
	}
}

// bounceMachine writes 1, steps right, steps back left and reads the 1 again.
func bounceMachine(t *testing.T) *tm.Machine {
	t.Helper()
	b := tm.NewBuilder(1)
	_ = b.AddState("q0", true, false)
	_ = b.AddState("q1", false, false)
	_ = b.AddState("q2", false, false)
	_ = b.AddState("q3", false, true)
	_ = b.AddTransition("q0", []tm.Symbol{'#'}, "q1", []tm.Symbol{'1'}, []tm.Move{tm.Right})
	_ = b.AddTransition("q1", []tm.Symbol{'#'}, "q2", []tm.Symbol{'#'}, []tm.Move{tm.Left})
	_ = b.AddTransition("q2", []tm.Symbol{'1'}, "q3", []tm.Symbol{'1'}, []tm.Move{tm.Stay})
	return mustMachine(t, b)
}

func TestBuilder_ReadAfterWrite(t *testing.T) {
	e, _ := tm.NewEngine(bounceMachine(t))
	g := dag.New()
	b := New(e, g)
	runAll(t, b)

	// n3 reads the cell n1 wrote
	if !g.HasEdge(1, 3) {
		t.Errorf("missing data edge 1 -> 3; Edges() = %v", g.Edges())
	}
	if !g.HasEdge(2, 3) {
		t.Errorf("missing control edge 2 -> 3; Edges() = %v", g.Edges())
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
}

func TestBuilder_HeadCellModeIsChain(t *testing.T) {
	e, _ := tm.NewEngine(bounceMachine(t))
	g := dag.New()
	b := New(e, g, WithLineageMode(HeadCell))
	runAll(t, b)

	want := []dag.Edge{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want chain %v", got, want)
	}
}

func TestBuilder_BeginSeedsLineage(t *testing.T) {
	tests := []struct {
		mode LineageMode
		want int // lineage of the input cell right of the head
	}{
		{WrittenCell, 0},
		{HeadCell, tm.NoLineage},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			e, _ := tm.NewEngine(copyMachine(t))
			if err := e.LoadInput(0, "ab"); err != nil {
				t.Fatal(err)
			}
			b := New(e, dag.New(), WithLineageMode(tt.mode))
			b.Begin()

			tape := e.Tape(0)
			if got := tape.LineageAt(0); got != 0 {
				t.Errorf("LineageAt(head) = %d, want 0", got)
			}
			if got := tape.LineageAt(1); got != tt.want {
				t.Errorf("LineageAt(1) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuilder_NoNodeWithoutTransition(t *testing.T) {
	e, _ := tm.NewEngine(bounceMachine(t))
	e.Tape(0).Write('x')
	g := dag.New()
	b := New(e, g)

	ev, err := b.Step()
	if err != nil {
		t.Fatal(err)
	}
	if ev.Added || ev.Result.Outcome != tm.Rejected {
		t.Errorf("Step() = %+v, want rejected without node", ev)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want only n0", g.NodeCount())
	}
}

func TestBuilder_BeginIdempotentAndReset(t *testing.T) {
	e, _ := tm.NewEngine(bounceMachine(t))
	g := dag.New()
	b := New(e, g)

	b.Begin()
	b.Begin()
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d after two Begin calls, want 1", g.NodeCount())
	}

	b.Reset()
	e.Reset()
	g.Clear()
	if b.Started() {
		t.Error("Started() = true after Reset")
	}
	if n0 := b.Begin(); n0 != 0 {
		t.Errorf("Begin() after Clear = %d, want 0", n0)
	}
}

func TestBuilder_SurvivesNodeRemoval(t *testing.T) {
	e, _ := tm.NewEngine(bounceMachine(t))
	g := dag.New()
	b := New(e, g)
	if _, err := b.Step(); err != nil {
		t.Fatal(err)
	}
	g.RemoveNode(1)

	ev, err := b.Step()
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if len(ev.Deps) != 0 {
		t.Errorf("Deps = %v, want none after predecessor removal", ev.Deps)
	}
}

// TestBuilder_AcyclicProperty traces random machines and checks that the
// graph always has a topological order with one node per fired step.
func TestBuilder_AcyclicProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	symbols := []tm.Symbol{'#', '0', '1'}
	moves := []tm.Move{tm.Left, tm.Stay, tm.Right}

	for trial := range 50 {
		tapes := 1 + r.IntN(3)
		mb := tm.NewBuilder(tapes)
		names := []string{"s0", "s1", "s2"}
		for i, n := range names {
			_ = mb.AddState(n, i == 0, false)
		}
		for range 30 {
			read := make([]tm.Symbol, tapes)
			write := make([]tm.Symbol, tapes)
			mv := make([]tm.Move, tapes)
			for k := range tapes {
				read[k] = symbols[r.IntN(3)]
				write[k] = symbols[r.IntN(3)]
				mv[k] = moves[r.IntN(3)]
			}
			_ = mb.AddTransition(names[r.IntN(3)], read, names[r.IntN(3)], write, mv)
		}
		m := mustMachine(t, mb)
		e, _ := tm.NewEngine(m)
		g := dag.New()
		b := New(e, g)

		fired := 0
		for range 60 {
			ev, err := b.Step()
			if err != nil {
				t.Fatal(err)
			}
			if !ev.Added {
				break
			}
			fired++
		}
		if g.NodeCount() != fired+1 {
			t.Fatalf("trial %d: NodeCount() = %d, want %d", trial, g.NodeCount(), fired+1)
		}
		if _, err := g.TopologicalOrder(); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		for _, edge := range g.Edges() {
			if edge.From >= edge.To {
				t.Fatalf("trial %d: edge %v points backwards", trial, edge)
			}
		}
	}
}

func TestParseLineageMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LineageMode
		wantErr bool
	}{
		{"", WrittenCell, false},
		{"written", WrittenCell, false},
		{"head", HeadCell, false},
		{"tail", WrittenCell, true},
	}
	for _, tt := range tests {
		got, err := ParseLineageMode(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseLineageMode(%q) = %v, %v", tt.in, got, err)
		}
		if err == nil && tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}
