package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/tapegraph/pkg/cache"
	"github.com/matzehuels/tapegraph/pkg/dag"
	tgerrors "github.com/matzehuels/tapegraph/pkg/errors"
	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

// unary walks right over 1s and accepts on the first blank.
func unary(t *testing.T) *tm.Machine {
	t.Helper()
	b := tm.NewBuilder(1)
	_ = b.AddState("walk", true, false)
	_ = b.AddState("done", false, true)
	_ = b.AddTransition("walk", []tm.Symbol{'1'}, "walk", []tm.Symbol{'1'}, []tm.Move{tm.Right})
	_ = b.AddTransition("walk", []tm.Symbol{'#'}, "done", []tm.Symbol{'1'}, []tm.Move{tm.Stay})
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// looper moves right forever.
func looper(t *testing.T) *tm.Machine {
	t.Helper()
	b := tm.NewBuilder(1)
	_ = b.AddState("go", true, false)
	_ = b.AddState("never", false, true)
	_ = b.AddTransition("go", []tm.Symbol{'#'}, "go", []tm.Symbol{'#'}, []tm.Move{tm.Right})
	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func diamond() *dag.Graph {
	g := dag.New()
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	_ = g.AddEdge(a, b)
	_ = g.AddEdge(a, c)
	_ = g.AddEdge(b, d)
	_ = g.AddEdge(c, d)
	return g
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"json", false},
		{"text", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateStrategy(t *testing.T) {
	for _, s := range []string{"time", "space"} {
		if err := ValidateStrategy(s); err != nil {
			t.Errorf("ValidateStrategy(%q) error = %v", s, err)
		}
	}
	if err := ValidateStrategy("fast"); !tgerrors.Is(err, tgerrors.ErrCodeInvalidInput) {
		t.Errorf("ValidateStrategy(fast) error = %v", err)
	}
}

func TestSimulateOptions_Defaults(t *testing.T) {
	opts := SimulateOptions{Machine: unary(t)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MaxSteps != DefaultMaxSteps {
		t.Errorf("MaxSteps = %d, want %d", opts.MaxSteps, DefaultMaxSteps)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v", err)
	}
}

func TestSimulateOptions_Errors(t *testing.T) {
	m := unary(t)
	tests := []struct {
		name string
		opts SimulateOptions
		code tgerrors.Code
	}{
		{"no machine", SimulateOptions{}, tgerrors.ErrCodeConfiguration},
		{"tape out of range", SimulateOptions{Machine: m, InputTape: 1}, tgerrors.ErrCodeInvalidInput},
		{"negative steps", SimulateOptions{Machine: m, MaxSteps: -1}, tgerrors.ErrCodeInvalidInput},
		{"steps above limit", SimulateOptions{Machine: m, MaxSteps: MaxStepsLimit + 1}, tgerrors.ErrCodeInvalidInput},
		{"bad lineage", SimulateOptions{Machine: m, Lineage: "tail"}, tgerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !tgerrors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunner_SimulateAccepts(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Simulate(context.Background(), SimulateOptions{Machine: unary(t), Input: "111"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != tm.Accepted || !res.Accepted() || !res.Halted {
		t.Errorf("Outcome = %v, Halted = %v", res.Outcome, res.Halted)
	}
	if res.Steps != 4 || res.State != "done" {
		t.Errorf("Steps = %d, State = %s", res.Steps, res.State)
	}
	// n0 plus one node per step
	if res.Graph.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", res.Graph.NodeCount())
	}
	if strings.Trim(res.Tapes[0].Cells, "#") != "1111" {
		t.Errorf("tape = %+v", res.Tapes[0])
	}
	if res.RunID == "" || res.GraphHash == "" {
		t.Error("RunID or GraphHash missing")
	}
}

func TestRunner_SimulateRejects(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	b := tm.NewBuilder(1)
	_ = b.AddState("q0", true, false)
	_ = b.AddState("q1", false, true)
	_ = b.AddSymbol('1')
	m, _ := b.Build()

	res, err := r.Simulate(context.Background(), SimulateOptions{Machine: m, Input: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != tm.Rejected || res.Steps != 0 || res.Graph.NodeCount() != 1 {
		t.Errorf("Outcome = %v, Steps = %d, nodes = %d", res.Outcome, res.Steps, res.Graph.NodeCount())
	}
}

func TestRunner_SimulateMaxSteps(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Simulate(context.Background(), SimulateOptions{Machine: looper(t), MaxSteps: 7})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 7 || res.Halted || res.Outcome != tm.Stepped {
		t.Errorf("Steps = %d, Halted = %v, Outcome = %v", res.Steps, res.Halted, res.Outcome)
	}
}

func TestRunner_SimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	if _, err := r.Simulate(ctx, SimulateOptions{Machine: looper(t)}); !errors.Is(err, context.Canceled) {
		t.Errorf("Simulate() error = %v, want context.Canceled", err)
	}
}

func TestRunner_SimulateBadInput(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Simulate(context.Background(), SimulateOptions{Machine: unary(t), Input: "12"})
	if !tgerrors.Is(err, tgerrors.ErrCodeInvalidSymbol) {
		t.Errorf("Simulate() error = %v, want INVALID_SYMBOL", err)
	}
}

func TestRunner_SimulateCached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := SimulateOptions{Machine: unary(t), Input: "11"}

	first, err := r.Simulate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Simulate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || !second.CacheHit {
		t.Errorf("CacheHit = %v, %v, want false, true", first.CacheHit, second.CacheHit)
	}
	if second.GraphHash != first.GraphHash || second.Steps != first.Steps || second.Outcome != first.Outcome {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}

	opts.Refresh = true
	third, _ := r.Simulate(context.Background(), opts)
	if third.CacheHit {
		t.Error("Refresh still hit the cache")
	}
}

func TestRunner_Pebble(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g := diamond()
	res, err := r.Pebble(context.Background(), g, PebbleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Strategy != "time" || res.Stats.Moves != 8 || !res.Stats.Covered {
		t.Errorf("result = %s", res)
	}
	if !g.IsFullyPebbled() {
		t.Error("graph not fully pebbled after Pebble()")
	}
	if !strings.HasPrefix(res.String(), "time: 8 moves") {
		t.Errorf("String() = %q", res.String())
	}
}

func TestRunner_PebbleCycle(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g := dag.New()
	x, y := g.AddNode(), g.AddNode()
	_ = g.AddEdge(x, y)
	_ = g.AddEdge(y, x)

	_, err := r.Pebble(context.Background(), g, PebbleOptions{Strategy: "space"})
	if !tgerrors.Is(err, tgerrors.ErrCodeCycle) || !errors.Is(err, dag.ErrGraphHasCycle) {
		t.Errorf("Pebble() error = %v, want CYCLE", err)
	}
	if g.PebbledCount() != 0 || g.EdgeCount() != 2 {
		t.Error("Pebble() modified a cyclic graph")
	}
}

func TestRunner_PebbleCached(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := r.Pebble(ctx, diamond(), PebbleOptions{Strategy: "space"})
	if err != nil {
		t.Fatal(err)
	}
	g := diamond()
	second, err := r.Pebble(ctx, g, PebbleOptions{Strategy: "space"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || len(second.Moves) != len(first.Moves) {
		t.Errorf("second run CacheHit = %v, %d moves", second.CacheHit, len(second.Moves))
	}
	if !g.IsFullyPebbled() {
		t.Error("cache hit did not replay moves onto the graph")
	}
}

func TestRunner_PebbleStaleCache(t *testing.T) {
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	g := diamond()

	// an entry that does not cover the graph
	key := r.Keyer.PebbleKey(GraphHash(g), "time", pebble.Version)
	_ = c.Set(ctx, key, []byte(`[{"action":"PLACE","node":0,"time":0}]`), 0)

	res, err := r.Pebble(ctx, g, PebbleOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || !res.Stats.Covered {
		t.Errorf("stale entry used: %+v", res)
	}
}

func TestGraphHash_IgnoresPresentation(t *testing.T) {
	a := diamond()
	b := diamond()
	_ = b.SetPosition(0, 100, 200)
	_ = b.SetPebbled(1, true)
	b.Meta()["complexity"] = "O(1)"
	if GraphHash(a) != GraphHash(b) {
		t.Error("GraphHash() depends on coordinates, pebbles or metadata")
	}
	b.RemoveEdge(0, 1)
	if GraphHash(a) == GraphHash(b) {
		t.Error("GraphHash() ignores edges")
	}
}

func TestRender(t *testing.T) {
	g := diamond()
	out, err := Render(g, RenderOptions{Formats: []string{FormatDOT, FormatText, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out[FormatDOT]), "0 -> 1;") {
		t.Errorf("dot = %s", out[FormatDOT])
	}
	if !strings.Contains(string(out[FormatText]), "EDGE,2,3") {
		t.Errorf("text = %s", out[FormatText])
	}
	if !strings.Contains(string(out[FormatJSON]), `"edges"`) {
		t.Errorf("json = %s", out[FormatJSON])
	}
	if _, err := Render(g, RenderOptions{Formats: []string{"pdf"}}); err == nil {
		t.Error("Render(pdf) succeeded")
	}
}
