package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/pebble"
)

func chain(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	a, b, c := g.AddNode(), g.AddNode(), g.AddNode()
	_ = g.AddEdge(a, b)
	_ = g.AddEdge(b, c)
	return g
}

func TestToDOT(t *testing.T) {
	g := chain(t)
	g.Meta()["complexity"] = "O(n)"
	dot := ToDOT(g, Options{Title: "trace"})

	for _, want := range []string{
		"digraph G {",
		`label="trace";`,
		"// complexity: O(n)",
		`0 [label="n0"];`,
		"0 -> 1;",
		"1 -> 2;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "layout=neato") {
		t.Error("unpinned ToDOT() sets neato layout")
	}
}

func TestToDOT_PebbleColours(t *testing.T) {
	g := chain(t)
	_ = g.SetPebbled(0, true)
	_ = g.SetPebbled(0, false)
	_ = g.SetPebbled(1, true)

	dot := ToDOT(g, Options{})
	for _, want := range []string{
		`0 [label="n0", fillcolor=lightblue];`,
		`1 [label="n1", fillcolor=palegreen];`,
		`2 [label="n2"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_PinnedDetailed(t *testing.T) {
	g := dag.New()
	_ = g.AddNodeWithID(0, 10, 20)
	dot := ToDOT(g, Options{Pinned: true, Detailed: true})
	for _, want := range []string{"layout=neato;", `pos="10,-20!"`, `n0\n(10, 20)\nunpebbled`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestFrame(t *testing.T) {
	g := chain(t)
	moves, err := pebble.TimeOriented(g)
	if err != nil {
		t.Fatal(err)
	}
	g.ResetPebbles()

	// PLACE 0, PLACE 1, REMOVE 0
	f, err := Frame(g, moves, 3)
	if err != nil {
		t.Fatal(err)
	}
	n0, _ := f.Node(0)
	n1, _ := f.Node(1)
	if n0.IsPebbled() || !n0.EverPebbled || !n1.IsPebbled() {
		t.Errorf("Frame(3) = %+v %+v", n0, n1)
	}
	if g.PebbledCount() != 0 {
		t.Error("Frame() modified the source graph")
	}

	if _, err := Frame(g, moves, 99); err != nil {
		t.Errorf("Frame(past end) error = %v", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
