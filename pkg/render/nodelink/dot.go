package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/pebble"
)

// Fill colours by pebble state.
const (
	ColorUnpebbled = "white"
	ColorPebbled   = "palegreen"
	ColorServed    = "lightblue"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds coordinates and pebble state to node labels.
	Detailed bool
	// Pinned fixes nodes at their stored X/Y coordinates.
	Pinned bool
	// Title is drawn above the graph when set.
	Title string
}

// ToDOT converts a graph to Graphviz DOT.
func ToDOT(g *dag.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Pinned {
		buf.WriteString("  layout=neato;\n")
	}
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	for _, k := range slices.Sorted(maps.Keys(g.Meta())) {
		fmt.Fprintf(&buf, "  // %s: %v\n", k, g.Meta()[k])
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Fill returns the fill colour for a node's pebble state.
func Fill(n dag.Node) string {
	switch {
	case n.IsPebbled():
		return ColorPebbled
	case n.EverPebbled:
		return ColorServed
	default:
		return ColorUnpebbled
	}
}

func fmtLabel(n dag.Node, detailed bool) string {
	label := "n" + strconv.Itoa(int(n.ID))
	if !detailed {
		return label
	}
	state := "unpebbled"
	if n.IsPebbled() {
		state = "pebbled"
	} else if n.EverPebbled {
		state = "served"
	}
	return fmt.Sprintf("%s\n(%g, %g)\n%s", label, n.X, n.Y, state)
}

func fmtAttrs(n dag.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if fill := Fill(n); fill != ColorUnpebbled {
		attrs = append(attrs, "fillcolor="+fill)
	}
	if opts.Pinned {
		// Graphviz points, y up
		attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", n.X, -n.Y))
	}
	return attrs
}

// Frame returns a copy of g with the first k moves applied, for rendering
// the game at that point. g itself is not modified.
func Frame(g *dag.Graph, moves []pebble.Move, k int) (*dag.Graph, error) {
	c := g.Clone()
	game := pebble.NewGame(c)
	k = min(max(k, 0), len(moves))
	for _, mv := range moves[:k] {
		if _, err := game.Apply(mv); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RenderSVG renders DOT to SVG with Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT to PNG with Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales from a zero
// origin with pixel width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
