// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render it:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Pebble Colours
//
// Nodes are filled by pebble state: white when never pebbled, green while
// holding a pebble, light blue once pebbled and since released. Rendering a
// graph after replaying a prefix of a move list therefore shows the game at
// that point; see [Frame].
//
// # Layout
//
// By default Graphviz ranks nodes top to bottom along the dependency
// edges. With Options.Pinned the stored X/Y coordinates are passed as fixed
// positions, which keeps a hand-placed graph looking the way it was drawn.
//
// Rendering runs in-process through [github.com/goccy/go-graphviz].
package nodelink
