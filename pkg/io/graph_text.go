package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// ReadGraph decodes the line-oriented graph format:
//
//	NODE,<id>,<x>,<y>
//	EDGE,<from>,<to>
//
// Coordinates are presentation-only and may be integers or decimals. Fields
// after the ones listed are ignored. Blank lines and lines starting with '#'
// are skipped. An EDGE may only reference nodes declared on earlier lines.
//
// Any malformed line aborts the read with a *[ParseError]; no partial graph
// is returned.
func ReadGraph(r io.Reader) (*dag.Graph, error) {
	g := dag.New()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Split(text, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch strings.ToUpper(parts[0]) {
		case "NODE":
			if len(parts) < 2 {
				return nil, parseErr(line, nil, "NODE needs an id")
			}
			id, err := parseID(parts[1])
			if err != nil {
				return nil, parseErr(line, err, "node id %q", parts[1])
			}
			var x, y float64
			if len(parts) >= 4 {
				if x, err = strconv.ParseFloat(parts[2], 64); err != nil {
					return nil, parseErr(line, err, "x coordinate %q", parts[2])
				}
				if y, err = strconv.ParseFloat(parts[3], 64); err != nil {
					return nil, parseErr(line, err, "y coordinate %q", parts[3])
				}
			}
			if err := g.AddNodeWithID(id, x, y); err != nil {
				return nil, parseErr(line, err, "node %d", id)
			}
		case "EDGE":
			if len(parts) < 3 {
				return nil, parseErr(line, nil, "EDGE needs a source and a target")
			}
			from, err := parseID(parts[1])
			if err != nil {
				return nil, parseErr(line, err, "edge source %q", parts[1])
			}
			to, err := parseID(parts[2])
			if err != nil {
				return nil, parseErr(line, err, "edge target %q", parts[2])
			}
			if err := g.AddEdge(from, to); err != nil {
				return nil, parseErr(line, err, "edge %d->%d", from, to)
			}
		default:
			return nil, parseErr(line, nil, "unknown record %q", parts[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return g, nil
}

// WriteGraph encodes g in the format read by [ReadGraph]: all NODE records
// in ascending ID order, then all EDGE records sorted by (from, to).
func WriteGraph(g *dag.Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, "NODE,%d,%s,%s\n", n.ID, formatCoord(n.X), formatCoord(n.Y))
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "EDGE,%d,%d\n", e.From, e.To)
	}
	return bw.Flush()
}

func parseID(s string) (dag.NodeID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	id := dag.NodeID(n)
	return id, checkID(id)
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
