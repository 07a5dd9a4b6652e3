package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

type graph struct {
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
	Meta  dag.Metadata `json:"meta,omitempty"`
}

type node struct {
	ID          dag.NodeID `json:"id"`
	X           float64    `json:"x,omitempty"`
	Y           float64    `json:"y,omitempty"`
	Pebbled     bool       `json:"pebbled,omitempty"`
	EverPebbled bool       `json:"ever_pebbled,omitempty"`
}

type edge struct {
	From dag.NodeID `json:"from"`
	To   dag.NodeID `json:"to"`
}

// ReadJSON decodes a JSON graph from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": 0}, {"id": 1, "x": 80, "y": 0}],
//	  "edges": [{"from": 0, "to": 1}]
//	}
//
// Optional node fields are x, y, pebbled and ever_pebbled; an optional
// top-level "meta" object is copied to the graph metadata. Pebble state is
// restored as written and is not checked for legality.
//
// ReadJSON returns an error for malformed JSON, duplicate node IDs, edges
// to unknown nodes, self-loops and IDs above [MaxNodeID]. Cycles are accepted; they are detected
// when the graph is ordered.
func ReadJSON(r io.Reader) (*dag.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := dag.New()
	for k, v := range data.Meta {
		g.Meta()[k] = v
	}
	for _, n := range data.Nodes {
		if err := checkID(n.ID); err != nil {
			return nil, &ParseError{Msg: "node", Err: err}
		}
		if err := g.AddNodeWithID(n.ID, n.X, n.Y); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		if n.EverPebbled || n.Pebbled {
			_ = g.SetPebbled(n.ID, true)
			if !n.Pebbled {
				_ = g.SetPebbled(n.ID, false)
			}
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// WriteJSON encodes a graph as JSON and writes it to w. The output can be
// re-imported with [ReadJSON].
func WriteJSON(g *dag.Graph, w io.Writer) error {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	if len(g.Meta()) > 0 {
		out.Meta = g.Meta()
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{
			ID:          n.ID,
			X:           n.X,
			Y:           n.Y,
			Pebbled:     n.IsPebbled(),
			EverPebbled: n.EverPebbled,
		})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
