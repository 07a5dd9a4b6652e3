package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/dag"
	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/render/nodelink"
)

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats []string
	Diagram nodelink.Options
}

// Render produces one artifact per requested format. dot, svg and png are
// diagrams; json and text are the graph file formats.
func Render(g *dag.Graph, opts RenderOptions) (map[string][]byte, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []string{FormatSVG}
	}
	for _, f := range opts.Formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		if dot == "" && (format == FormatDOT || format == FormatSVG || format == FormatPNG) {
			dot = nodelink.ToDOT(g, opts.Diagram)
		}

		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot)
		case FormatJSON:
			var buf bytes.Buffer
			err = pkgio.WriteJSON(g, &buf)
			data = buf.Bytes()
		case FormatText:
			var buf bytes.Buffer
			err = pkgio.WriteGraph(g, &buf)
			data = buf.Bytes()
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
