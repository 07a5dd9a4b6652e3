package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

// Format names accepted by the Import and Export helpers.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// FormatFromPath picks a format from the file extension. Unknown
// extensions map to the text format.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// DecodeGraph reads a graph in the named format (text or json).
func DecodeGraph(r io.Reader, format string) (*dag.Graph, error) {
	switch format {
	case FormatText, "":
		return ReadGraph(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w: graph format %q", ErrUnsupportedFormat, format)
	}
}

// EncodeGraph writes a graph in the named format (text or json).
func EncodeGraph(g *dag.Graph, w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return WriteGraph(g, w)
	case FormatJSON:
		return WriteJSON(g, w)
	default:
		return fmt.Errorf("%w: graph format %q", ErrUnsupportedFormat, format)
	}
}

// ImportGraph reads a graph file, choosing the format by extension.
func ImportGraph(path string) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := DecodeGraph(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return g, nil
}

// LoadGraphInto imports a graph file into dst. On any error dst is left
// exactly as it was.
func LoadGraphInto(dst *dag.Graph, path string) error {
	g, err := ImportGraph(path)
	if err != nil {
		return err
	}
	dst.Replace(g)
	return nil
}

// ExportGraph writes a graph file, choosing the format by extension.
func ExportGraph(g *dag.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeGraph(g, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DecodeMachine parses a machine definition in the named format.
func DecodeMachine(r io.Reader, format string) (*MachineDef, error) {
	switch format {
	case FormatText, "":
		return ParseMachine(r)
	case FormatTOML:
		return ParseMachineTOML(r)
	case FormatYAML:
		return ParseMachineYAML(r)
	default:
		return nil, fmt.Errorf("%w: machine format %q", ErrUnsupportedFormat, format)
	}
}

// EncodeMachine writes a machine in the named format.
func EncodeMachine(m *tm.Machine, w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return WriteMachine(m, w)
	case FormatTOML:
		return WriteMachineTOML(m, w)
	case FormatYAML:
		return WriteMachineYAML(m, w)
	default:
		return fmt.Errorf("%w: machine format %q", ErrUnsupportedFormat, format)
	}
}

// ImportMachine reads and builds a machine file, choosing the format by
// extension. blank is the default blank symbol (0 for [tm.DefaultBlank]);
// a blank declared in the file wins.
func ImportMachine(path string, blank tm.Symbol) (*tm.Machine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := DecodeMachine(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	m, err := d.Build(blank)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return m, nil
}

// ExportMachine writes a machine file, choosing the format by extension.
func ExportMachine(m *tm.Machine, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodeMachine(m, f, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
