package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/dag/transform"
	tgerrors "github.com/matzehuels/tapegraph/pkg/errors"
	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/pipeline"
	"github.com/matzehuels/tapegraph/pkg/render/nodelink"
)

// graphCommand groups the graph file subcommands.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Validate, order, repair and render dependency graphs",
	}

	cmd.AddCommand(c.graphValidateCommand())
	cmd.AddCommand(c.graphTopoCommand())
	cmd.AddCommand(c.graphReduceCommand())
	cmd.AddCommand(c.graphRepairCommand())
	cmd.AddCommand(c.graphRenderCommand())

	return cmd
}

func loadGraph(path string) (*dag.Graph, error) {
	g, err := pkgio.ImportGraph(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	return g, nil
}

func (c *CLI) graphValidateCommand() *cobra.Command {
	var report bool
	cmd := &cobra.Command{
		Use:   "validate [graph]",
		Short: "Check a graph for isolated nodes and cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if report {
				fmt.Fprint(cmd.OutOrStdout(), g.Report())
			}
			v := g.Validate()
			if !v.Valid() {
				printError("%s: %s", args[0], v)
				return tgerrors.New(tgerrors.ErrCodeConfiguration, "node %d has no edges", v.Node)
			}
			if _, err := g.TopologicalOrder(); err != nil {
				printError("%s: not acyclic", args[0])
				return tgerrors.Wrap(tgerrors.ErrCodeCycle, err, "graph is not acyclic")
			}
			printSuccess("%s: %s", args[0], v)
			printStats(g.NodeCount(), g.EdgeCount(), false)
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "print nodes and edges")
	return cmd
}

func (c *CLI) graphTopoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "topo [graph]",
		Short: "Print a topological order (lowest ID first among ready nodes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			order, err := g.TopologicalOrder()
			if err != nil {
				var ce *dag.CycleError
				if errors.As(err, &ce) {
					printDetail("nodes on or behind a cycle: %v", ce.Remaining)
				}
				return tgerrors.Wrap(tgerrors.ErrCodeCycle, err, "graph is not acyclic")
			}
			ids := make([]string, len(order))
			for i, id := range order {
				ids[i] = strconv.Itoa(int(id))
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, " "))
			return nil
		},
	}
}

func (c *CLI) graphReduceCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "reduce [graph]",
		Short: "Remove transitive edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if !g.IsAcyclic() {
				return tgerrors.New(tgerrors.ErrCodeCycle, "graph is not acyclic; run 'tapegraph graph repair' first")
			}
			n := transform.TransitiveReduction(g)
			printSuccess("Removed %d transitive edges", n)
			return saveGraph(g, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}

func (c *CLI) graphRepairCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "repair [graph]",
		Short: "Break cycles, remove transitive edges and lay out nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			res := transform.Repair(g)
			loggerFromContext(cmd.Context()).Debug("repaired graph", "back_edges", res.BackEdges, "transitive_edges", res.TransitiveEdges)
			printSuccess("Removed %d back edges and %d transitive edges", res.BackEdges, res.TransitiveEdges)
			return saveGraph(g, args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	return cmd
}

func saveGraph(g *dag.Graph, input, output string) error {
	if output == "" {
		output = input
	}
	if err := pkgio.ExportGraph(g, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printFile(output)
	return nil
}

func (c *CLI) graphRenderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		movesPath  string
		frame      int
		diagram    nodelink.Options
	)
	cmd := &cobra.Command{
		Use:   "render [graph]",
		Short: "Render a graph with Graphviz",
		Long: `Render a graph as DOT, SVG or PNG with pebble colouring.

With --moves, the moves of a pebbling (as written by 'tapegraph pebble -m')
are replayed first; --frame limits the replay to the first k moves so a
pebbling can be stepped through frame by frame.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, pipeline.FormatSVG)
			for _, f := range formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if movesPath != "" {
				if g, err = replayFrame(g, movesPath, frame); err != nil {
					return err
				}
			}
			if diagram.Title == "" {
				diagram.Title = args[0]
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			artifacts, err := pipeline.Render(g, pipeline.RenderOptions{Formats: formats, Diagram: diagram})
			if err != nil {
				return err
			}
			paths, err := writeArtifacts(artifacts, formats, args[0], output)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d nodes", g.NodeCount()))
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json, text (comma-separated)")
	cmd.Flags().StringVarP(&movesPath, "moves", "m", "", "replay a move list before rendering")
	cmd.Flags().IntVar(&frame, "frame", -1, "replay only the first k moves (default: all)")
	cmd.Flags().BoolVar(&diagram.Detailed, "detailed", false, "show coordinates and pebble state in labels")
	cmd.Flags().BoolVar(&diagram.Pinned, "pinned", false, "place nodes at their stored coordinates")
	cmd.Flags().StringVar(&diagram.Title, "title", "", "diagram title (default: file name)")
	return cmd
}

func replayFrame(g *dag.Graph, movesPath string, k int) (*dag.Graph, error) {
	f, err := os.Open(movesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	moves, err := pkgio.ReadMoves(f)
	if err != nil {
		return nil, fmt.Errorf("load moves %s: %w", movesPath, err)
	}
	if k < 0 {
		k = len(moves)
	}
	return nodelink.Frame(g, moves, k)
}
