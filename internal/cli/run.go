package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/pipeline"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

type runOpts struct {
	input     string
	inputTape int
	maxSteps  int
	lineage   string
	output    string
	formats   []string
	noCache   bool
	refresh   bool
}

// runCommand creates the run command that simulates a machine and writes
// its trace graph.
func (c *CLI) runCommand() *cobra.Command {
	var (
		opts       runOpts
		formatsStr string
	)

	cmd := &cobra.Command{
		Use:   "run [machine]",
		Short: "Run a machine and trace its dependency graph",
		Long: `Run a Turing machine from its start state and record every step as a node
in a dependency graph.

The run stops when the machine accepts, when no transition matches (reject),
or after --max-steps steps. The trace graph is written next to the machine
file as JSON unless --output or --format say otherwise.

Results are cached locally; use --refresh to recompute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, pipeline.FormatJSON)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("max-steps") {
				opts.maxSteps = c.Config.MaxSteps
			}
			return c.runRun(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input word written at the head of the input tape")
	cmd.Flags().IntVar(&opts.inputTape, "tape", 0, "tape that receives the input word")
	cmd.Flags().IntVarP(&opts.maxSteps, "max-steps", "n", pipeline.DefaultMaxSteps, "stop after this many steps")
	cmd.Flags().StringVar(&opts.lineage, "lineage", "", "data dependency rule: written (default), head")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "trace format(s): json (default), text, dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runRun(ctx context.Context, path string, opts runOpts) error {
	m, err := pkgio.ImportMachine(path, c.Config.BlankSymbol())
	if err != nil {
		return fmt.Errorf("load machine %s: %w", path, err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Simulating...")
	spinner.Start()
	res, err := runner.Simulate(ctx, pipeline.SimulateOptions{
		Machine:   m,
		Input:     opts.input,
		InputTape: opts.inputTape,
		MaxSteps:  opts.maxSteps,
		Lineage:   opts.lineage,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return fmt.Errorf("run %s: %w", path, err)
	}
	spinner.Stop()

	printOutcome(res)
	printStats(res.Graph.NodeCount(), res.Graph.EdgeCount(), res.CacheHit)

	artifacts, err := pipeline.Render(res.Graph, pipeline.RenderOptions{Formats: opts.formats})
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifacts, opts.formats, path, opts.output)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	for i, f := range opts.formats {
		if f == pipeline.FormatJSON || f == pipeline.FormatText {
			printNextStep("Pebble the trace", "tapegraph pebble "+paths[i])
			break
		}
	}
	return nil
}

func printOutcome(res *pipeline.SimulateResult) {
	switch {
	case res.Outcome == tm.Accepted || res.Outcome == tm.AlreadyAccepted:
		printSuccess("Accepted in state %s", StyleHighlight.Render(res.State))
	case res.Outcome == tm.Rejected:
		printWarning("Rejected in state %s (no transition)", res.State)
	default:
		printInfo("Stopped after %d steps in state %s", res.Steps, res.State)
	}
	printKeyValue("Steps", strconv.Itoa(res.Steps))
	for i, t := range res.Tapes {
		printKeyValue(fmt.Sprintf("Tape %d", i), formatTape(t))
	}
}
