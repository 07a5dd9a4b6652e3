package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/pipeline"
)

type pebbleOpts struct {
	strategy  string
	movesOut  string
	showMoves bool
	noCache   bool
	refresh   bool
}

// pebbleCommand creates the pebble command that computes and verifies a
// pebbling of a graph.
func (c *CLI) pebbleCommand() *cobra.Command {
	var opts pebbleOpts

	cmd := &cobra.Command{
		Use:   "pebble [graph]",
		Short: "Pebble a dependency graph",
		Long: `Compute a pebbling of a dependency graph and verify it by replay.

Strategies:
  time   walk a topological order and remove a pebble once every successor
         of its node is pebbled (fewest moves)
  space  greedily pebble the ready node with the lowest net pebble cost
         (often a lower peak)

Neither strategy is optimal. The move list can be saved with --moves-out and
replayed with 'tapegraph graph render --moves'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strategy") {
				opts.strategy = c.Config.Strategy
			}
			if err := pipeline.ValidateStrategy(opts.strategy); err != nil {
				return err
			}
			return c.runPebble(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", pebble.StrategyTime, "strategy: "+strings.Join(pebble.Names(), ", "))
	cmd.Flags().StringVarP(&opts.movesOut, "moves-out", "m", "", "write the move list as JSON")
	cmd.Flags().BoolVar(&opts.showMoves, "show-moves", false, "print the move list")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runPebble(ctx context.Context, path string, opts pebbleOpts) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Pebble(ctx, g, pipeline.PebbleOptions{
		Strategy: opts.strategy,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	})
	if err != nil {
		return fmt.Errorf("pebble %s: %w", path, err)
	}

	printSuccess("Pebbled %s with the %s strategy", path, StyleHighlight.Render(res.Strategy))
	printKeyValue("Moves", fmt.Sprintf("%d (%d place, %d remove)", res.Stats.Moves, res.Stats.Places, res.Stats.Removes))
	printKeyValue("Peak", fmt.Sprintf("%d pebbles", res.Stats.Peak))
	printStats(g.NodeCount(), g.EdgeCount(), res.CacheHit)
	if opts.showMoves {
		fmt.Println(movesTable(res.Moves))
	}

	if opts.movesOut == "" {
		return nil
	}
	f, err := os.Create(opts.movesOut)
	if err != nil {
		return err
	}
	if err := pkgio.WriteMoves(res.Moves, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", opts.movesOut, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(opts.movesOut)
	printNextStep("Render the pebbling", fmt.Sprintf("tapegraph graph render %s --moves %s", path, opts.movesOut))
	return nil
}
