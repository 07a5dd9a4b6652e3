package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/tapegraph/pkg/dag"
	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/tm"
	"github.com/matzehuels/tapegraph/pkg/trace"
)

// errNoTerminal is returned when play is started without a TTY.
var errNoTerminal = errors.New("play needs an interactive terminal")

type playOpts struct {
	machine string
	input   string
	tape    int
	lineage string
	save    string
}

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [graph]",
		Short: "Play the pebble game or step a machine interactively",
		Long: `Play the pebble game on a graph by hand, or step a machine one transition
at a time and watch its trace graph grow.

  tapegraph play trace.json
  tapegraph play --machine copy.tm --input 0110

With --save, the move list (pebble game) or the trace graph (machine) is
written when you quit.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.machine != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNoTerminal
			}
			if opts.machine != "" {
				return c.runStepper(cmd.Context(), opts)
			}
			return c.runPebbleGame(cmd.Context(), args[0], opts.save)
		},
	}

	cmd.Flags().StringVar(&opts.machine, "machine", "", "step this machine instead of playing on a graph")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input word (with --machine)")
	cmd.Flags().IntVar(&opts.tape, "tape", 0, "tape that receives the input word (with --machine)")
	cmd.Flags().StringVar(&opts.lineage, "lineage", "", "data dependency rule: written (default), head")
	cmd.Flags().StringVar(&opts.save, "save", "", "write moves or trace graph on exit")

	return cmd
}

func (c *CLI) runPebbleGame(ctx context.Context, path, save string) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}
	if !g.IsAcyclic() {
		printWarning("%s has a cycle; nodes on it can never be pebbled", path)
	}

	final, err := tea.NewProgram(NewPebbleModel(g), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m := final.(PebbleModel)
	if m.Game.Won() {
		printSuccess("Pebbled every node in %d moves, peak %d", len(m.Game.Moves()), m.Game.Peak())
	} else {
		printInfo("Stopped after %d moves", len(m.Game.Moves()))
	}

	if save == "" {
		return nil
	}
	f, err := os.Create(save)
	if err != nil {
		return err
	}
	if err := pkgio.WriteMoves(m.Game.Moves(), f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", save, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	printFile(save)
	return nil
}

func (c *CLI) runStepper(ctx context.Context, opts playOpts) error {
	m, err := pkgio.ImportMachine(opts.machine, c.Config.BlankSymbol())
	if err != nil {
		return fmt.Errorf("load machine %s: %w", opts.machine, err)
	}
	mode, err := trace.ParseLineageMode(opts.lineage)
	if err != nil {
		return err
	}
	e, err := tm.NewEngine(m)
	if err != nil {
		return err
	}
	g := dag.New()
	model, err := NewStepperModel(e, g, opts.input, opts.tape, trace.WithLineageMode(mode))
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	printInfo("Stopped in state %s after %d steps", e.CurrentState().Name, e.Steps())
	printStats(g.NodeCount(), g.EdgeCount(), false)

	if opts.save == "" {
		return nil
	}
	return saveGraph(g, opts.machine, opts.save)
}
