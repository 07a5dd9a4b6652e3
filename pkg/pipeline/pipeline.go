// Package pipeline runs machines and pebblings for the CLI and the HTTP
// server.
//
// A [Runner] wraps the core packages with caching, logging and hooks:
//
//  1. Simulate: load input, step the engine while the trace builder grows
//     the dependency graph, stop on halt or after MaxSteps
//  2. Pebble: check the graph is acyclic, compute a move list with the
//     chosen strategy, verify it by replay
//
// Both stages can be cached by content hash, so the same machine and input,
// or the same graph and strategy, are computed once.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	sim, err := runner.Simulate(ctx, pipeline.SimulateOptions{
//	    Machine: m,
//	    Input:   "1011",
//	})
//	peb, err := runner.Pebble(ctx, sim.Graph, pipeline.PebbleOptions{Strategy: "time"})
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/errors"
	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/tm"
	"github.com/matzehuels/tapegraph/pkg/trace"
)

const (
	// DefaultMaxSteps bounds a simulation that never halts.
	DefaultMaxSteps = 1000

	// MaxStepsLimit is the largest MaxSteps a caller may ask for. Each step
	// adds a graph node, so it also bounds the trace size.
	MaxStepsLimit = 100_000

	// DefaultStrategy is the pebbling strategy used when none is named.
	DefaultStrategy = pebble.StrategyTime

	// DefaultTTL is how long results stay cached.
	DefaultTTL = 24 * time.Hour
)

// Render formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatText = "text"
)

// ValidFormats is the set of supported render formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatText: true,
}

// ValidateFormat checks that a render format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: dot, svg, png, json, text)", format)
	}
	return nil
}

// ValidateStrategy checks that a pebbling strategy is registered.
func ValidateStrategy(name string) error {
	if !slices.Contains(pebble.Names(), name) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid strategy: %q (must be one of: %v)", name, pebble.Names())
	}
	return nil
}

// SimulateOptions configures one simulation.
type SimulateOptions struct {
	Machine *tm.Machine `json:"-"`

	// Input is written onto InputTape at the head before the first step.
	Input     string `json:"input,omitempty"`
	InputTape int    `json:"input_tape,omitempty"`
	MaxSteps  int    `json:"max_steps,omitempty"`
	// Lineage is "written" (default) or "head"; see trace.LineageMode.
	Lineage string `json:"lineage,omitempty"`
	// Refresh bypasses the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults. It
// is idempotent.
func (o *SimulateOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Machine == nil {
		return errors.New(errors.ErrCodeConfiguration, "machine is required")
	}
	if err := o.Machine.Validate(); err != nil {
		return err
	}
	if o.InputTape < 0 || o.InputTape >= o.Machine.Tapes() {
		return errors.New(errors.ErrCodeInvalidInput, "input tape %d out of range [0,%d)", o.InputTape, o.Machine.Tapes())
	}
	if o.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_steps must not be negative")
	}
	if o.MaxSteps > MaxStepsLimit {
		return errors.New(errors.ErrCodeInvalidInput, "max_steps %d exceeds limit %d", o.MaxSteps, MaxStepsLimit)
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if _, err := trace.ParseLineageMode(o.Lineage); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "lineage")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SimulateResult is the outcome of a simulation.
type SimulateResult struct {
	RunID string `json:"run_id"`
	// Outcome is the result of the last step. It is Stepped when the run
	// stopped at MaxSteps without halting.
	Outcome tm.Outcome    `json:"outcome"`
	Halted  bool          `json:"halted"`
	Steps   int           `json:"steps"`
	State   string        `json:"state"`
	Tapes   []tm.Snapshot `json:"tapes"`

	Graph     *dag.Graph `json:"-"`
	GraphHash string     `json:"graph_hash"`

	CacheHit bool          `json:"cache_hit"`
	Duration time.Duration `json:"duration"`
}

// Accepted reports whether the machine accepted.
func (r *SimulateResult) Accepted() bool {
	return r.Outcome == tm.Accepted || r.Outcome == tm.AlreadyAccepted
}

// PebbleOptions configures one pebbling.
type PebbleOptions struct {
	Strategy string      `json:"strategy,omitempty"`
	Refresh  bool        `json:"refresh,omitempty"`
	Logger   *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the strategy and applies defaults.
func (o *PebbleOptions) ValidateAndSetDefaults() error {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// PebbleResult is a verified move list.
type PebbleResult struct {
	RunID     string        `json:"run_id"`
	Strategy  string        `json:"strategy"`
	Moves     []pebble.Move `json:"moves"`
	Stats     pebble.Stats  `json:"stats"`
	GraphHash string        `json:"graph_hash"`
	CacheHit  bool          `json:"cache_hit"`
	Duration  time.Duration `json:"duration"`
}

// String summarises the result in one line.
func (r *PebbleResult) String() string {
	return fmt.Sprintf("%s: %d moves (%d place, %d remove), peak %d", r.Strategy, r.Stats.Moves, r.Stats.Places, r.Stats.Removes, r.Stats.Peak)
}
