package pebble

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// Strategy computes a legal move sequence that pebbles every node of an
// acyclic graph.
type Strategy func(g *dag.Graph) ([]Move, error)

// Strategy names accepted by [Lookup].
const (
	StrategyTime  = "time"
	StrategySpace = "space"
)

// Version is bumped whenever a strategy emits a different move list for the
// same graph. Cached pebblings are keyed by it.
const Version = 2

var strategies = map[string]Strategy{
	StrategyTime:  TimeOriented,
	StrategySpace: SpaceOriented,
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Strategy, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStrategy, name, Names())
	}
	return s, nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(strategies))
}
