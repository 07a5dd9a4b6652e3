package pebble

import (
	"fmt"
	"slices"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// Game applies pebble moves to a graph, enforcing the placement rule.
// Pebble state lives on the graph's nodes; the game records the moves and
// the peak number of pebbles in use.
//
// A Game is not safe for concurrent use.
type Game struct {
	graph *dag.Graph
	moves []Move
	live  int
	peak  int
}

// NewGame clears all pebbles on g and starts a new game on it.
func NewGame(g *dag.Graph) *Game {
	gm := &Game{graph: g}
	gm.Reset()
	return gm
}

// Reset clears all pebbles and the move history.
func (gm *Game) Reset() {
	gm.graph.ResetPebbles()
	gm.moves = nil
	gm.live = 0
	gm.peak = 0
}

// Graph returns the graph being played on.
func (gm *Game) Graph() *dag.Graph { return gm.graph }

// Missing returns the predecessors of id that do not hold a pebble.
func (gm *Game) Missing(id dag.NodeID) ([]dag.NodeID, error) {
	if !gm.graph.HasNode(id) {
		return nil, fmt.Errorf("%w: %d", dag.ErrNodeNotFound, id)
	}
	var missing []dag.NodeID
	for _, p := range gm.graph.Predecessors(id) {
		if n, _ := gm.graph.Node(p); !n.IsPebbled() {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

// CanPlace reports whether a pebble may be placed on id now.
func (gm *Game) CanPlace(id dag.NodeID) bool {
	missing, err := gm.Missing(id)
	return err == nil && len(missing) == 0
}

// Place puts a pebble on id. It fails with an *[IllegalMoveError] if a
// predecessor is unpebbled, in which case nothing changes. Placing on a node
// that already holds a pebble is legal and only records the move.
func (gm *Game) Place(id dag.NodeID) (Move, error) {
	missing, err := gm.Missing(id)
	if err != nil {
		return Move{}, err
	}
	if len(missing) > 0 {
		return Move{}, &IllegalMoveError{Node: id, Missing: missing}
	}
	if n, _ := gm.graph.Node(id); !n.IsPebbled() {
		gm.live++
		gm.peak = max(gm.peak, gm.live)
	}
	_ = gm.graph.SetPebbled(id, true)
	return gm.record(Place, id), nil
}

// Remove takes the pebble off id. Removal is always legal; removing from an
// unpebbled node only records the move.
func (gm *Game) Remove(id dag.NodeID) (Move, error) {
	n, ok := gm.graph.Node(id)
	if !ok {
		return Move{}, fmt.Errorf("%w: %d", dag.ErrNodeNotFound, id)
	}
	if n.IsPebbled() {
		gm.live--
	}
	_ = gm.graph.SetPebbled(id, false)
	return gm.record(Remove, id), nil
}

// Toggle removes the pebble from id if it has one and places one otherwise.
func (gm *Game) Toggle(id dag.NodeID) (Move, error) {
	n, ok := gm.graph.Node(id)
	if !ok {
		return Move{}, fmt.Errorf("%w: %d", dag.ErrNodeNotFound, id)
	}
	if n.IsPebbled() {
		return gm.Remove(id)
	}
	return gm.Place(id)
}

// Apply plays a move by action. The move's timestamp is ignored; the game
// assigns its own.
func (gm *Game) Apply(m Move) (Move, error) {
	if m.Action == Remove {
		return gm.Remove(m.Node)
	}
	return gm.Place(m.Node)
}

func (gm *Game) record(a Action, id dag.NodeID) Move {
	m := Move{Action: a, Node: id, Time: len(gm.moves)}
	gm.moves = append(gm.moves, m)
	return m
}

// Won reports whether every node has been pebbled at least once.
func (gm *Game) Won() bool { return gm.graph.IsFullyPebbled() }

// Moves returns the moves played so far.
func (gm *Game) Moves() []Move { return slices.Clone(gm.moves) }

// Live returns the number of pebbles currently on the graph.
func (gm *Game) Live() int { return gm.live }

// Peak returns the largest number of pebbles on the graph at once.
func (gm *Game) Peak() int { return gm.peak }
