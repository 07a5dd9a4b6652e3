package pebble

import (
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// Stats summarises a verified move sequence.
type Stats struct {
	Moves   int  `json:"moves"`
	Places  int  `json:"places"`
	Removes int  `json:"removes"`
	Peak    int  `json:"peak"`
	Covered bool `json:"covered"`
}

// Verify replays moves on a copy of g and checks that every placement is
// legal, timestamps strictly increase, and every node ends up pebbled at
// least once. g itself is not modified.
//
// On failure the returned Stats describe the prefix replayed so far and the
// error is an *[IllegalMoveError], or wraps [ErrTimeOrder],
// [dag.ErrNodeNotFound] or [ErrIncomplete].
func Verify(g *dag.Graph, moves []Move) (Stats, error) {
	gm := NewGame(g.Clone())
	var st Stats
	for i, m := range moves {
		if i > 0 && m.Time <= moves[i-1].Time {
			return st, fmt.Errorf("move %d (%s): %w", i, m, ErrTimeOrder)
		}
		if _, err := gm.Apply(m); err != nil {
			return st, fmt.Errorf("move %d (%s): %w", i, m, err)
		}
		st.Moves++
		if m.Action == Place {
			st.Places++
		} else {
			st.Removes++
		}
		st.Peak = gm.Peak()
	}
	st.Covered = gm.Won()
	if !st.Covered {
		return st, ErrIncomplete
	}
	return st, nil
}
