package pebble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// Action is the kind of a pebble move.
type Action int

const (
	Place Action = iota
	Remove
)

func (a Action) String() string {
	switch a {
	case Place:
		return "PLACE"
	case Remove:
		return "REMOVE"
	default:
		return fmt.Sprintf("ACTION(%d)", int(a))
	}
}

// MarshalText encodes the action as PLACE or REMOVE.
func (a Action) MarshalText() ([]byte, error) {
	if a != Place && a != Remove {
		return nil, fmt.Errorf("unknown pebble action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes PLACE or REMOVE, case-insensitively.
func (a *Action) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "PLACE":
		*a = Place
	case "REMOVE":
		*a = Remove
	default:
		return fmt.Errorf("unknown pebble action %q", b)
	}
	return nil
}

// Move is one pebble placement or removal. Time is a logical timestamp
// assigned in emission order, strictly increasing within a sequence.
type Move struct {
	Action Action     `json:"action"`
	Node   dag.NodeID `json:"node"`
	Time   int        `json:"time"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s %d @%d", m.Action, m.Node, m.Time)
}

var (
	// ErrIllegalMove is the sentinel wrapped by [IllegalMoveError].
	ErrIllegalMove = errors.New("illegal pebble move")

	// ErrTimeOrder is returned by [Verify] when timestamps do not strictly increase.
	ErrTimeOrder = errors.New("move timestamps must strictly increase")

	// ErrIncomplete is returned by [Verify] when some node was never pebbled.
	ErrIncomplete = errors.New("not every node was pebbled")

	// ErrUnknownStrategy is returned by [Lookup] for an unregistered name.
	ErrUnknownStrategy = errors.New("unknown pebbling strategy")
)

// IllegalMoveError reports a placement on a node whose predecessors are not
// all pebbled. Missing lists those predecessors, ascending.
type IllegalMoveError struct {
	Node    dag.NodeID
	Missing []dag.NodeID
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("cannot place pebble on %d: unpebbled predecessors %v", e.Node, e.Missing)
}

// Unwrap returns [ErrIllegalMove].
func (e *IllegalMoveError) Unwrap() error { return ErrIllegalMove }
