package dag

import "fmt"

// SetPebbled places (on) or removes (!on) a pebble on a node. Placing also
// sets EverPebbled. SetPebbled does not check legality; that is the job of
// the pebble package, which is the only intended caller.
func (g *Graph) SetPebbled(id NodeID, on bool) error {
	s := g.slot(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	if on {
		s.node.Pebble = Pebbled
		s.node.EverPebbled = true
	} else {
		s.node.Pebble = Unpebbled
	}
	return nil
}

// ResetPebbles clears the pebble state and EverPebbled on every node.
func (g *Graph) ResetPebbles() {
	for i := range g.slots {
		g.slots[i].node.Pebble = Unpebbled
		g.slots[i].node.EverPebbled = false
	}
}

// PebbledCount returns the number of nodes currently holding a pebble.
func (g *Graph) PebbledCount() int {
	n := 0
	for i := range g.slots {
		if g.slots[i].alive && g.slots[i].node.Pebble == Pebbled {
			n++
		}
	}
	return n
}

// IsFullyPebbled reports whether every node has been pebbled at least once.
// An empty graph is fully pebbled.
func (g *Graph) IsFullyPebbled() bool {
	for i := range g.slots {
		if g.slots[i].alive && !g.slots[i].node.EverPebbled {
			return false
		}
	}
	return true
}
