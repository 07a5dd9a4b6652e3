package tm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/errors"
)

// Symbol is a single tape character.
type Symbol = rune

// DefaultBlank is the symbol read from cells that were never written.
const DefaultBlank Symbol = '#'

// DefaultComplexity is the complexity annotation used when none was declared.
const DefaultComplexity = "O(?)"

// Move is a head offset applied after writing.
type Move int

const (
	Left  Move = -1
	Stay  Move = 0
	Right Move = 1
)

// State is a named control state of a machine.
//
// Identity is the name. Index records creation order and is only used for
// stable listings.
type State struct {
	Name     string
	IsStart  bool
	IsAccept bool
	Index    int
}

// String returns the state name.
func (s State) String() string { return s.Name }

// Key identifies a transition: the current state plus one read symbol per tape.
// Read holds the tuple as a string of runes so that keys compare structurally
// and can be used as map keys.
type Key struct {
	State string
	Read  string
}

// NewKey builds a key from a state name and a read tuple.
func NewKey(state string, read []Symbol) Key {
	return Key{State: state, Read: string(read)}
}

// Reads returns the read tuple of the key.
func (k Key) Reads() []Symbol { return []Symbol(k.Read) }

// Effect is the deterministic outcome of a transition.
type Effect struct {
	Next  string
	Write []Symbol
	Moves []Move
}

// Transition is a key together with its effect, as listed by [Machine.Transitions].
type Transition struct {
	From   string
	Read   []Symbol
	Effect Effect
}

// Table is a partial function from [Key] to [Effect].
// The zero value is not usable; use NewTable.
type Table struct {
	effects map[Key]Effect
	order   []Key
}

// NewTable returns an empty transition table.
func NewTable() *Table {
	return &Table{effects: make(map[Key]Effect)}
}

// Add records an effect for k. It fails if k already has an effect.
func (t *Table) Add(k Key, e Effect) error {
	if _, exists := t.effects[k]; exists {
		return errors.New(errors.ErrCodeConfiguration, "duplicate transition for (%s, %s)", k.State, formatTuple(k.Reads()))
	}
	t.effects[k] = Effect{
		Next:  e.Next,
		Write: slices.Clone(e.Write),
		Moves: slices.Clone(e.Moves),
	}
	t.order = append(t.order, k)
	return nil
}

// Lookup returns the effect for k, if any.
func (t *Table) Lookup(k Key) (Effect, bool) {
	e, ok := t.effects[k]
	return e, ok
}

// Len returns the number of transitions.
func (t *Table) Len() int { return len(t.order) }

// Keys returns all keys in insertion order.
func (t *Table) Keys() []Key { return slices.Clone(t.order) }

// Machine is an immutable deterministic multi-tape Turing machine definition.
// Build one with [Builder]. Execution state lives in [Engine].
type Machine struct {
	tapes      int
	blank      Symbol
	states     []State
	byName     map[string]int
	alphabet   map[Symbol]struct{}
	table      *Table
	start      int
	complexity string
}

// Tapes returns the number of tapes.
func (m *Machine) Tapes() int { return m.tapes }

// Blank returns the blank symbol.
func (m *Machine) Blank() Symbol { return m.blank }

// Complexity returns the declared time-complexity annotation.
func (m *Machine) Complexity() string { return m.complexity }

// Start returns the start state.
func (m *Machine) Start() State { return m.states[m.start] }

// States returns all states in creation order.
func (m *Machine) States() []State { return slices.Clone(m.states) }

// State returns the state with the given name.
func (m *Machine) State(name string) (State, bool) {
	i, ok := m.byName[name]
	if !ok {
		return State{}, false
	}
	return m.states[i], true
}

// AcceptStates returns the accepting states in creation order.
func (m *Machine) AcceptStates() []State {
	var out []State
	for _, s := range m.states {
		if s.IsAccept {
			out = append(out, s)
		}
	}
	return out
}

// IsAccept reports whether the named state is accepting.
func (m *Machine) IsAccept(name string) bool {
	s, ok := m.State(name)
	return ok && s.IsAccept
}

// Alphabet returns the input alphabet in ascending order. The blank symbol
// is implicit and not listed unless it was added explicitly.
func (m *Machine) Alphabet() []Symbol {
	out := make([]Symbol, 0, len(m.alphabet))
	for s := range m.alphabet {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// InAlphabet reports whether s may appear on a tape: it is either in the
// alphabet or the blank symbol.
func (m *Machine) InAlphabet(s Symbol) bool {
	if s == m.blank {
		return true
	}
	_, ok := m.alphabet[s]
	return ok
}

// Lookup returns the effect for the given state and read tuple.
func (m *Machine) Lookup(state string, read []Symbol) (Effect, bool) {
	return m.table.Lookup(NewKey(state, read))
}

// Transitions returns all transitions in declaration order.
func (m *Machine) Transitions() []Transition {
	keys := m.table.Keys()
	out := make([]Transition, 0, len(keys))
	for _, k := range keys {
		e, _ := m.table.Lookup(k)
		out = append(out, Transition{From: k.State, Read: k.Reads(), Effect: e})
	}
	return out
}

// Validate reports configuration problems that do not prevent execution but
// make the machine unusable as a recognizer: a machine without an accept
// state can never accept.
func (m *Machine) Validate() error {
	if m == nil || len(m.states) == 0 {
		return errors.New(errors.ErrCodeConfiguration, "no start state defined")
	}
	if len(m.AcceptStates()) == 0 {
		return errors.New(errors.ErrCodeConfiguration, "no accept state defined")
	}
	return nil
}

// Describe returns a human-readable listing of states, alphabet and
// transitions. The output is deterministic.
func (m *Machine) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tapes: %d\n", m.tapes)
	fmt.Fprintf(&sb, "Complexity: %s\n", m.complexity)

	sb.WriteString("\nStates:\n")
	for _, s := range m.states {
		sb.WriteString("- " + s.Name)
		if s.IsStart {
			sb.WriteString(" (start)")
		}
		if s.IsAccept {
			sb.WriteString(" (accept)")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nAlphabet:\n")
	for _, s := range m.Alphabet() {
		fmt.Fprintf(&sb, "- %c\n", s)
	}

	sb.WriteString("\nTransitions:\n")
	for _, t := range m.Transitions() {
		fmt.Fprintf(&sb, "%s %s -> %s write %s move %s\n",
			t.From, formatTuple(t.Read), t.Effect.Next, formatTuple(t.Effect.Write), formatMoves(t.Effect.Moves))
	}
	return sb.String()
}

func formatTuple(symbols []Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = fmt.Sprintf("%d", m)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
