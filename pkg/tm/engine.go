package tm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/errors"
)

// Outcome classifies the result of a single [Engine.Step].
type Outcome int

const (
	// Stepped means a transition fired and the new state is not accepting.
	Stepped Outcome = iota
	// Accepted means a transition fired and the new state is accepting.
	Accepted
	// AlreadyAccepted means the engine was already in an accepting state.
	// Nothing changed.
	AlreadyAccepted
	// Rejected means no transition is defined for the current state and
	// read tuple. Nothing changed.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Stepped:
		return "stepped"
	case Accepted:
		return "accepted"
	case AlreadyAccepted:
		return "already-accepted"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome by its name.
func (o Outcome) MarshalText() ([]byte, error) {
	if o < Stepped || o > Rejected {
		return nil, fmt.Errorf("unknown outcome %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(b []byte) error {
	for c := Stepped; c <= Rejected; c++ {
		if c.String() == string(b) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Fired reports whether the outcome applied a transition.
func (o Outcome) Fired() bool { return o == Stepped || o == Accepted }

// StepResult describes one call to [Engine.Step].
type StepResult struct {
	Outcome Outcome
	From    string
	Read    []Symbol
	// Effect is the applied transition. It is zero unless Outcome.Fired().
	Effect Effect
	// Positions holds each tape's logical head position before the step,
	// which is also the cell the step wrote.
	Positions []int
}

// Engine executes a [Machine]. It owns the tapes and the current state.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	machine *Machine
	tapes   []*Tape
	state   string
	steps   int
}

// NewEngine creates an engine positioned at the machine's start state with
// blank tapes.
func NewEngine(m *Machine) (*Engine, error) {
	if m == nil || len(m.states) == 0 || m.start < 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "no start state defined")
	}
	e := &Engine{machine: m, tapes: make([]*Tape, m.tapes)}
	for i := range e.tapes {
		e.tapes[i] = NewTape(m.blank)
	}
	e.state = m.Start().Name
	return e, nil
}

// Machine returns the machine being executed.
func (e *Engine) Machine() *Machine { return e.machine }

// Reset blanks all tapes, returns heads to position 0 and re-enters the start state.
func (e *Engine) Reset() {
	for _, t := range e.tapes {
		t.Reset()
	}
	e.state = e.machine.Start().Name
	e.steps = 0
}

// CurrentState returns the current state.
func (e *Engine) CurrentState() State {
	s, _ := e.machine.State(e.state)
	return s
}

// Steps returns the number of transitions fired since the last reset.
func (e *Engine) Steps() int { return e.steps }

// Tape returns tape i. The returned tape is live; mutating it changes the engine.
func (e *Engine) Tape(i int) *Tape { return e.tapes[i] }

// TapeSnapshot returns a copy of tape i.
func (e *Engine) TapeSnapshot(i int) (Snapshot, error) {
	if i < 0 || i >= len(e.tapes) {
		return Snapshot{}, errors.New(errors.ErrCodeInvalidInput, "tape index %d out of range [0,%d)", i, len(e.tapes))
	}
	return e.tapes[i].Snapshot(), nil
}

// Reads returns the symbol under each head.
func (e *Engine) Reads() []Symbol {
	out := make([]Symbol, len(e.tapes))
	for i, t := range e.tapes {
		out[i] = t.Read()
	}
	return out
}

// Positions returns each head's logical position.
func (e *Engine) Positions() []int {
	out := make([]int, len(e.tapes))
	for i, t := range e.tapes {
		out[i] = t.Position()
	}
	return out
}

// PeekExpectedEffect returns the effect the next step would apply, if any.
func (e *Engine) PeekExpectedEffect() (Effect, bool) {
	return e.machine.Lookup(e.state, e.Reads())
}

// Halted reports whether the engine can make no further progress: it is in
// an accepting state or no transition matches.
func (e *Engine) Halted() bool {
	if e.machine.IsAccept(e.state) {
		return true
	}
	_, ok := e.PeekExpectedEffect()
	return !ok
}

// LoadInput writes word onto tape i starting at the head, leaving the head
// in place. Every symbol must belong to the machine's alphabet or be blank;
// otherwise nothing is written.
func (e *Engine) LoadInput(i int, word string) error {
	if i < 0 || i >= len(e.tapes) {
		return errors.New(errors.ErrCodeInvalidInput, "tape index %d out of range [0,%d)", i, len(e.tapes))
	}
	symbols := []Symbol(word)
	for _, s := range symbols {
		if !e.machine.InAlphabet(s) {
			return errors.New(errors.ErrCodeInvalidSymbol, "symbol %q is not in the alphabet", s)
		}
	}
	t := e.tapes[i]
	start := t.Position()
	for k, s := range symbols {
		t.WriteAt(start+k, s)
	}
	return nil
}

// Step applies at most one transition.
//
// Accepting states are terminal: stepping from one returns AlreadyAccepted.
// A missing transition returns Rejected. In both cases tapes and state are
// untouched.
func (e *Engine) Step() StepResult {
	res := StepResult{From: e.state, Read: e.Reads(), Positions: e.Positions()}

	if e.machine.IsAccept(e.state) {
		res.Outcome = AlreadyAccepted
		return res
	}
	eff, ok := e.machine.Lookup(e.state, res.Read)
	if !ok {
		res.Outcome = Rejected
		return res
	}

	for i, t := range e.tapes {
		t.Write(eff.Write[i])
		t.Move(eff.Moves[i])
	}
	e.state = eff.Next
	e.steps++

	res.Effect = Effect{Next: eff.Next, Write: slices.Clone(eff.Write), Moves: slices.Clone(eff.Moves)}
	if e.machine.IsAccept(e.state) {
		res.Outcome = Accepted
	} else {
		res.Outcome = Stepped
	}
	return res
}

// Configuration renders the full machine configuration: state and every tape.
func (e *Engine) Configuration() string {
	var sb strings.Builder
	sb.WriteString(e.state)
	for _, t := range e.tapes {
		sb.WriteString(" ")
		sb.WriteString(t.String())
	}
	return sb.String()
}
