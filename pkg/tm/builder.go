package tm

import (
	"slices"

	"github.com/matzehuels/tapegraph/pkg/errors"
)

// Builder assembles a [Machine]. Every Add method validates its input before
// touching the builder, so a failed call leaves the builder unchanged.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	tapes      int
	blank      Symbol
	states     []State
	byName     map[string]int
	alphabet   map[Symbol]struct{}
	table      *Table
	start      int
	complexity string
}

// Option configures a Builder.
type Option func(*Builder)

// WithBlank sets the blank symbol (default [DefaultBlank]).
func WithBlank(s Symbol) Option {
	return func(b *Builder) { b.blank = s }
}

// NewBuilder creates a builder for a machine with the given number of tapes.
// The tape count is checked by [Builder.Build].
func NewBuilder(tapes int, opts ...Option) *Builder {
	b := &Builder{
		tapes:      tapes,
		blank:      DefaultBlank,
		byName:     make(map[string]int),
		alphabet:   make(map[Symbol]struct{}),
		table:      NewTable(),
		start:      -1,
		complexity: DefaultComplexity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tapes returns the configured tape count.
func (b *Builder) Tapes() int { return b.tapes }

// AddState declares a state. It fails with a configuration error if isStart
// is set and a start state already exists, and with an invalid-state error for
// duplicate or malformed names.
func (b *Builder) AddState(name string, isStart, isAccept bool) error {
	if err := errors.ValidateStateName(name); err != nil {
		return err
	}
	if _, exists := b.byName[name]; exists {
		return errors.New(errors.ErrCodeInvalidState, "duplicate state %q", name)
	}
	if isStart && b.start >= 0 {
		return errors.New(errors.ErrCodeConfiguration, "start state already defined (%s), cannot add %s", b.states[b.start].Name, name)
	}

	idx := len(b.states)
	b.states = append(b.states, State{Name: name, IsStart: isStart, IsAccept: isAccept, Index: idx})
	b.byName[name] = idx
	if isStart {
		b.start = idx
	}
	return nil
}

// AddSymbol adds a symbol to the alphabet. Adding an existing symbol is a no-op.
func (b *Builder) AddSymbol(s Symbol) error {
	if err := errors.ValidateSymbol(s); err != nil {
		return err
	}
	b.alphabet[s] = struct{}{}
	return nil
}

// AddTransition declares (from, read) -> (to, write, moves). All tuples must
// have one entry per tape. Symbols used in read and write tuples are added to
// the alphabet. A second effect for the same (from, read) pair is rejected.
func (b *Builder) AddTransition(from string, read []Symbol, to string, write []Symbol, moves []Move) error {
	if _, ok := b.byName[from]; !ok {
		return errors.New(errors.ErrCodeInvalidState, "unknown state %q", from)
	}
	if _, ok := b.byName[to]; !ok {
		return errors.New(errors.ErrCodeInvalidState, "unknown state %q", to)
	}
	if len(read) != b.tapes || len(write) != b.tapes || len(moves) != b.tapes {
		return errors.New(errors.ErrCodeConfiguration,
			"transition %s %s: tuple lengths read=%d write=%d move=%d, want %d",
			from, formatTuple(read), len(read), len(write), len(moves), b.tapes)
	}
	for _, s := range slices.Concat(read, write) {
		if err := errors.ValidateSymbol(s); err != nil {
			return err
		}
	}
	for _, m := range moves {
		if err := errors.ValidateMove(int(m)); err != nil {
			return err
		}
	}

	if err := b.table.Add(NewKey(from, read), Effect{Next: to, Write: write, Moves: moves}); err != nil {
		return err
	}
	for _, s := range slices.Concat(read, write) {
		if s != b.blank {
			b.alphabet[s] = struct{}{}
		}
	}
	return nil
}

// SetComplexity records a free-form time-complexity annotation such as "O(n^2)".
// An empty string resets it to [DefaultComplexity].
func (b *Builder) SetComplexity(expr string) {
	if expr == "" {
		expr = DefaultComplexity
	}
	b.complexity = expr
}

// Validate reports whether the builder can produce a usable recognizer:
// exactly one start state and at least one accept state.
func (b *Builder) Validate() error {
	if b.tapes < 1 {
		return errors.New(errors.ErrCodeConfiguration, "tape count must be at least 1, got %d", b.tapes)
	}
	if b.start < 0 {
		return errors.New(errors.ErrCodeConfiguration, "no start state defined")
	}
	for _, s := range b.states {
		if s.IsAccept {
			return nil
		}
	}
	return errors.New(errors.ErrCodeConfiguration, "no accept state defined")
}

// Build returns the machine. It fails with a configuration error when the
// tape count is invalid or no start state was declared. A missing accept
// state is not fatal here; see [Machine.Validate].
func (b *Builder) Build() (*Machine, error) {
	if b.tapes < 1 {
		return nil, errors.New(errors.ErrCodeConfiguration, "tape count must be at least 1, got %d", b.tapes)
	}
	if b.start < 0 {
		return nil, errors.New(errors.ErrCodeConfiguration, "no start state defined")
	}

	table := NewTable()
	for _, k := range b.table.Keys() {
		e, _ := b.table.Lookup(k)
		_ = table.Add(k, e)
	}
	byName := make(map[string]int, len(b.byName))
	for k, v := range b.byName {
		byName[k] = v
	}
	alphabet := make(map[Symbol]struct{}, len(b.alphabet))
	for k := range b.alphabet {
		alphabet[k] = struct{}{}
	}

	return &Machine{
		tapes:      b.tapes,
		blank:      b.blank,
		states:     slices.Clone(b.states),
		byName:     byName,
		alphabet:   alphabet,
		table:      table,
		start:      b.start,
		complexity: b.complexity,
	}, nil
}
