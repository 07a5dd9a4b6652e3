package io

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/tm"
)

// MachineDef is the format-neutral form of a machine definition. The text,
// TOML and YAML codecs all decode into a MachineDef and build from it.
//
// Tuples use the text syntax: symbols and moves are comma-joined per tape,
// e.g. Read "a,#" and Move "1,-1" for a two-tape machine.
type MachineDef struct {
	Tapes       int             `toml:"tapes" yaml:"tapes" json:"tapes"`
	Blank       string          `toml:"blank,omitempty" yaml:"blank,omitempty" json:"blank,omitempty"`
	Complexity  string          `toml:"complexity,omitempty" yaml:"complexity,omitempty" json:"complexity,omitempty"`
	States      []StateDef      `toml:"states" yaml:"states" json:"states"`
	Alphabet    []string        `toml:"alphabet,omitempty" yaml:"alphabet,omitempty" json:"alphabet,omitempty"`
	Transitions []TransitionDef `toml:"transitions" yaml:"transitions" json:"transitions"`
}

// StateDef declares one state.
type StateDef struct {
	Name   string `toml:"name" yaml:"name" json:"name"`
	Start  bool   `toml:"start,omitempty" yaml:"start,omitempty" json:"start,omitempty"`
	Accept bool   `toml:"accept,omitempty" yaml:"accept,omitempty" json:"accept,omitempty"`
}

// TransitionDef declares one transition. Line is the source line for text
// input and is used in error messages only.
type TransitionDef struct {
	From  string `toml:"from" yaml:"from" json:"from"`
	Read  string `toml:"read" yaml:"read" json:"read"`
	To    string `toml:"to" yaml:"to" json:"to"`
	Write string `toml:"write" yaml:"write" json:"write"`
	Move  string `toml:"move" yaml:"move" json:"move"`
	Line  int    `toml:"-" yaml:"-" json:"-"`
}

// Build validates the definition and constructs the machine. If Tapes is
// zero the tape count is inferred from the first transition's read tuple,
// defaulting to 1. The blank symbol defaults to [tm.DefaultBlank]; blank
// overrides it when set.
func (d *MachineDef) Build(blank tm.Symbol) (*tm.Machine, error) {
	if d.Blank != "" {
		r := []rune(d.Blank)
		if len(r) != 1 {
			return nil, parseErr(0, nil, "blank must be a single symbol, got %q", d.Blank)
		}
		blank = r[0]
	}
	if blank == 0 {
		blank = tm.DefaultBlank
	}

	tapes := d.Tapes
	if tapes == 0 {
		tapes = 1
		if len(d.Transitions) > 0 {
			read, err := parseSymbols(d.Transitions[0].Read, 0)
			if err != nil {
				return nil, parseErr(d.Transitions[0].Line, err, "read tuple")
			}
			tapes = len(read)
		}
	}

	b := tm.NewBuilder(tapes, tm.WithBlank(blank))
	for _, s := range d.States {
		if err := b.AddState(s.Name, s.Start, s.Accept); err != nil {
			return nil, parseErr(0, err, "state %s", s.Name)
		}
	}
	for _, a := range d.Alphabet {
		r := []rune(strings.TrimSpace(a))
		if len(r) != 1 {
			return nil, parseErr(0, nil, "alphabet entry %q must be a single symbol", a)
		}
		if err := b.AddSymbol(r[0]); err != nil {
			return nil, parseErr(0, err, "alphabet entry %q", a)
		}
	}
	for _, t := range d.Transitions {
		read, err := parseSymbols(t.Read, tapes)
		if err != nil {
			return nil, parseErr(t.Line, err, "read tuple %q", t.Read)
		}
		write, err := parseSymbols(t.Write, tapes)
		if err != nil {
			return nil, parseErr(t.Line, err, "write tuple %q", t.Write)
		}
		moves, err := parseMoves(t.Move)
		if err != nil {
			return nil, parseErr(t.Line, err, "move tuple %q", t.Move)
		}
		if err := b.AddTransition(t.From, read, t.To, write, moves); err != nil {
			return nil, parseErr(t.Line, err, "transition %s %s", t.From, t.Read)
		}
	}
	b.SetComplexity(d.Complexity)
	m, err := b.Build()
	if err != nil {
		return nil, parseErr(0, err, "build machine")
	}
	return m, nil
}

// DefFromMachine converts a machine back to its definition.
func DefFromMachine(m *tm.Machine) *MachineDef {
	d := &MachineDef{Tapes: m.Tapes(), Complexity: m.Complexity()}
	if m.Blank() != tm.DefaultBlank {
		d.Blank = string(m.Blank())
	}
	for _, s := range m.States() {
		d.States = append(d.States, StateDef{Name: s.Name, Start: s.IsStart, Accept: s.IsAccept})
	}
	for _, s := range m.Alphabet() {
		d.Alphabet = append(d.Alphabet, string(s))
	}
	for _, t := range m.Transitions() {
		d.Transitions = append(d.Transitions, TransitionDef{
			From:  t.From,
			Read:  joinSymbols(t.Read),
			To:    t.Effect.Next,
			Write: joinSymbols(t.Effect.Write),
			Move:  joinMoves(t.Effect.Moves),
		})
	}
	return d
}

// parseSymbols splits a tuple field into symbols. Fields are comma-joined,
// but a field without commas whose length matches want is split per rune,
// so "ab" reads as the two-tape tuple a,b. want <= 0 disables that rule.
func parseSymbols(field string, want int) ([]tm.Symbol, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, fmt.Errorf("empty tuple")
	}
	if !strings.Contains(field, ",") {
		r := []rune(field)
		if len(r) == 1 || len(r) == want {
			return r, nil
		}
		return nil, fmt.Errorf("expected %d symbol(s), got %q", max(want, 1), field)
	}
	parts := strings.Split(field, ",")
	out := make([]tm.Symbol, len(parts))
	for i, p := range parts {
		r := []rune(strings.TrimSpace(p))
		if len(r) != 1 {
			return nil, fmt.Errorf("tuple element %q is not a single symbol", p)
		}
		out[i] = r[0]
	}
	return out, nil
}

func parseMoves(field string) ([]tm.Move, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, fmt.Errorf("empty tuple")
	}
	parts := strings.Split(field, ",")
	out := make([]tm.Move, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		switch strings.ToUpper(p) {
		case "L":
			out[i] = tm.Left
		case "R":
			out[i] = tm.Right
		case "S", "N":
			out[i] = tm.Stay
		default:
			n, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("move %q: %w", p, err)
			}
			out[i] = tm.Move(n)
		}
	}
	return out, nil
}

func joinSymbols(symbols []tm.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

func joinMoves(moves []tm.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = strconv.Itoa(int(m))
	}
	return strings.Join(parts, ",")
}
