package tm

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tapegraph/pkg/errors"
)

func TestBuilder_SecondStartState(t *testing.T) {
	b := NewBuilder(1)
	if err := b.AddState("q0", true, false); err != nil {
		t.Fatal(err)
	}
	err := b.AddState("q1", true, false)
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("AddState(second start) error = %v, want CONFIGURATION", err)
	}

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.States()) != 1 {
		t.Errorf("States() = %v, failed AddState must not add a state", m.States())
	}
	if m.Start().Name != "q0" {
		t.Errorf("Start() = %s, want q0", m.Start().Name)
	}
}

func TestBuilder_NoStartState(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", false, true)

	if _, err := b.Build(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Build() error = %v, want CONFIGURATION", err)
	}
	if err := b.Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate() error = %v, want CONFIGURATION", err)
	}
}

func TestBuilder_ZeroTapes(t *testing.T) {
	b := NewBuilder(0)
	_ = b.AddState("q0", true, true)
	if _, err := b.Build(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Build() error = %v, want CONFIGURATION", err)
	}
}

func TestBuilder_AddTransitionErrors(t *testing.T) {
	b := NewBuilder(2)
	_ = b.AddState("q0", true, false)
	_ = b.AddState("q1", false, true)

	tests := []struct {
		name  string
		from  string
		read  []Symbol
		to    string
		write []Symbol
		moves []Move
		code  errors.Code
	}{
		{"unknown from", "zz", []Symbol{'a', 'a'}, "q1", []Symbol{'a', 'a'}, []Move{0, 0}, errors.ErrCodeInvalidState},
		{"unknown to", "q0", []Symbol{'a', 'a'}, "zz", []Symbol{'a', 'a'}, []Move{0, 0}, errors.ErrCodeInvalidState},
		{"short read", "q0", []Symbol{'a'}, "q1", []Symbol{'a', 'a'}, []Move{0, 0}, errors.ErrCodeConfiguration},
		{"long moves", "q0", []Symbol{'a', 'a'}, "q1", []Symbol{'a', 'a'}, []Move{0, 0, 0}, errors.ErrCodeConfiguration},
		{"bad move", "q0", []Symbol{'a', 'a'}, "q1", []Symbol{'a', 'a'}, []Move{2, 0}, errors.ErrCodeInvalidInput},
		{"bad symbol", "q0", []Symbol{' ', 'a'}, "q1", []Symbol{'a', 'a'}, []Move{0, 0}, errors.ErrCodeInvalidSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.AddTransition(tt.from, tt.read, tt.to, tt.write, tt.moves)
			if !errors.Is(err, tt.code) {
				t.Errorf("AddTransition() error = %v, want %s", err, tt.code)
			}
		})
	}

	m, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Transitions()) != 0 {
		t.Errorf("Transitions() = %v, failed adds must not mutate", m.Transitions())
	}
	if len(m.Alphabet()) != 0 {
		t.Errorf("Alphabet() = %q, failed adds must not mutate", m.Alphabet())
	}
}

func TestBuilder_DuplicateTransition(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", true, false)
	_ = b.AddState("q1", false, true)
	if err := b.AddTransition("q0", []Symbol{'a'}, "q1", []Symbol{'a'}, []Move{Right}); err != nil {
		t.Fatal(err)
	}
	err := b.AddTransition("q0", []Symbol{'a'}, "q0", []Symbol{'b'}, []Move{Left})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("duplicate AddTransition() error = %v, want CONFIGURATION", err)
	}

	m, _ := b.Build()
	eff, ok := m.Lookup("q0", []Symbol{'a'})
	if !ok || eff.Next != "q1" {
		t.Errorf("Lookup() = %+v, %v; first transition must win", eff, ok)
	}
	if slices.Contains(m.Alphabet(), 'b') {
		t.Error("rejected transition leaked 'b' into the alphabet")
	}
}

func TestBuilder_DuplicateStateName(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", true, false)
	if err := b.AddState("q0", false, true); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("AddState(duplicate) error = %v, want INVALID_STATE", err)
	}
}

func TestBuilder_BuildIsolated(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", true, true)
	m, _ := b.Build()

	_ = b.AddState("q1", false, false)
	_ = b.AddSymbol('z')
	if len(m.States()) != 1 || len(m.Alphabet()) != 0 {
		t.Error("builder changes after Build leaked into the machine")
	}
}

func TestMachine_Validate(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", true, false)
	m, _ := b.Build()
	if err := m.Validate(); !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Validate() without accept state error = %v, want CONFIGURATION", err)
	}

	b = NewBuilder(1)
	_ = b.AddState("q0", true, true)
	m, _ = b.Build()
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestMachine_Describe(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", true, false)
	_ = b.AddState("q1", false, true)
	_ = b.AddTransition("q0", []Symbol{'a'}, "q1", []Symbol{'b'}, []Move{Right})
	b.SetComplexity("O(1)")
	m, _ := b.Build()

	desc := m.Describe()
	for _, want := range []string{
		"Tapes: 1",
		"Complexity: O(1)",
		"- q0 (start)",
		"- q1 (accept)",
		"- a",
		"- b",
		"q0 [a] -> q1 write [b] move [1]",
	} {
		if !strings.Contains(desc, want) {
			t.Errorf("Describe() missing %q:\n%s", want, desc)
		}
	}
	if desc != m.Describe() {
		t.Error("Describe() is not deterministic")
	}
}

func TestBuilder_DefaultComplexity(t *testing.T) {
	b := NewBuilder(1)
	_ = b.AddState("q0", true, true)
	b.SetComplexity("")
	m, _ := b.Build()
	if m.Complexity() != DefaultComplexity {
		t.Errorf("Complexity() = %q, want %q", m.Complexity(), DefaultComplexity)
	}
}

func TestWithBlank(t *testing.T) {
	b := NewBuilder(1, WithBlank('_'))
	_ = b.AddState("q0", true, true)
	m, _ := b.Build()
	if m.Blank() != '_' || !m.InAlphabet('_') {
		t.Errorf("Blank() = %q, want _", m.Blank())
	}
}
