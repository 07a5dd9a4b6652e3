package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/tm"
	"github.com/matzehuels/tapegraph/pkg/trace"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	glyphPebbled = "●"
	glyphServed  = "◌"
	glyphFresh   = "○"
)

// =============================================================================
// PebbleModel - Manual pebble game
// =============================================================================

// PebbleModel is the bubbletea model for playing the pebble game by hand.
type PebbleModel struct {
	Game   *pebble.Game
	Nodes  []dag.NodeID
	Cursor int
	Height int
	Offset int

	status    string
	statusErr bool
}

// NewPebbleModel starts a game on g. Existing pebbles are cleared.
func NewPebbleModel(g *dag.Graph) PebbleModel {
	return PebbleModel{
		Game:   pebble.NewGame(g),
		Nodes:  g.NodeIDs(),
		Height: 15,
	}
}

func (m PebbleModel) Init() tea.Cmd {
	return nil
}

func (m PebbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "enter":
			if len(m.Nodes) == 0 {
				return m, nil
			}
			m = m.toggle(m.Nodes[m.Cursor])
		case "r":
			m.Game.Reset()
			m.status, m.statusErr = "Board reset", false
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PebbleModel) toggle(id dag.NodeID) PebbleModel {
	mv, err := m.Game.Toggle(id)
	var ime *pebble.IllegalMoveError
	switch {
	case errors.As(err, &ime):
		m.status, m.statusErr = fmt.Sprintf("n%d needs pebbles on %s first", id, nodeList(ime.Missing)), true
	case err != nil:
		m.status, m.statusErr = err.Error(), true
	case m.Game.Won():
		m.status, m.statusErr = fmt.Sprintf("Every node pebbled in %d moves, peak %d", len(m.Game.Moves()), m.Game.Peak()), false
	default:
		m.status, m.statusErr = mv.String(), false
	}
	return m
}

func (m PebbleModel) View() string {
	var b strings.Builder
	g := m.Game.Graph()

	b.WriteString(StyleTitle.Render("Pebble Game"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ place/remove  r reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		id := m.Nodes[i]
		n, _ := g.Node(id)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		glyph := glyphFresh
		switch {
		case n.IsPebbled():
			glyph = StyleSuccess.Render(glyphPebbled)
		case n.EverPebbled:
			glyph = StyleHighlight.Render(glyphServed)
		}

		line := fmt.Sprintf("%s%s n%-4d", cursor, glyph, id)
		if preds := g.Predecessors(id); len(preds) > 0 {
			line += listDimStyle.Render(" ← " + nodeList(preds))
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	covered := 0
	for _, id := range m.Nodes {
		if n, _ := g.Node(id); n.EverPebbled {
			covered++
		}
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("moves %d · live %d · peak %d · covered %d/%d",
		len(m.Game.Moves()), m.Game.Live(), m.Game.Peak(), covered, len(m.Nodes))))
	b.WriteString("\n")
	if m.status != "" {
		if m.statusErr {
			b.WriteString(statusErrStyle.Render(m.status))
		} else {
			b.WriteString(StyleSuccess.Render(m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// StepperModel - Single-step machine execution
// =============================================================================

// StepperModel is the bubbletea model for stepping a machine and watching
// its trace graph grow.
type StepperModel struct {
	Builder *trace.Builder
	Input   string
	Tape    int

	last *trace.Event
	err  error
}

// NewStepperModel loads input onto the given tape of e and traces into g.
func NewStepperModel(e *tm.Engine, g *dag.Graph, input string, tape int, opts ...trace.Option) (StepperModel, error) {
	if err := e.LoadInput(tape, input); err != nil {
		return StepperModel{}, err
	}
	b := trace.New(e, g, opts...)
	b.Begin()
	return StepperModel{Builder: b, Input: input, Tape: tape}, nil
}

func (m StepperModel) Init() tea.Cmd {
	return nil
}

func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space", "s", "enter":
			ev, err := m.Builder.Step()
			m.last, m.err = &ev, err
		case "r":
			e := m.Builder.Engine()
			e.Reset()
			m.Builder.Graph().Clear()
			m.Builder.Reset()
			m.err = e.LoadInput(m.Tape, m.Input)
			m.Builder.Begin()
			m.last = nil
		}
	}
	return m, nil
}

func (m StepperModel) View() string {
	var b strings.Builder
	e := m.Builder.Engine()
	g := m.Builder.Graph()

	b.WriteString(StyleTitle.Render("Machine Stepper"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("␣ step  r reset  q quit"))
	b.WriteString("\n\n")

	state := e.CurrentState()
	stateLine := "state " + StyleHighlight.Render(state.Name)
	if state.IsAccept {
		stateLine += " " + StyleSuccess.Render("(accept)")
	}
	b.WriteString(stateLine + listDimStyle.Render(fmt.Sprintf("  step %d", e.Steps())) + "\n")
	for i := range e.Machine().Tapes() {
		snap, _ := e.TapeSnapshot(i)
		b.WriteString(fmt.Sprintf("tape %d %s\n", i, formatTape(snap)))
	}

	b.WriteString("\n")
	if eff, ok := e.PeekExpectedEffect(); ok && !state.IsAccept {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("next: → %s write %s move %s",
			eff.Next, string(eff.Write), moveList(eff.Moves))))
		b.WriteString("\n")
	} else if e.Halted() {
		b.WriteString(StyleWarning.Render("halted"))
		b.WriteString("\n")
	}

	if m.last != nil {
		line := "last: " + m.last.Result.Outcome.String()
		if m.last.Added {
			line += fmt.Sprintf(", added n%d", m.last.Node)
			if len(m.last.Deps) > 0 {
				line += " ← " + nodeList(m.last.Deps)
			}
		}
		b.WriteString(line + "\n")
	}
	if m.err != nil {
		b.WriteString(statusErrStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("graph: %d nodes · %d edges", g.NodeCount(), g.EdgeCount())))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func nodeList(ids []dag.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "n" + strconv.Itoa(int(id))
	}
	return strings.Join(parts, " ")
}

func moveList(moves []tm.Move) string {
	parts := make([]string, len(moves))
	for i, mv := range moves {
		switch mv {
		case tm.Left:
			parts[i] = "L"
		case tm.Right:
			parts[i] = "R"
		default:
			parts[i] = "S"
		}
	}
	return strings.Join(parts, ",")
}
