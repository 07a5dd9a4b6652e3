package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

// Terminal palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the command output and the interactive views.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleHeadCell = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	stylePlace    = lipgloss.NewStyle().Foreground(colorGreen)
	styleRemove   = lipgloss.NewStyle().Foreground(colorRed)
)

// statusLine is one kind of prefixed status message.
type statusLine struct {
	icon      string
	iconStyle lipgloss.Style
	textStyle *lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorGreen), nil}
	lineError   = statusLine{"✗", lipgloss.NewStyle().Foreground(colorRed), nil}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorYellow), &StyleWarning}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorGray), nil}
)

func (l statusLine) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if l.textStyle != nil {
		msg = l.textStyle.Render(msg)
	}
	fmt.Println(l.iconStyle.Render(l.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { lineSuccess.print(format, args...) }
func printError(format string, args ...any)   { lineError.print(format, args...) }
func printWarning(format string, args ...any) { lineWarning.print(format, args...) }
func printInfo(format string, args ...any)    { lineInfo.print(format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a file that was written.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints node and edge counts and whether the result came from
// the cache.
func printStats(nodes, edges int, cached bool) {
	origin := StyleDim.Render("fresh")
	if cached {
		origin = StyleSuccess.Render("cached")
	}
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf("%d nodes · %d edges · ", nodes, edges)) + origin)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// formatTape renders the stored cells of a tape with the head cell
// highlighted.
func formatTape(s tm.Snapshot) string {
	var b strings.Builder
	for i, r := range []rune(s.Cells) {
		cell := string(r)
		if i == s.Head {
			b.WriteString(styleHeadCell.Render("[" + cell + "]"))
			continue
		}
		b.WriteString(" " + cell + " ")
	}
	return b.String()
}

// movesTable renders a move list as a table.
func movesTable(moves []pebble.Move) string {
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, []string{strconv.Itoa(m.Time), m.Action.String(), "n" + strconv.Itoa(int(m.Node))})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("t", "action", "node").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 && row < len(moves) {
				if moves[row].Action == pebble.Place {
					return base.Inherit(stylePlace)
				}
				return base.Inherit(styleRemove)
			}
			return base
		})
	return t.Render()
}
