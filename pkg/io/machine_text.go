package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/tapegraph/pkg/tm"
)

const (
	sectionTapes       = "TAPES:"
	sectionStates      = "STATES:"
	sectionAlphabet    = "ALPHABET:"
	sectionTransitions = "TRANSITIONS:"
	sectionComplexity  = "COMPLEXITY:"
	sectionBlank       = "BLANK:"
)

// ParseMachine decodes the sectioned machine text format into a definition:
//
//	TAPES: 1
//
//	STATES:
//	q0 start
//	q1 accept
//
//	ALPHABET:
//	0
//	1
//
//	TRANSITIONS:
//	q0 1 -> q1 0 1
//
//	COMPLEXITY: O(n)
//
// TAPES and COMPLEXITY take their value on the same line or, for TAPES, on
// the next line. An optional "BLANK: <symbol>" line overrides the blank
// symbol. ALPHABET, TAPES, BLANK and COMPLEXITY are optional. Transition
// lines are "<from> <read> -> <to> <write> <move>" with tuples comma-joined
// per tape. Blank lines are ignored.
func ParseMachine(r io.Reader) (*MachineDef, error) {
	d := &MachineDef{}
	sc := bufio.NewScanner(r)
	section := ""
	line := 0
	seenStates := false
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if head, rest, ok := sectionHeader(text); ok {
			section = head
			switch head {
			case sectionStates:
				seenStates = true
			case sectionTransitions:
				if !seenStates {
					return nil, parseErr(line, nil, "TRANSITIONS before STATES")
				}
			}
			if rest == "" {
				continue
			}
			switch head {
			case sectionTapes:
				n, err := strconv.Atoi(rest)
				if err != nil || n < 1 {
					return nil, parseErr(line, err, "tape count %q", rest)
				}
				d.Tapes = n
			case sectionComplexity:
				d.Complexity = rest
			case sectionBlank:
				d.Blank = rest
			default:
				return nil, parseErr(line, nil, "unexpected text after %s", head)
			}
			continue
		}

		switch section {
		case sectionTapes:
			n, err := strconv.Atoi(text)
			if err != nil || n < 1 {
				return nil, parseErr(line, err, "tape count %q", text)
			}
			d.Tapes = n
		case sectionStates:
			fields := strings.Fields(text)
			s := StateDef{Name: fields[0]}
			for _, f := range fields[1:] {
				switch strings.ToLower(f) {
				case "start":
					s.Start = true
				case "accept":
					s.Accept = true
				default:
					return nil, parseErr(line, nil, "unknown state flag %q", f)
				}
			}
			d.States = append(d.States, s)
		case sectionAlphabet:
			d.Alphabet = append(d.Alphabet, text)
		case sectionTransitions:
			t, err := parseTransition(text)
			if err != nil {
				return nil, parseErr(line, err, "transition")
			}
			t.Line = line
			d.Transitions = append(d.Transitions, t)
		case sectionComplexity:
			d.Complexity = text
		case sectionBlank:
			d.Blank = text
		default:
			return nil, parseErr(line, nil, "text outside of a section: %q", text)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read machine: %w", err)
	}
	if !seenStates {
		return nil, parseErr(0, nil, "missing STATES section")
	}
	return d, nil
}

func sectionHeader(text string) (head, rest string, ok bool) {
	for _, h := range []string{sectionTapes, sectionStates, sectionAlphabet, sectionTransitions, sectionComplexity, sectionBlank} {
		if strings.HasPrefix(strings.ToUpper(text), h) {
			return h, strings.TrimSpace(text[len(h):]), true
		}
	}
	return "", "", false
}

func parseTransition(text string) (TransitionDef, error) {
	left, right, ok := strings.Cut(text, "->")
	if !ok {
		return TransitionDef{}, fmt.Errorf("missing '->' in %q", text)
	}
	lf := strings.Fields(left)
	rf := strings.Fields(right)
	if len(lf) != 2 || len(rf) != 3 {
		return TransitionDef{}, fmt.Errorf("want '<from> <read> -> <to> <write> <move>', got %q", text)
	}
	return TransitionDef{From: lf[0], Read: lf[1], To: rf[0], Write: rf[1], Move: rf[2]}, nil
}

// ReadMachine parses the text format and builds the machine.
func ReadMachine(r io.Reader, blank tm.Symbol) (*tm.Machine, error) {
	d, err := ParseMachine(r)
	if err != nil {
		return nil, err
	}
	return d.Build(blank)
}

// WriteMachine encodes m in the text format read by [ParseMachine].
func WriteMachine(m *tm.Machine, w io.Writer) error {
	return WriteMachineDef(DefFromMachine(m), w)
}

// WriteMachineDef encodes a definition in the text format.
func WriteMachineDef(d *MachineDef, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d\n", sectionTapes, d.Tapes)
	if d.Blank != "" {
		fmt.Fprintf(bw, "%s %s\n", sectionBlank, d.Blank)
	}
	bw.WriteString("\n")

	fmt.Fprintln(bw, sectionStates)
	for _, s := range d.States {
		bw.WriteString(s.Name)
		if s.Start {
			bw.WriteString(" start")
		}
		if s.Accept {
			bw.WriteString(" accept")
		}
		bw.WriteString("\n")
	}

	if len(d.Alphabet) > 0 {
		fmt.Fprintf(bw, "\n%s\n", sectionAlphabet)
		for _, a := range d.Alphabet {
			fmt.Fprintln(bw, a)
		}
	}

	fmt.Fprintf(bw, "\n%s\n", sectionTransitions)
	for _, t := range d.Transitions {
		fmt.Fprintf(bw, "%s %s -> %s %s %s\n", t.From, t.Read, t.To, t.Write, t.Move)
	}

	if d.Complexity != "" && d.Complexity != tm.DefaultComplexity {
		fmt.Fprintf(bw, "\n%s %s\n", sectionComplexity, d.Complexity)
	}
	return bw.Flush()
}
