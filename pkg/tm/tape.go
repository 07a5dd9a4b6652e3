package tm

import "strings"

// NoLineage marks a cell without a recorded last writer.
const NoLineage = -1

// Tape is an unbounded tape with a single head.
//
// Cells are stored in a slice that grows on either end. Growth to the left
// re-bases the storage so the head index stays non-negative; Origin tracks the
// storage index of logical position 0 so callers can use stable positions
// across growth.
//
// Each cell also carries a lineage value: the identifier of the node that last
// wrote it, or NoLineage.
type Tape struct {
	cells   []Symbol
	lineage []int
	head    int
	origin  int
	blank   Symbol
}

// NewTape returns a tape of one blank cell with the head on it.
func NewTape(blank Symbol) *Tape {
	t := &Tape{blank: blank}
	t.Reset()
	return t
}

// Reset clears all cells and lineage and returns the head to position 0.
func (t *Tape) Reset() {
	t.cells = []Symbol{t.blank}
	t.lineage = []int{NoLineage}
	t.head = 0
	t.origin = 0
}

// Blank returns the blank symbol of the tape.
func (t *Tape) Blank() Symbol { return t.blank }

// Head returns the storage index of the head.
func (t *Tape) Head() int { return t.head }

// Position returns the logical head position. Position 0 is where the head
// started; it is stable across left growth.
func (t *Tape) Position() int { return t.head - t.origin }

// Origin returns the storage index of logical position 0.
func (t *Tape) Origin() int { return t.origin }

// Len returns the number of stored cells.
func (t *Tape) Len() int { return len(t.cells) }

// Read returns the symbol under the head.
func (t *Tape) Read() Symbol { return t.cells[t.head] }

// Write replaces the symbol under the head.
func (t *Tape) Write(s Symbol) { t.cells[t.head] = s }

// Move shifts the head by m, growing storage when the head leaves it.
func (t *Tape) Move(m Move) {
	t.head += int(m)
	t.head = t.ensure(t.head)
}

// ReadAt returns the symbol at a logical position. Unstored cells are blank.
func (t *Tape) ReadAt(pos int) Symbol {
	i := pos + t.origin
	if i < 0 || i >= len(t.cells) {
		return t.blank
	}
	return t.cells[i]
}

// WriteAt writes a symbol at a logical position, growing storage as needed.
// The head keeps its logical position.
func (t *Tape) WriteAt(pos int, s Symbol) {
	i := t.ensure(pos + t.origin)
	t.cells[i] = s
}

// LineageAt returns the last writer of the cell at a logical position.
func (t *Tape) LineageAt(pos int) int {
	i := pos + t.origin
	if i < 0 || i >= len(t.lineage) {
		return NoLineage
	}
	return t.lineage[i]
}

// SetLineageAt records id as the last writer of the cell at a logical position.
func (t *Tape) SetLineageAt(pos, id int) {
	i := t.ensure(pos + t.origin)
	t.lineage[i] = id
}

// ensure grows storage so storage index i is valid and returns the index
// after any re-basing.
func (t *Tape) ensure(i int) int {
	if i < 0 {
		n := -i
		cells := make([]Symbol, n, n+len(t.cells))
		lin := make([]int, n, n+len(t.lineage))
		for k := range n {
			cells[k] = t.blank
			lin[k] = NoLineage
		}
		t.cells = append(cells, t.cells...)
		t.lineage = append(lin, t.lineage...)
		t.origin += n
		t.head += n
		return 0
	}
	for i >= len(t.cells) {
		t.cells = append(t.cells, t.blank)
		t.lineage = append(t.lineage, NoLineage)
	}
	return i
}

// Snapshot is a copy of a tape's contents and head.
type Snapshot struct {
	Cells  string `json:"cells"`
	Head   int    `json:"head"`
	Origin int    `json:"origin"`
}

// Snapshot copies the tape.
func (t *Tape) Snapshot() Snapshot {
	return Snapshot{Cells: string(t.cells), Head: t.head, Origin: t.origin}
}

// String renders the tape with the head cell bracketed, e.g. "ab[c]#".
func (t *Tape) String() string {
	var sb strings.Builder
	for i, s := range t.cells {
		if i == t.head {
			sb.WriteByte('[')
			sb.WriteRune(s)
			sb.WriteByte(']')
			continue
		}
		sb.WriteRune(s)
	}
	return sb.String()
}
