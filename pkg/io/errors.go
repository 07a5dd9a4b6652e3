package io

import (
	"errors"
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

// ErrUnsupportedFormat is returned when a file extension or format name is
// not recognised.
var ErrUnsupportedFormat = errors.New("unsupported format")

// MaxNodeID is the largest node ID the graph readers accept. Graph storage
// is indexed by ID, so the bound also caps what a single import allocates.
const MaxNodeID = 1 << 18

// ErrNodeIDRange is returned for node IDs above [MaxNodeID].
var ErrNodeIDRange = errors.New("node id out of range")

func checkID(id dag.NodeID) error {
	if id > MaxNodeID {
		return fmt.Errorf("%w: %d > %d", ErrNodeIDRange, id, MaxNodeID)
	}
	return nil
}

// ParseError reports malformed persisted text. Line is 1-based; 0 means the
// problem is not tied to a line (for example, a missing section).
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(line int, err error, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...), Err: err}
}
