package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/tapegraph/pkg/pebble"
)

// WriteMoves encodes a move list as a JSON array.
func WriteMoves(moves []pebble.Move, w io.Writer) error {
	if moves == nil {
		moves = []pebble.Move{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(moves); err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}
	return nil
}

// ReadMoves decodes a JSON move list written by [WriteMoves].
func ReadMoves(r io.Reader) ([]pebble.Move, error) {
	var moves []pebble.Move
	if err := json.NewDecoder(r).Decode(&moves); err != nil {
		return nil, fmt.Errorf("decode moves: %w", err)
	}
	return moves, nil
}
