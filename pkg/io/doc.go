// Package io reads and writes the persisted forms of graphs, machines and
// pebble move lists.
//
// # Graph Formats
//
// The text format is one record per line:
//
//	NODE,0,100,200
//	NODE,1,100,280
//	EDGE,0,1
//
// Coordinates are presentation-only. The JSON format carries the same data
// plus pebble state and graph metadata:
//
//	{
//	  "nodes": [{"id": 0, "x": 100, "y": 200}, {"id": 1}],
//	  "edges": [{"from": 0, "to": 1}]
//	}
//
// # Machine Formats
//
// The text format has TAPES, STATES, ALPHABET, TRANSITIONS and COMPLEXITY
// sections; see [ParseMachine]. TOML and YAML carry the same fields as
// [MachineDef]. All three decode into a [MachineDef], which builds the
// [tm.Machine] through the tm builder, so every format is subject to the
// same validation.
//
// # Errors
//
// Malformed text is reported as a *[ParseError] carrying the line number.
// Readers never return partial results, and [LoadGraphInto] leaves its
// target untouched on failure.
//
// # Round Trips
//
// Writing a graph or machine and reading it back yields the same node and
// edge sets, or the same states, alphabet and transition table.
package io
