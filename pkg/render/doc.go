// Package render groups the graph renderers.
//
// The [nodelink] subpackage draws a dependency graph as a Graphviz diagram,
// colouring nodes by pebble state so a pebbling can be followed move by
// move.
//
// [nodelink]: github.com/matzehuels/tapegraph/pkg/render/nodelink
package render
