package transform

import "github.com/matzehuels/tapegraph/pkg/dag"

// RepairResult reports what [Repair] changed.
type RepairResult struct {
	BackEdges       int // edges removed to break cycles
	TransitiveEdges int // redundant edges removed
}

// Repair makes a graph ready for pebbling: it breaks cycles, removes
// transitive edges and lays the nodes out by layer.
func Repair(g *dag.Graph) RepairResult {
	var res RepairResult
	res.BackEdges = BreakCycles(g)
	res.TransitiveEdges = TransitiveReduction(g)
	Layout(g, 0, 0)
	return res
}
