package transform

import "github.com/matzehuels/tapegraph/pkg/dag"

// Default spacing used by [Layout], in presentation units.
const (
	DefaultLayerSpacing = 80.0
	DefaultNodeSpacing  = 60.0
)

// AssignLayers returns the longest-path layer of every node: sources are in
// layer 0 and every node sits one layer below its deepest predecessor.
//
// The traversal is Kahn's algorithm. Nodes on a cycle never reach in-degree
// zero and keep layer 0; run [BreakCycles] first for meaningful layers.
func AssignLayers(g *dag.Graph) map[dag.NodeID]int {
	ids := g.NodeIDs()
	inDegree := make(map[dag.NodeID]int, len(ids))
	layers := make(map[dag.NodeID]int, len(ids))
	queue := make([]dag.NodeID, 0, len(ids))

	for _, id := range ids {
		layers[id] = 0
		d := g.InDegree(id)
		inDegree[id] = d
		if d == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Successors(curr) {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return layers
}

// Layout assigns presentation coordinates: Y from the node's layer and X
// from its ascending-ID rank within the layer. Spacing values <= 0 use the
// defaults.
func Layout(g *dag.Graph, layerSpacing, nodeSpacing float64) {
	if layerSpacing <= 0 {
		layerSpacing = DefaultLayerSpacing
	}
	if nodeSpacing <= 0 {
		nodeSpacing = DefaultNodeSpacing
	}
	layers := AssignLayers(g)
	rank := make(map[int]int)
	for _, id := range g.NodeIDs() {
		l := layers[id]
		_ = g.SetPosition(id, float64(rank[l])*nodeSpacing, float64(l)*layerSpacing)
		rank[l]++
	}
}
