package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/dag"
)

func ExampleGraph_TopologicalOrder() {
	// Diamond: a feeds b and c, both feed d
	g := dag.New()
	a, b, c, d := g.AddNode(), g.AddNode(), g.AddNode(), g.AddNode()
	_ = g.AddEdge(a, b)
	_ = g.AddEdge(a, c)
	_ = g.AddEdge(b, d)
	_ = g.AddEdge(c, d)

	order, _ := g.TopologicalOrder()
	fmt.Println("Order:", order)
	fmt.Println("Validity:", g.Validate())
	// Output:
	// Order: [0 1 2 3]
	// Validity: ok
}

func ExampleCycleError() {
	g := dag.New()
	x, y := g.AddNode(), g.AddNode()
	_ = g.AddEdge(x, y)
	_ = g.AddEdge(y, x)

	_, err := g.TopologicalOrder()
	var ce *dag.CycleError
	if errors.As(err, &ce) {
		fmt.Println("Cycle through:", ce.Remaining)
	}
	// Output:
	// Cycle through: [0 1]
}

func ExampleGraph_Validate() {
	g := dag.New()
	a, _, c := g.AddNode(), g.AddNode(), g.AddNode()
	_ = g.AddEdge(a, c)

	fmt.Println(g.Validate())
	// Output:
	// isolated-node(1)
}
