package tm_test

import (
	"fmt"

	"github.com/matzehuels/tapegraph/pkg/tm"
)

func ExampleEngine_Step() {
	// A unary successor machine: walk right over 1s, append one more.
	b := tm.NewBuilder(1)
	_ = b.AddState("walk", true, false)
	_ = b.AddState("done", false, true)
	_ = b.AddTransition("walk", []tm.Symbol{'1'}, "walk", []tm.Symbol{'1'}, []tm.Move{tm.Right})
	_ = b.AddTransition("walk", []tm.Symbol{'#'}, "done", []tm.Symbol{'1'}, []tm.Move{tm.Stay})
	m, _ := b.Build()

	e, _ := tm.NewEngine(m)
	_ = e.LoadInput(0, "11")
	for {
		res := e.Step()
		fmt.Println(res.Outcome, e.Configuration())
		if res.Outcome != tm.Stepped {
			break
		}
	}
	// Output:
	// stepped walk 1[1]
	// stepped walk 11[#]
	// accepted done 11[1]
}
