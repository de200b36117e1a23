package layout_test

import (
	"fmt"

	"github.com/matzehuels/deptiers/pkg/build"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/layout"
)

func ExampleLayout() {
	records := []deps.Record{
		{Name: "react-dom", Version: "18.2.0", Dependencies: deps.Requires(
			"scheduler", "0.23.0",
			"object-assign", "4.1.1",
		)},
	}

	g, _ := build.Build(records, build.Options{})
	res, err := layout.Layout(g, layout.DefaultOptions())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, n := range res.Nodes {
		fmt.Printf("%-20s tier=%d x=%g y=%g\n", n.Label, n.Tier, n.Position.X, n.Position.Y)
	}
	// Output:
	// react-dom@18.2.0     tier=1 x=0 y=0
	// scheduler@0.23.0     tier=0 x=-110 y=100
	// object-assign@4.1.1  tier=0 x=110 y=100
}

func ExampleResult_Empty() {
	res, _ := layout.Layout(nil, layout.DefaultOptions())
	fmt.Println(res.Empty())
	// Output:
	// true
}
