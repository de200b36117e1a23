package build_test

import (
	"fmt"

	"github.com/matzehuels/deptiers/pkg/build"
	"github.com/matzehuels/deptiers/pkg/deps"
)

func ExampleBuild() {
	records := []deps.Record{
		{Name: "react", Version: "18.2.0", Dependencies: deps.Requires(
			"object-assign", "4.1.1",
			"loose-envify", "1.4.0",
		)},
	}

	g, err := build.Build(records, build.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, n := range g.Nodes() {
		fmt.Println("node", n.Label)
	}
	for _, e := range g.Edges() {
		fmt.Println("edge", e.ID)
	}
	// Output:
	// node react@18.2.0
	// node object-assign@4.1.1
	// node loose-envify@1.4.0
	// edge react-18.2.0-object-assign-4.1.1
	// edge react-18.2.0-loose-envify-1.4.0
}
