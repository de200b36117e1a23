package dag_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
)

func ExampleDAG_basic() {
	// app → lib → core
	app := deps.Key{Name: "app", Version: "1.0.0"}
	lib := deps.Key{Name: "lib", Version: "2.0.0"}
	core := deps.Key{Name: "core", Version: "0.3.1"}

	g := dag.New(nil)
	for _, k := range []deps.Key{app, lib, core} {
		_, _ = g.AddNode(dag.Node{Key: k})
	}
	_ = g.AddEdge(dag.Edge{Source: app, Target: lib})
	_ = g.AddEdge(dag.Edge{Source: lib, Target: core})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Children of app:", g.Children(app))
	// Output:
	// Nodes: 3
	// Edges: 2
	// Children of app: [lib-2.0.0]
}

func ExampleDAG_Validate() {
	a := deps.Key{Name: "a", Version: "1"}
	b := deps.Key{Name: "b", Version: "1"}

	g := dag.New(nil)
	_, _ = g.AddNode(dag.Node{Key: a})
	_, _ = g.AddNode(dag.Node{Key: b})
	_ = g.AddEdge(dag.Edge{Source: a, Target: b})
	_ = g.AddEdge(dag.Edge{Source: b, Target: a})

	err := g.Validate()
	fmt.Println(errors.Is(err, dag.ErrCyclicGraph))
	fmt.Println(err)
	// Output:
	// true
	// graph contains a cycle: a@1 -> b@1 -> a@1
}
