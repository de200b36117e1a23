// Package dag provides the flat node/edge graph that sits between the graph
// builder and the layered layout engine.
//
// # Overview
//
// A build pass turns dependency records into node occurrences and directed
// "depends-on" edges. Node identity is the composite [deps.Key] (name and
// version), so two packages whose display ids happen to coincide stay
// distinct. The same key may occur several times: a package reached through
// two parents is emitted once per parent, and every occurrence shares the
// key's tier.
//
// # Basic Usage
//
//	app := deps.Key{Name: "app", Version: "1.0.0"}
//	lib := deps.Key{Name: "lib", Version: "2.1.0"}
//
//	g := dag.New(nil)
//	from, _ := g.AddNode(dag.Node{Key: app})
//	to, _ := g.AddNode(dag.Node{Key: lib})
//	_ = g.AddEdge(dag.Edge{Source: app, Target: lib, From: from, To: to})
//
// Adjacency is indexed by key: [DAG.Children] and [DAG.Parents] list each
// neighbour once, in order of the first edge that introduced it. Edges keep
// the node indices they were drawn between in [Edge.From] and [Edge.To],
// which renderers use to connect the right occurrence.
//
// # Validation
//
// [DAG.AddEdge] rejects edges whose endpoints have no node. [DAG.Validate]
// re-checks endpoints and detects cycles with a depth-first search using
// white/gray/black coloring; a cycle is reported as a [*CycleError] that
// unwraps to [ErrCyclicGraph].
//
// # Crossings
//
// [CountCrossings] counts edge crossings between adjacent tiers of a laid
// out graph with a Fenwick tree, giving a quick quality measure of a
// sibling ordering.
//
// # Concurrency
//
// DAG is not safe for concurrent use. Build it in one goroutine and treat it
// as read-only afterwards, or synchronize externally.
package dag
