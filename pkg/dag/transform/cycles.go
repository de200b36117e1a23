package transform

import (
	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
)

// BreakCycles removes back edges found by a depth-first search from the
// graph's sources, then from any key not yet reached. It returns the number
// of distinct source→target relations removed; a graph that was already
// acyclic is left untouched and 0 is returned.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[deps.Key]int)
	var backEdges [][2]deps.Key

	var dfs func(k deps.Key)
	dfs = func(k deps.Key) {
		color[k] = gray
		for _, child := range g.Children(k) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]deps.Key{k, child})
			}
		}
		color[k] = black
	}

	for _, k := range g.Sources() {
		if color[k] == white {
			dfs(k)
		}
	}
	for _, k := range g.Keys() {
		if color[k] == white {
			dfs(k)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return len(backEdges)
}
