package transform

import (
	"fmt"
	"strings"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
)

// Orientation selects which edges count when computing a node's tier.
type Orientation int

const (
	// Dependencies looks at a node's outgoing edges: a package sits one tier
	// above the deepest package it depends on. Leaves are tier 0.
	Dependencies Orientation = iota
	// Dependents looks at a node's incoming edges: a package sits one tier
	// below the deepest package depending on it. Roots are tier 0.
	Dependents
)

func (o Orientation) String() string {
	switch o {
	case Dependencies:
		return "dependencies"
	case Dependents:
		return "dependents"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation parses "dependencies" or "dependents".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "dependencies", "deps", "":
		return Dependencies, nil
	case "dependents", "rdeps":
		return Dependents, nil
	}
	return 0, fmt.Errorf("unknown orientation %q (must be dependencies or dependents)", s)
}

// AssignTiers computes the tier of every key in g.
//
// A key with no adjacent keys under the orientation is tier 0; any other key
// is one more than the largest tier among its adjacent keys. Every key gets
// exactly one tier, shared by all of its occurrences.
//
// The traversal is an explicit depth-first search with white/gray/black
// marking, so deep chains do not grow the goroutine stack. Reaching a gray
// key means the graph has a cycle; the returned error is a [*dag.CycleError]
// whose path follows the traversal direction.
//
// AssignTiers does not modify g; use [dag.DAG.SetTiers] to apply the result.
func AssignTiers(g *dag.DAG, o Orientation) (map[deps.Key]int, error) {
	const (
		white = iota
		gray
		black
	)

	adjacent := g.Children
	if o == Dependents {
		adjacent = g.Parents
	}

	type frame struct {
		key  deps.Key
		next int
	}

	keys := g.Keys()
	color := make(map[deps.Key]int, len(keys))
	tiers := make(map[deps.Key]int, len(keys))

	for _, root := range keys {
		if color[root] != white {
			continue
		}
		color[root] = gray
		stack := []frame{{key: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			adj := adjacent(top.key)

			if top.next < len(adj) {
				k := adj[top.next]
				top.next++
				switch color[k] {
				case white:
					color[k] = gray
					stack = append(stack, frame{key: k})
				case gray:
					path := make([]deps.Key, len(stack))
					for i, f := range stack {
						path[i] = f.key
					}
					return nil, dag.NewCycleError(path, k)
				}
				continue
			}

			tier := 0
			for _, k := range adj {
				tier = max(tier, tiers[k]+1)
			}
			tiers[top.key] = tier
			color[top.key] = black
			stack = stack[:len(stack)-1]
		}
	}
	return tiers, nil
}
