package layout

import (
	"slices"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/dag/transform"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// Layout assigns tiers and positions to every node of g.
//
// Zero sizes and spacings in opts are filled with defaults. g is not
// modified; the Result holds positioned copies of its nodes. A nil or empty
// graph yields an empty Result and no error.
func Layout(g *dag.DAG, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if g == nil || g.NodeCount() == 0 {
		return &Result{
			Tiers:   map[deps.Key]int{},
			Counts:  map[int]int{},
			Options: opts,
			orders:  map[int][]int{},
		}, nil
	}

	work := g
	removed := 0
	if opts.BreakCycles {
		work = g.Clone()
		removed = transform.BreakCycles(work)
	}

	tiers, err := transform.AssignTiers(work, opts.Orientation)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCyclicGraph, err, "assign tiers")
	}

	nodes := work.Nodes()
	orders := make(map[int][]int)
	maxTier := 0
	for i := range nodes {
		t := tiers[nodes[i].Key]
		nodes[i].Tier = t
		orders[t] = append(orders[t], i)
		maxTier = max(maxTier, t)
	}

	if opts.SortSiblings {
		for _, order := range orders {
			slices.SortStableFunc(order, func(a, b int) int {
				return deps.Compare(nodes[a].Key, nodes[b].Key)
			})
		}
	}

	counts := make(map[int]int, len(orders))
	for t, order := range orders {
		counts[t] = len(order)
		center := float64(len(order)-1) / 2
		along := float64(t) * opts.TierSpacing
		if opts.Invert {
			along = float64(maxTier-t) * opts.TierSpacing
		}
		for i, idx := range order {
			cross := (float64(i) - center) * opts.SiblingSpacing
			nodes[idx].Position = place(opts.Axis, cross, along)
		}
	}

	res := &Result{
		Nodes:         nodes,
		Edges:         work.Edges(),
		Tiers:         tiers,
		Counts:        counts,
		MaxTier:       maxTier,
		Crossings:     dag.CountCrossings(work, orders),
		CyclesRemoved: removed,
		Options:       opts,
		orders:        orders,
	}
	res.Bounds = res.Box(nodes[0])
	for _, n := range nodes[1:] {
		res.Bounds = res.Bounds.union(res.Box(n))
	}
	return res, nil
}

// LayoutNodes lays out a node/edge set and returns the positioned nodes.
// Edges must reference keys present among the nodes.
func LayoutNodes(nodes []dag.Node, edges []dag.Edge, opts Options) ([]dag.Node, error) {
	g, err := dag.FromParts(nodes, edges)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build graph")
	}
	res, err := Layout(g, opts)
	if err != nil {
		return nil, err
	}
	return res.Nodes, nil
}

func place(axis Axis, cross, along float64) dag.Point {
	if axis == Horizontal {
		return dag.Point{X: along, Y: cross}
	}
	return dag.Point{X: cross, Y: along}
}
