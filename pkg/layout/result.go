package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Overlaps reports whether r and s share interior area. Touching edges do
// not count as overlap.
func (r Rect) Overlaps(s Rect) bool {
	return r.MinX < s.MaxX && s.MinX < r.MaxX && r.MinY < s.MaxY && s.MinY < r.MaxY
}

func (r Rect) union(s Rect) Rect {
	return Rect{
		MinX: min(r.MinX, s.MinX),
		MinY: min(r.MinY, s.MinY),
		MaxX: max(r.MaxX, s.MaxX),
		MaxY: max(r.MaxY, s.MaxY),
	}
}

// Result is the output of a layout pass.
type Result struct {
	// Nodes are the positioned node occurrences, in input order.
	Nodes []dag.Node
	// Edges are the input edges, minus any removed by cycle breaking.
	Edges []dag.Edge
	// Tiers maps every key to its tier.
	Tiers map[deps.Key]int
	// Counts is the number of node occurrences per tier.
	Counts map[int]int
	// MaxTier is the largest tier, or 0 for an empty layout.
	MaxTier int
	// Bounds encloses every node box.
	Bounds Rect
	// Crossings counts edge crossings between adjacent tiers.
	Crossings int
	// CyclesRemoved is the number of back edges dropped by cycle breaking.
	CyclesRemoved int
	// Options are the options the layout was computed with.
	Options Options

	orders map[int][]int
}

// Empty reports whether there is nothing to display.
func (r *Result) Empty() bool { return r == nil || len(r.Nodes) == 0 }

// TierCount returns the number of non-empty tiers.
func (r *Result) TierCount() int {
	if r.Empty() {
		return 0
	}
	return len(r.Counts)
}

// Tier returns the nodes of tier t in cross-axis order.
func (r *Result) Tier(t int) []dag.Node {
	order := r.orders[t]
	out := make([]dag.Node, len(order))
	for i, idx := range order {
		out[i] = r.Nodes[idx]
	}
	return out
}

// Order returns the node indices of tier t in cross-axis order.
func (r *Result) Order(t int) []int { return r.orders[t] }

// DrawOrder returns the non-empty tiers in the order they appear along the
// tier axis: descending when inverted, ascending otherwise.
func (r *Result) DrawOrder() []int {
	if r.Empty() {
		return nil
	}
	tiers := make([]int, 0, len(r.Counts))
	for t := range r.Counts {
		tiers = append(tiers, t)
	}
	slices.Sort(tiers)
	if r.Options.Invert {
		slices.Reverse(tiers)
	}
	return tiers
}

// Box returns the bounding box of a positioned node.
func (r *Result) Box(n dag.Node) Rect {
	hw, hh := r.Options.NodeWidth/2, r.Options.NodeHeight/2
	return Rect{
		MinX: n.Position.X - hw,
		MinY: n.Position.Y - hh,
		MaxX: n.Position.X + hw,
		MaxY: n.Position.Y + hh,
	}
}

// Restore rebuilds a Result from nodes that already carry tiers and
// positions, such as a layout read back from JSON. Nodes within a tier are
// ordered by their cross-axis coordinate. Tiers are not recomputed.
func Restore(nodes []dag.Node, edges []dag.Edge, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := dag.FromParts(nodes, edges)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "restore layout")
	}

	res := &Result{
		Nodes:   g.Nodes(),
		Edges:   g.Edges(),
		Tiers:   make(map[deps.Key]int),
		Counts:  make(map[int]int),
		Options: opts,
		orders:  make(map[int][]int),
	}
	for i, n := range res.Nodes {
		if t, ok := res.Tiers[n.Key]; ok && t != n.Tier {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s has tiers %d and %d", n.Key.Label(), t, n.Tier)
		}
		res.Tiers[n.Key] = n.Tier
		res.Counts[n.Tier]++
		res.orders[n.Tier] = append(res.orders[n.Tier], i)
		res.MaxTier = max(res.MaxTier, n.Tier)
	}
	for _, order := range res.orders {
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(crossOf(opts.Axis, res.Nodes[a].Position), crossOf(opts.Axis, res.Nodes[b].Position))
		})
	}
	if len(res.Nodes) > 0 {
		res.Bounds = res.Box(res.Nodes[0])
		for _, n := range res.Nodes[1:] {
			res.Bounds = res.Bounds.union(res.Box(n))
		}
	}
	res.Crossings = dag.CountCrossings(g, res.orders)
	return res, nil
}

func crossOf(axis Axis, p dag.Point) float64 {
	if axis == Horizontal {
		return p.Y
	}
	return p.X
}
