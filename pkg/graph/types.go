package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/dag/transform"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/layout"
)

// =============================================================================
// Wire Types
// =============================================================================

// Layout is the serialization format of a positioned layout.
type Layout struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
	Tiers []Tier `json:"tiers" bson:"tiers"`

	// Bounds of all node boxes.
	MinX   float64 `json:"min_x" bson:"min_x"`
	MinY   float64 `json:"min_y" bson:"min_y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Empty         bool `json:"empty" bson:"empty"`
	Crossings     int  `json:"crossings" bson:"crossings"`
	CyclesRemoved int  `json:"cycles_removed,omitempty" bson:"cycles_removed,omitempty"`

	Options Options `json:"options" bson:"options"`
}

// Node is a positioned node occurrence.
type Node struct {
	Index   int            `json:"index" bson:"index"`
	ID      string         `json:"id" bson:"id"`
	Name    string         `json:"name" bson:"name"`
	Version string         `json:"version" bson:"version"`
	Label   string         `json:"label" bson:"label"`
	Tier    int            `json:"tier" bson:"tier"`
	X       float64        `json:"x" bson:"x"`
	Y       float64        `json:"y" bson:"y"`
	Meta    map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Key returns the node's package key.
func (n Node) Key() deps.Key { return deps.Key{Name: n.Name, Version: n.Version} }

// Edge is a directed dependency between two node occurrences.
type Edge struct {
	ID     string `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	From   int    `json:"from" bson:"from"`
	To     int    `json:"to" bson:"to"`
}

// Tier lists the node indices of one tier in cross-axis order.
type Tier struct {
	Tier  int   `json:"tier" bson:"tier"`
	Nodes []int `json:"nodes" bson:"nodes"`
}

// Options records the layout parameters.
type Options struct {
	Orientation    string  `json:"orientation" bson:"orientation"`
	Axis           string  `json:"axis" bson:"axis"`
	Invert         bool    `json:"invert" bson:"invert"`
	SortSiblings   bool    `json:"sort_siblings,omitempty" bson:"sort_siblings,omitempty"`
	NodeWidth      float64 `json:"node_width" bson:"node_width"`
	NodeHeight     float64 `json:"node_height" bson:"node_height"`
	TierSpacing    float64 `json:"tier_spacing" bson:"tier_spacing"`
	SiblingSpacing float64 `json:"sibling_spacing" bson:"sibling_spacing"`
}

// =============================================================================
// Result ↔ Layout Conversion
// =============================================================================

// FromResult converts a layout result to its wire format.
func FromResult(res *layout.Result) Layout {
	out := Layout{
		Nodes: []Node{},
		Edges: []Edge{},
		Tiers: []Tier{},
		Empty: res.Empty(),
	}
	if res == nil {
		out.Options = fromOptions(layout.DefaultOptions())
		return out
	}
	out.Options = fromOptions(res.Options)
	out.Crossings = res.Crossings
	out.CyclesRemoved = res.CyclesRemoved

	for i, n := range res.Nodes {
		out.Nodes = append(out.Nodes, Node{
			Index:   i,
			ID:      n.ID(),
			Name:    n.Key.Name,
			Version: n.Key.Version,
			Label:   n.Label,
			Tier:    n.Tier,
			X:       n.Position.X,
			Y:       n.Position.Y,
			Meta:    exportMeta(n.Meta),
		})
	}
	for _, e := range res.Edges {
		out.Edges = append(out.Edges, Edge{
			ID:     e.ID,
			Source: e.Source.String(),
			Target: e.Target.String(),
			From:   e.From,
			To:     e.To,
		})
	}
	for _, t := range slices.Sorted(maps.Keys(res.Counts)) {
		out.Tiers = append(out.Tiers, Tier{Tier: t, Nodes: slices.Clone(res.Order(t))})
	}
	if !out.Empty {
		out.MinX, out.MinY = res.Bounds.MinX, res.Bounds.MinY
		out.Width, out.Height = res.Bounds.Width(), res.Bounds.Height()
	}
	return out
}

// ToResult converts a wire layout back into a layout result. Positions and
// tiers are taken as given; edges must reference node indices whose keys
// match the edge's source and target.
func ToResult(l Layout) (*layout.Result, error) {
	opts, err := toOptions(l.Options)
	if err != nil {
		return nil, err
	}

	nodes := make([]dag.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		if n.Index != i {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d has index %d", i, n.Index)
		}
		nodes[i] = dag.Node{
			Key:      n.Key(),
			Label:    n.Label,
			Tier:     n.Tier,
			Position: dag.Point{X: n.X, Y: n.Y},
			Meta:     dag.Metadata(n.Meta),
		}
	}

	edges := make([]dag.Edge, len(l.Edges))
	for i, e := range l.Edges {
		if e.From < 0 || e.From >= len(nodes) || e.To < 0 || e.To >= len(nodes) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s references a missing node", e.ID)
		}
		edges[i] = dag.Edge{
			ID:     e.ID,
			Source: nodes[e.From].Key,
			Target: nodes[e.To].Key,
			From:   e.From,
			To:     e.To,
		}
	}

	res, err := layout.Restore(nodes, edges, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "restore layout")
	}
	res.CyclesRemoved = l.CyclesRemoved
	return res, nil
}

func fromOptions(o layout.Options) Options {
	return Options{
		Orientation:    o.Orientation.String(),
		Axis:           o.Axis.String(),
		Invert:         o.Invert,
		SortSiblings:   o.SortSiblings,
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		TierSpacing:    o.TierSpacing,
		SiblingSpacing: o.SiblingSpacing,
	}
}

func toOptions(o Options) (layout.Options, error) {
	orient, err := transform.ParseOrientation(o.Orientation)
	if err != nil {
		return layout.Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout options")
	}
	axis, err := layout.ParseAxis(o.Axis)
	if err != nil {
		return layout.Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout options")
	}
	return layout.Options{
		Orientation:    orient,
		Axis:           axis,
		Invert:         o.Invert,
		SortSiblings:   o.SortSiblings,
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		TierSpacing:    o.TierSpacing,
		SiblingSpacing: o.SiblingSpacing,
	}, nil
}

// exportMeta drops empty metadata so it is omitted from the output.
func exportMeta(m dag.Metadata) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return map[string]any(m)
}
