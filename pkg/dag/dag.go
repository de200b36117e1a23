package dag

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/deptiers/pkg/deps"
)

var (
	// ErrInvalidNodeKey is returned by [DAG.AddNode] when the node key has
	// an empty name or version.
	ErrInvalidNodeKey = errors.New("node key must have a name and a version")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when no node carries
	// the edge's Source key.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when no node carries
	// the edge's Target key.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrCyclicGraph is returned when a directed cycle is found. The concrete
	// error is a [*CycleError] carrying the cycle path.
	ErrCyclicGraph = errors.New("graph contains a cycle")
)

// CycleError reports a directed cycle. Path starts and ends with the same key.
type CycleError struct {
	Path []deps.Key
}

func (e *CycleError) Error() string {
	labels := make([]string, len(e.Path))
	for i, k := range e.Path {
		labels[i] = k.Label()
	}
	return fmt.Sprintf("%v: %s", ErrCyclicGraph, strings.Join(labels, " -> "))
}

// Unwrap makes errors.Is(err, ErrCyclicGraph) hold for cycle errors.
func (e *CycleError) Unwrap() error { return ErrCyclicGraph }

// NewCycleError builds a CycleError from the DFS stack and the key that
// closed the cycle. The path is trimmed to start at the first occurrence of
// that key.
func NewCycleError(stack []deps.Key, closing deps.Key) *CycleError {
	start := slices.Index(stack, closing)
	if start < 0 {
		start = 0
	}
	path := append(slices.Clone(stack[start:]), closing)
	return &CycleError{Path: path}
}

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil after AddNode or New.
type Metadata map[string]any

// Point is a 2-D coordinate. The zero value is the placeholder position of
// a node that has not been laid out.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one occurrence of a package version in the graph. Several nodes
// may share a Key when the same package is reached through different parents.
type Node struct {
	Key      deps.Key
	Label    string
	Tier     int
	Position Point
	Meta     Metadata
}

// ID returns the display id "name-version". It is not unique when a key
// occurs more than once.
func (n Node) ID() string { return n.Key.String() }

// Edge is a directed "depends-on" relation from Source to Target.
//
// From and To index the node occurrences the edge was drawn between. They
// are presentation details; identity comparisons use the keys.
type Edge struct {
	ID     string
	Source deps.Key
	Target deps.Key
	From   int
	To     int
}

// EdgeID returns the display id of an edge: "<source id>-<target id>".
func EdgeID(source, target deps.Key) string {
	return source.String() + "-" + target.String()
}

// DAG is a flat node/edge graph with per-occurrence nodes and adjacency
// indexed by key. Despite the name it may hold cycles until validated.
//
// The zero value is not usable; use New. A DAG is not safe for concurrent
// use without external synchronization.
type DAG struct {
	nodes    []Node
	index    map[deps.Key][]int
	order    []deps.Key
	edges    []Edge
	outgoing map[deps.Key][]deps.Key
	incoming map[deps.Key][]deps.Key
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		index:    make(map[deps.Key][]int),
		outgoing: make(map[deps.Key][]deps.Key),
		incoming: make(map[deps.Key][]deps.Key),
		meta:     meta,
	}
}

// FromParts builds a graph from node and edge slices, validating that every
// edge endpoint is present among the nodes.
func FromParts(nodes []Node, edges []Edge) (*DAG, error) {
	g := New(nil)
	for i, n := range nodes {
		if _, err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d (%s): %w", i, e.ID, err)
		}
	}
	return g, nil
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode appends a node occurrence and returns its index. A node with the
// same key as an existing one is a new occurrence, not a replacement. An
// empty Label defaults to the key's "name@version" form.
func (d *DAG) AddNode(n Node) (int, error) {
	if n.Key.Name == "" || n.Key.Version == "" {
		return -1, ErrInvalidNodeKey
	}
	if n.Label == "" {
		n.Label = n.Key.Label()
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	idx := len(d.nodes)
	if _, seen := d.index[n.Key]; !seen {
		d.order = append(d.order, n.Key)
	}
	d.nodes = append(d.nodes, n)
	d.index[n.Key] = append(d.index[n.Key], idx)
	return idx, nil
}

// AddEdge adds a directed edge between keys that already have a node.
// A missing ID is filled with [EdgeID]. When From or To do not index an
// occurrence of the matching key, they are set to the first occurrence.
//
// Repeated edges between the same keys are kept as separate edges, but the
// adjacency lists hold each neighbour once.
func (d *DAG) AddEdge(e Edge) error {
	src, ok := d.index[e.Source]
	if !ok {
		return ErrUnknownSourceNode
	}
	dst, ok := d.index[e.Target]
	if !ok {
		return ErrUnknownTargetNode
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.Target)
	}
	if !d.occurrenceOf(e.From, e.Source) {
		e.From = src[0]
	}
	if !d.occurrenceOf(e.To, e.Target) {
		e.To = dst[0]
	}
	d.edges = append(d.edges, e)
	if !slices.Contains(d.outgoing[e.Source], e.Target) {
		d.outgoing[e.Source] = append(d.outgoing[e.Source], e.Target)
		d.incoming[e.Target] = append(d.incoming[e.Target], e.Source)
	}
	return nil
}

func (d *DAG) occurrenceOf(idx int, k deps.Key) bool {
	return idx >= 0 && idx < len(d.nodes) && d.nodes[idx].Key == k
}

// RemoveEdge removes every edge source→target. No error is returned if no
// such edge exists.
func (d *DAG) RemoveEdge(source, target deps.Key) {
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.Source == source && e.Target == target })
	d.outgoing[source] = slices.DeleteFunc(d.outgoing[source], func(k deps.Key) bool { return k == target })
	d.incoming[target] = slices.DeleteFunc(d.incoming[target], func(k deps.Key) bool { return k == source })
}

// Nodes returns a copy of the node occurrences in insertion order.
// Metadata maps are shared with the graph.
func (d *DAG) Nodes() []Node { return slices.Clone(d.nodes) }

// Node returns the occurrence at index i.
func (d *DAG) Node(i int) (Node, bool) {
	if i < 0 || i >= len(d.nodes) {
		return Node{}, false
	}
	return d.nodes[i], true
}

// Occurrences returns the indices of every node carrying key k.
func (d *DAG) Occurrences(k deps.Key) []int { return slices.Clone(d.index[k]) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of node occurrences.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// KeyCount returns the number of distinct keys.
func (d *DAG) KeyCount() int { return len(d.order) }

// Keys returns the distinct keys in order of first occurrence.
func (d *DAG) Keys() []deps.Key { return slices.Clone(d.order) }

// Has reports whether some node carries key k.
func (d *DAG) Has(k deps.Key) bool {
	_, ok := d.index[k]
	return ok
}

// Children returns the keys k depends on, in order of first edge.
// The returned slice should not be modified.
func (d *DAG) Children(k deps.Key) []deps.Key { return d.outgoing[k] }

// Parents returns the keys that depend on k, in order of first edge.
// The returned slice should not be modified.
func (d *DAG) Parents(k deps.Key) []deps.Key { return d.incoming[k] }

// OutDegree returns the number of distinct keys k depends on.
func (d *DAG) OutDegree(k deps.Key) int { return len(d.outgoing[k]) }

// InDegree returns the number of distinct keys depending on k.
func (d *DAG) InDegree(k deps.Key) int { return len(d.incoming[k]) }

// Sources returns the keys with no incoming edges, in first-occurrence order.
func (d *DAG) Sources() []deps.Key {
	var out []deps.Key
	for _, k := range d.order {
		if len(d.incoming[k]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// Sinks returns the keys with no outgoing edges, in first-occurrence order.
func (d *DAG) Sinks() []deps.Key {
	var out []deps.Key
	for _, k := range d.order {
		if len(d.outgoing[k]) == 0 {
			out = append(out, k)
		}
	}
	return out
}

// SetTiers assigns tiers by key. Every occurrence of a key gets the same
// tier; keys absent from the map keep their current tier.
func (d *DAG) SetTiers(tiers map[deps.Key]int) {
	for i := range d.nodes {
		if t, ok := tiers[d.nodes[i].Key]; ok {
			d.nodes[i].Tier = t
		}
	}
}

// SetPosition moves the occurrence at index i.
func (d *DAG) SetPosition(i int, p Point) {
	if i >= 0 && i < len(d.nodes) {
		d.nodes[i].Position = p
	}
}

// Tiers returns the distinct tier values in ascending order.
func (d *DAG) Tiers() []int {
	seen := make(map[int]struct{})
	for _, n := range d.nodes {
		seen[n.Tier] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Clone returns a deep copy of the graph structure. Node metadata maps are
// copied one level deep.
func (d *DAG) Clone() *DAG {
	c := New(maps.Clone(d.meta))
	for _, n := range d.nodes {
		n.Meta = maps.Clone(n.Meta)
		_, _ = c.AddNode(n)
	}
	for _, e := range d.edges {
		_ = c.AddEdge(e)
	}
	return c
}

// Validate checks that every edge references existing nodes and that the
// graph is acyclic. A cycle is reported as a [*CycleError].
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if !d.Has(e.Source) {
			return fmt.Errorf("edge %s: %w", e.ID, ErrUnknownSourceNode)
		}
		if !d.Has(e.Target) {
			return fmt.Errorf("edge %s: %w", e.ID, ErrUnknownTargetNode)
		}
	}
	return d.detectCycles()
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[deps.Key]int, len(d.order))
	var stack []deps.Key
	var cycle *CycleError

	var dfs func(k deps.Key)
	dfs = func(k deps.Key) {
		color[k] = gray
		stack = append(stack, k)
		for _, child := range d.outgoing[k] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				cycle = NewCycleError(stack, child)
			}
			if cycle != nil {
				return
			}
		}
		stack = stack[:len(stack)-1]
		color[k] = black
	}

	for _, k := range d.order {
		if color[k] == white {
			dfs(k)
			if cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
