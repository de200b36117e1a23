package build

import (
	"slices"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// Metadata keys set on every node.
const (
	MetaDepth = "depth" // int: 0 for a top-level record, 1 for its dependencies, ...
	MetaRoot  = "root"  // bool: true for a top-level record
)

// Options configures a build pass.
type Options struct {
	// Resolve expands a dependency with the dependencies of the top-level
	// record carrying the same key.
	Resolve bool
	// MaxDepth bounds expansion depth in Resolve mode. Zero means unlimited.
	MaxDepth int
	// Label formats node labels. Nil uses "name@version".
	Label *Labeler
}

// Build converts records into a graph of node occurrences and edges.
// Nil or empty input yields an empty graph and no error.
//
// Records are validated first; an invalid record fails with INVALID_RECORD.
// In Resolve mode a dependency cycle fails with CYCLIC_GRAPH wrapping a
// [*dag.CycleError].
func Build(records []deps.Record, opts Options) (*dag.DAG, error) {
	if err := deps.Validate(records); err != nil {
		return nil, err
	}

	b := &builder{
		g:    dag.New(nil),
		opts: opts,
	}
	if opts.Resolve {
		b.index = make(map[deps.Key]deps.Record, len(records))
		for _, r := range records {
			if _, dup := b.index[r.Key()]; !dup {
				b.index[r.Key()] = r
			}
		}
	}

	for _, r := range records {
		idx, err := b.node(r.Key(), 0)
		if err != nil {
			return nil, err
		}
		b.stack = append(b.stack[:0], r.Key())
		if err := b.expand(idx, r, 1); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

type builder struct {
	g     *dag.DAG
	opts  Options
	index map[deps.Key]deps.Record
	stack []deps.Key // keys being expanded, outermost first
}

func (b *builder) node(k deps.Key, depth int) (int, error) {
	label, err := b.opts.Label.Format(k, depth)
	if err != nil {
		return -1, err
	}
	idx, err := b.g.AddNode(dag.Node{
		Key:   k,
		Label: label,
		Meta:  dag.Metadata{MetaDepth: depth, MetaRoot: depth == 0},
	})
	if err != nil {
		return -1, errors.Wrap(errors.ErrCodeInvalidRecord, err, "package %s", k.Label())
	}
	return idx, nil
}

// expand emits the dependencies of r below the node at parent.
func (b *builder) expand(parent int, r deps.Record, depth int) error {
	for _, req := range r.Requires() {
		child := req.Key()
		idx, err := b.node(child, depth)
		if err != nil {
			return err
		}
		if err := b.g.AddEdge(dag.Edge{Source: r.Key(), Target: child, From: parent, To: idx}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "edge %s", dag.EdgeID(r.Key(), child))
		}

		if b.index == nil {
			continue
		}
		next, ok := b.index[child]
		if !ok || (b.opts.MaxDepth > 0 && depth >= b.opts.MaxDepth) {
			continue
		}
		if slices.Contains(b.stack, child) {
			return errors.Wrap(errors.ErrCodeCyclicGraph, dag.NewCycleError(b.stack, child), "resolve dependencies")
		}
		b.stack = append(b.stack, child)
		if err := b.expand(idx, next, depth+1); err != nil {
			return err
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
	return nil
}
