package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/deptiers/pkg/build"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/layout"
	"github.com/matzehuels/deptiers/pkg/observability"
)

// Layout builds the graph for records and lays it out, without caching.
func Layout(ctx context.Context, records []deps.Record, opts Options) (*layout.Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	bo, err := opts.BuildOptions()
	if err != nil {
		return nil, err
	}
	lo, err := opts.LayoutOptions()
	if err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnBuildStart(ctx, len(records))
	g, err := build.Build(records, bo)
	if err != nil {
		hooks.OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	opts.Logger.Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	start = time.Now()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	res, err := layout.Layout(g, lo)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, res.TierCount(), time.Since(start), nil)

	if res.CyclesRemoved > 0 {
		opts.Logger.Warn("removed cyclic edges", "count", res.CyclesRemoved)
	}
	return res, nil
}
