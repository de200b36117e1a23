// Package pkg holds the libraries behind deptiers, the tiered dependency
// graph layout tool.
//
// # Overview
//
// deptiers reads package/version records with their dependencies and places
// every package occurrence in a tier one above its deepest dependency,
// centered among its siblings. The pkg directory is organized as:
//
//  1. Core: [deps] (records and readers), [dag] (the flat graph), [build]
//     (records → graph) and [layout] (tiers and coordinates)
//  2. Output: [graph] (JSON wire format) and [render] (DOT, SVG, PNG, PDF
//     and tier tables)
//  3. Orchestration: [pipeline] (load → build → layout → render, cached)
//  4. Infrastructure: [cache], [store], [server], [watch], [config],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
//	records (JSON, YAML, TOML, package.json, demo)
//	         ↓
//	    [build] package (one node per occurrence, parent → child edges)
//	         ↓
//	    [layout] package (tier assignment, positioning)
//	         ↓
//	    [graph] JSON  |  [render] SVG/PNG/PDF/DOT/tables
//
// # Quick Start
//
//	g, err := build.Build(deps.Demo(), build.Options{})
//	if err != nil {
//	    return err
//	}
//	res, err := layout.Layout(g, layout.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, n := range res.Nodes {
//	    fmt.Println(n.Label, n.Tier, n.Position.X, n.Position.Y)
//	}
//
// Most callers go through [pipeline.Runner], which adds input loading,
// caching and rendering:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "package.json",
//	    Formats: []string{"svg", "json"},
//	})
//
// [deps]: github.com/matzehuels/deptiers/pkg/deps
// [dag]: github.com/matzehuels/deptiers/pkg/dag
// [build]: github.com/matzehuels/deptiers/pkg/build
// [layout]: github.com/matzehuels/deptiers/pkg/layout
// [graph]: github.com/matzehuels/deptiers/pkg/graph
// [render]: github.com/matzehuels/deptiers/pkg/render
// [pipeline]: github.com/matzehuels/deptiers/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/deptiers/pkg/pipeline#Runner
// [cache]: github.com/matzehuels/deptiers/pkg/cache
// [store]: github.com/matzehuels/deptiers/pkg/store
// [server]: github.com/matzehuels/deptiers/pkg/server
// [watch]: github.com/matzehuels/deptiers/pkg/watch
// [config]: github.com/matzehuels/deptiers/pkg/config
// [observability]: github.com/matzehuels/deptiers/pkg/observability
// [errors]: github.com/matzehuels/deptiers/pkg/errors
// [buildinfo]: github.com/matzehuels/deptiers/pkg/buildinfo
package pkg
