// Package transform provides the graph passes that run before positioning.
//
// # Tier Assignment
//
// [AssignTiers] gives every key of a [dag.DAG] a tier (layer index). With the
// default [Dependencies] orientation a package rests one tier above the
// deepest package it depends on, so leaves are tier 0 and a root ends up at
// the top of its chain:
//
//	react-dom → scheduler
//
//	tier 1: react-dom
//	tier 0: scheduler
//
// The [Dependents] orientation mirrors this: roots are tier 0 and a package
// sits one tier below the deepest package that depends on it.
//
// Tiers are computed with an explicit depth-first traversal using
// white/gray/black marking. Each key is finished once, so the pass is
// O(V + E) even on graphs with many shared dependencies, and a gray revisit
// reports the cycle path instead of recursing forever.
//
// # Cycle Breaking
//
// Dependency data sometimes contains circular references. [BreakCycles] is
// an optional pre-pass that removes the back edges found by a depth-first
// search so that layout can proceed, reporting how many it dropped.
//
// # Usage
//
//	tiers, err := transform.AssignTiers(g, transform.Dependencies)
//	if err != nil {
//	    return err // *dag.CycleError
//	}
//	g.SetTiers(tiers)
package transform
