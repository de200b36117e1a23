// Package layout is the layered layout engine: it turns the node/edge set of
// a build pass into deterministic 2-D coordinates.
//
// # Algorithm
//
// [Layout] runs three steps on every call, keeping no state between calls:
//
//  1. Tier assignment via [transform.AssignTiers]. With the default
//     [transform.Dependencies] orientation leaves are tier 0 and every other
//     package sits one tier above the deepest package it depends on.
//  2. Grouping: nodes are bucketed by tier. Within a tier, nodes keep the
//     order the builder emitted them in, or name/version order with
//     [Options.SortSiblings].
//  3. Positioning: the i-th of n nodes in a tier gets the cross-axis
//     coordinate (i - (n-1)/2) * SiblingSpacing, centering the tier on the
//     axis, and the along-axis coordinate tier * TierSpacing, or
//     (maxTier - tier) * TierSpacing with [Options.Invert].
//
// A node's Position is the center of its box. [Options.Axis] chooses whether
// tiers are rows ([Vertical], along-axis = Y, growing downward as on screen)
// or columns ([Horizontal], along-axis = X).
//
// Spacing must be at least the node box extent along each axis, which keeps
// boxes in the same tier and in neighbouring tiers from overlapping.
//
// # Empty Input
//
// An empty graph is not an error. Layout returns a Result whose
// [Result.Empty] reports true, which renderers show as a "nothing to
// display" state.
//
// # Cycles
//
// A cycle fails tier assignment with a CYCLIC_GRAPH error wrapping
// [*dag.CycleError]. With [Options.BreakCycles] the back edges are dropped
// first and [Result.CyclesRemoved] reports how many.
package layout
