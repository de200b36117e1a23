package dag

import (
	"maps"
	"slices"
)

// CountCrossings counts edge crossings between adjacent tiers.
//
// The orders map holds, per tier, the node indices in cross-axis order. Only
// edges whose endpoint occurrences sit in adjacent tiers are counted; edges
// spanning several tiers or lying within one tier are ignored. A result of
// zero means the adjacent-tier edges can be drawn without crossings.
func CountCrossings(g *DAG, orders map[int][]int) int {
	tiers := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i+1 < len(tiers); i++ {
		if tiers[i+1] != tiers[i]+1 {
			continue
		}
		crossings += CountTierCrossings(g, orders[tiers[i]], orders[tiers[i+1]])
	}
	return crossings
}

// CountTierCrossings counts crossings among the edges between two tiers,
// whichever tier holds the source. It uses a Fenwick tree (binary indexed
// tree) over positions in the second tier, running in O(E log V).
func CountTierCrossings(g *DAG, first, second []int) int {
	if len(first) == 0 || len(second) == 0 {
		return 0
	}

	firstPos := posMap(first)
	secondPos := posMap(second)

	type pair struct{ a, b int }
	pairs := make([]pair, 0, len(first)*2)
	for _, e := range g.edges {
		if pa, ok := firstPos[e.From]; ok {
			if pb, ok := secondPos[e.To]; ok {
				pairs = append(pairs, pair{pa, pb})
			}
			continue
		}
		if pa, ok := firstPos[e.To]; ok {
			if pb, ok := secondPos[e.From]; ok {
				pairs = append(pairs, pair{pa, pb})
			}
		}
	}
	if len(pairs) < 2 {
		return 0
	}

	slices.SortFunc(pairs, func(x, y pair) int {
		if x.a != y.a {
			return x.a - y.a
		}
		return x.b - y.b
	})

	// Count inversions in the b sequence: pairs (i, j) with i < j and
	// b[i] > b[j] cross.
	fenwick := make([]int, len(second)+1)
	crossings, total := 0, 0
	for _, p := range pairs {
		lessOrEqual := 0
		for q := p.b + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := p.b + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

func posMap(indices []int) map[int]int {
	m := make(map[int]int, len(indices))
	for i, idx := range indices {
		m[idx] = i
	}
	return m
}
