package dag

import "testing"

func TestCountTierCrossings(t *testing.T) {
	// a, b on the upper tier; c, d below.
	g := New(nil)
	a := mustNode(t, g, "a")
	b := mustNode(t, g, "b")
	c := mustNode(t, g, "c")
	d := mustNode(t, g, "d")
	mustEdge(t, g, "a", "d")
	mustEdge(t, g, "b", "c")

	tests := []struct {
		name  string
		upper []int
		lower []int
		want  int
	}{
		{"crossed", []int{a, b}, []int{c, d}, 1},
		{"uncrossed", []int{a, b}, []int{d, c}, 0},
		{"empty tier", []int{a, b}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountTierCrossings(g, tt.upper, tt.lower); got != tt.want {
				t.Errorf("CountTierCrossings = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCrossingsSkipsDistantTiers(t *testing.T) {
	g := New(nil)
	a := mustNode(t, g, "a")
	b := mustNode(t, g, "b")
	c := mustNode(t, g, "c")
	d := mustNode(t, g, "d")
	mustEdge(t, g, "a", "d")
	mustEdge(t, g, "b", "c")

	adjacent := map[int][]int{0: {c, d}, 1: {a, b}}
	if got := CountCrossings(g, adjacent); got != 1 {
		t.Errorf("adjacent tiers: CountCrossings = %d, want 1", got)
	}
	distant := map[int][]int{0: {c, d}, 2: {a, b}}
	if got := CountCrossings(g, distant); got != 0 {
		t.Errorf("distant tiers: CountCrossings = %d, want 0", got)
	}
}
