package transform

import (
	"errors"
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
)

func TestAssignTiers(t *testing.T) {
	tests := []struct {
		name   string
		nodes  []string
		edges  []string
		orient Orientation
		want   map[string]int
	}{
		{
			name:   "single edge dependencies",
			nodes:  []string{"a", "b"},
			edges:  []string{"a>b"},
			orient: Dependencies,
			want:   map[string]int{"a": 1, "b": 0},
		},
		{
			name:   "single edge dependents",
			nodes:  []string{"a", "b"},
			edges:  []string{"a>b"},
			orient: Dependents,
			want:   map[string]int{"a": 0, "b": 1},
		},
		{
			name:   "longest path wins",
			nodes:  []string{"app", "lib", "core"},
			edges:  []string{"app>lib", "lib>core", "app>core"},
			orient: Dependencies,
			want:   map[string]int{"app": 2, "lib": 1, "core": 0},
		},
		{
			name:   "longest path wins dependents",
			nodes:  []string{"app", "lib", "core"},
			edges:  []string{"app>lib", "lib>core", "app>core"},
			orient: Dependents,
			want:   map[string]int{"app": 0, "lib": 1, "core": 2},
		},
		{
			name:   "isolated nodes",
			nodes:  []string{"x", "y"},
			orient: Dependencies,
			want:   map[string]int{"x": 0, "y": 0},
		},
		{
			name:   "diamond",
			nodes:  []string{"a", "b", "c", "d"},
			edges:  []string{"a>b", "a>c", "b>d", "c>d"},
			orient: Dependencies,
			want:   map[string]int{"a": 2, "b": 1, "c": 1, "d": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(t, tt.nodes, tt.edges...)

			tiers, err := AssignTiers(g, tt.orient)
			if err != nil {
				t.Fatalf("AssignTiers: %v", err)
			}
			if len(tiers) != len(tt.want) {
				t.Errorf("got %d tiers, want %d", len(tiers), len(tt.want))
			}
			for name, want := range tt.want {
				if got, ok := tiers[k(name)]; !ok || got != want {
					t.Errorf("tier(%s) = %d (present %v), want %d", name, got, ok, want)
				}
			}
		})
	}
}

// For every key, its tier is 0 iff it has no adjacent keys, otherwise one more
// than the largest adjacent tier.
func TestAssignTiersRule(t *testing.T) {
	g := graph(t,
		[]string{"next", "react", "react-dom", "webpack", "loose-envify", "scheduler", "js-tokens"},
		"next>webpack", "next>react", "next>react-dom",
		"react>loose-envify", "react-dom>scheduler", "react-dom>react",
		"loose-envify>js-tokens", "scheduler>loose-envify",
	)

	for _, o := range []Orientation{Dependencies, Dependents} {
		t.Run(o.String(), func(t *testing.T) {
			tiers, err := AssignTiers(g, o)
			if err != nil {
				t.Fatal(err)
			}
			adjacent := g.Children
			if o == Dependents {
				adjacent = g.Parents
			}
			for _, key := range g.Keys() {
				adj := adjacent(key)
				want := 0
				for _, a := range adj {
					want = max(want, tiers[a]+1)
				}
				if tiers[key] != want {
					t.Errorf("tier(%s) = %d, want %d", key, tiers[key], want)
				}
			}
		})
	}
}

func TestAssignTiersDuplicatesShareTier(t *testing.T) {
	g := dag.New(nil)
	a, b := k("a"), k("b")
	for _, key := range []deps.Key{a, b, a, b} {
		if _, err := g.AddNode(dag.Node{Key: key}); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(dag.Edge{Source: a, Target: b, From: 2, To: 3}); err != nil {
		t.Fatal(err)
	}

	tiers, err := AssignTiers(g, Dependencies)
	if err != nil {
		t.Fatal(err)
	}
	g.SetTiers(tiers)
	for _, n := range g.Nodes() {
		want := 0
		if n.Key == a {
			want = 1
		}
		if n.Tier != want {
			t.Errorf("%s tier = %d, want %d", n.Key, n.Tier, want)
		}
	}
}

func TestAssignTiersCycle(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []string
		edges    []string
		orient   Orientation
		wantPath []string
	}{
		{"two cycle", []string{"a", "b"}, []string{"a>b", "b>a"}, Dependencies, []string{"a", "b", "a"}},
		{"self loop", []string{"a"}, []string{"a>a"}, Dependencies, []string{"a", "a"}},
		{"inner cycle", []string{"root", "x", "y", "z"}, []string{"root>x", "x>y", "y>z", "z>x"}, Dependencies, []string{"x", "y", "z", "x"}},
		{"inner cycle dependents", []string{"root", "x", "y", "z"}, []string{"root>x", "x>y", "y>z", "z>x"}, Dependents, []string{"x", "z", "y", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph(t, tt.nodes, tt.edges...)

			_, err := AssignTiers(g, tt.orient)
			if !errors.Is(err, dag.ErrCyclicGraph) {
				t.Fatalf("error = %v, want ErrCyclicGraph", err)
			}
			var ce *dag.CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not a *dag.CycleError", err)
			}
			want := make([]deps.Key, len(tt.wantPath))
			for i, n := range tt.wantPath {
				want[i] = k(n)
			}
			if !slices.Equal(ce.Path, want) {
				t.Errorf("Path = %v, want %v", ce.Path, want)
			}
		})
	}
}

func TestAssignTiersDeepChain(t *testing.T) {
	const depth = 20000
	g := dag.New(nil)
	keys := make([]deps.Key, depth)
	for i := range keys {
		keys[i] = deps.Key{Name: "pkg", Version: strconv.Itoa(i) + ".0.0"}
		if _, err := g.AddNode(dag.Node{Key: keys[i]}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i+1 < depth; i++ {
		if err := g.AddEdge(dag.Edge{Source: keys[i], Target: keys[i+1]}); err != nil {
			t.Fatal(err)
		}
	}

	tiers, err := AssignTiers(g, Dependencies)
	if err != nil {
		t.Fatal(err)
	}
	if tiers[keys[0]] != depth-1 {
		t.Errorf("root tier = %d, want %d", tiers[keys[0]], depth-1)
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"dependencies", Dependencies, false},
		{"Dependents", Dependents, false},
		{"", Dependencies, false},
		{"sideways", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOrientation(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOrientation(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}
