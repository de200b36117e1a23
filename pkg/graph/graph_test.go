package graph

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/matzehuels/deptiers/pkg/build"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/layout"
)

func demoResult(t *testing.T) *layout.Result {
	t.Helper()
	g, err := build.Build(deps.Demo(), build.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := layout.Layout(g, layout.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestFromResult(t *testing.T) {
	records := []deps.Record{{Name: "a", Version: "1.0", Dependencies: deps.Requires("b", "2.0")}}
	g, _ := build.Build(records, build.Options{})
	res, _ := layout.Layout(g, layout.DefaultOptions())

	l := FromResult(res)

	if len(l.Nodes) != 2 || len(l.Edges) != 1 || len(l.Tiers) != 2 {
		t.Fatalf("nodes/edges/tiers = %d/%d/%d, want 2/1/2", len(l.Nodes), len(l.Edges), len(l.Tiers))
	}
	a := l.Nodes[0]
	if a.ID != "a-1.0" || a.Label != "a@1.0" || a.Tier != 1 || a.X != 0 || a.Y != 0 {
		t.Errorf("node a = %+v", a)
	}
	b := l.Nodes[1]
	if b.ID != "b-2.0" || b.Tier != 0 || b.Y != 100 {
		t.Errorf("node b = %+v", b)
	}
	e := l.Edges[0]
	if e.ID != "a-1.0-b-2.0" || e.Source != "a-1.0" || e.Target != "b-2.0" || e.From != 0 || e.To != 1 {
		t.Errorf("edge = %+v", e)
	}
	if l.Tiers[0].Tier != 0 || l.Tiers[0].Nodes[0] != 1 {
		t.Errorf("tiers = %+v", l.Tiers)
	}
	if l.Width != 180 || l.Height != 140 || l.MinX != -90 || l.MinY != -20 {
		t.Errorf("bounds = %g,%g %gx%g", l.MinX, l.MinY, l.Width, l.Height)
	}
	if l.Options.Orientation != "dependencies" || l.Options.Axis != "vertical" || !l.Options.Invert {
		t.Errorf("options = %+v", l.Options)
	}
}

func TestFromResultEmpty(t *testing.T) {
	res, _ := layout.Layout(nil, layout.DefaultOptions())

	data, err := MarshalResult(res)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["empty"] != true {
		t.Errorf("empty = %v, want true", raw["empty"])
	}
	// Arrays are present even when empty so consumers need no null checks.
	for _, field := range []string{"nodes", "edges", "tiers"} {
		if arr, ok := raw[field].([]any); !ok || len(arr) != 0 {
			t.Errorf("%s = %v, want []", field, raw[field])
		}
	}

	l, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout(empty): %v", err)
	}
	back, err := ToResult(l)
	if err != nil {
		t.Fatalf("ToResult(empty): %v", err)
	}
	if !back.Empty() {
		t.Error("round-tripped layout should be empty")
	}
}

func TestRoundTrip(t *testing.T) {
	res := demoResult(t)

	first, err := MarshalResult(res)
	if err != nil {
		t.Fatal(err)
	}
	l, err := UnmarshalLayout(first)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ToResult(l)
	if err != nil {
		t.Fatalf("ToResult: %v", err)
	}
	second, err := MarshalResult(back)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("round trip changed the layout:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestToResultInvalid(t *testing.T) {
	valid := FromResult(demoResult(t))

	tests := []struct {
		name   string
		mutate func(*Layout)
	}{
		{"edge out of range", func(l *Layout) { l.Edges[0].To = len(l.Nodes) }},
		{"bad index", func(l *Layout) { l.Nodes[1].Index = 7 }},
		{"bad orientation", func(l *Layout) { l.Options.Orientation = "sideways" }},
		{"bad axis", func(l *Layout) { l.Options.Axis = "diagonal" }},
		{"overlapping spacing", func(l *Layout) { l.Options.SiblingSpacing = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, _ := MarshalLayout(valid)
			l, err := UnmarshalLayout(data)
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(&l)
			if _, err := ToResult(l); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestUnmarshalLayoutInvalid(t *testing.T) {
	for _, input := range []string{`{`, `{"nodes": []}`, `[]`} {
		if _, err := UnmarshalLayout([]byte(input)); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("UnmarshalLayout(%s) error = %v, want INVALID_FORMAT", input, err)
		}
	}
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	l := FromResult(demoResult(t))

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Nodes) != len(l.Nodes) || len(got.Edges) != len(l.Edges) {
		t.Errorf("read %d nodes, %d edges; want %d, %d", len(got.Nodes), len(got.Edges), len(l.Nodes), len(l.Edges))
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file: error = %v, want NOT_FOUND", err)
	}
}
