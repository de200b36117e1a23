package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/deptiers/pkg/build"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/layout"
)

func testViewModel(t *testing.T, records []deps.Record) viewModel {
	t.Helper()
	g, err := build.Build(records, build.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res, err := layout.Layout(g, layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	return newViewModel(res, "test")
}

func press(m viewModel, key string) viewModel {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(viewModel)
}

func TestViewModelNavigation(t *testing.T) {
	m := testViewModel(t, []deps.Record{{Name: "p", Version: "1", Dependencies: deps.Requires("x", "1", "y", "1")}})

	// rows: tier 1, p, tier 0, x, y
	if len(m.rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(m.rows))
	}

	steps := []struct {
		key  string
		want string
	}{
		{"", "p@1"},
		{"down", "x@1"},
		{"j", "y@1"},
		{"down", "y@1"},
		{"up", "x@1"},
		{"k", "p@1"},
		{"up", "p@1"},
		{"G", "y@1"},
		{"g", "p@1"},
	}

	for _, s := range steps {
		if s.key != "" {
			m = press(m, s.key)
		}
		if got := m.res.Nodes[m.selected()].Key.Label(); got != s.want {
			t.Fatalf("after %q selected %s, want %s", s.key, got, s.want)
		}
	}
}

func TestViewModelDetails(t *testing.T) {
	m := testViewModel(t, []deps.Record{{Name: "p", Version: "1", Dependencies: deps.Requires("x", "1", "y", "1")}})

	details := m.details()
	for _, want := range []string{"p@1", "x@1, y@1", "none"} {
		if !strings.Contains(details, want) {
			t.Errorf("details %q missing %q", details, want)
		}
	}

	m = press(m, "down")
	if details := m.details(); !strings.Contains(details, "p@1") {
		t.Errorf("x details %q should list p@1 as dependent", details)
	}
}

func TestViewModelEmpty(t *testing.T) {
	m := testViewModel(t, nil)

	if m.selected() != -1 {
		t.Errorf("selected() = %d, want -1", m.selected())
	}
	if view := m.View(); !strings.Contains(view, "No dependencies to display.") {
		t.Errorf("View() = %q, want empty message", view)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}
