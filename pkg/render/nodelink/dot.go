package nodelink

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/deptiers/pkg/dag"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/layout"
	"github.com/matzehuels/deptiers/pkg/render"
)

// pointsPerInch converts layout units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// Highlight colors for a selected package.
const (
	selectedEdgeColor = "red"
	selectedFillColor = "#fde68a"
	edgeColor         = "#64748b"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the tier and metadata in node labels.
	// When false, only the node label is shown.
	Detailed bool

	// Selected highlights a package and the edges touching it.
	Selected *deps.Key
}

// ToDOT converts a layout to Graphviz DOT with every node pinned at its
// computed position. Node statements are named n<index> after the node's
// position in res.Nodes, so repeated packages stay separate boxes.
func ToDOT(res *layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")

	if res.Empty() {
		fmt.Fprintf(&buf, "  empty [shape=plaintext, fontsize=14, label=%s];\n", dotQuote(render.EmptyMessage))
		buf.WriteString("}\n")
		return buf.String()
	}

	w := res.Options.NodeWidth / pointsPerInch
	h := res.Options.NodeHeight / pointsPerInch
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true, width=%s, height=%s];\n",
		fmtNum(w), fmtNum(h))
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.7];\n", edgeColor)
	buf.WriteString("\n")

	for i, n := range res.Nodes {
		attrs := []string{
			"label=" + dotQuote(fmtLabel(n, opts.Detailed)),
			// Graphviz y grows upward, layout y grows downward.
			fmt.Sprintf("pos=\"%s,%s!\"", fmtNum(n.Position.X), fmtNum(-n.Position.Y)),
		}
		if opts.Selected != nil && n.Key == *opts.Selected {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", selectedFillColor), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		attrs := []string{"id=" + dotQuote(e.ID)}
		if opts.Selected != nil && (e.Source == *opts.Selected || e.Target == *opts.Selected) {
			attrs = append(attrs, fmt.Sprintf("color=%q", selectedEdgeColor), "penwidth=2")
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}

	parts := []string{fmt.Sprintf("tier: %d", n.Tier)}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.Label + "\n" + strings.Join(parts, "\n")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotQuote returns s as a DOT quoted string. Newlines become \n line breaks
// and other control characters are dropped.
func dotQuote(s string) string {
	s = strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
	return `"` + dotEscaper.Replace(s) + `"`
}

// fmtNum formats a coordinate compactly, without a negative zero.
func fmtNum(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
