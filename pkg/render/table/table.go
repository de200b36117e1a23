package table

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/layout"
	"github.com/matzehuels/deptiers/pkg/render"
)

// Style selects the output syntax.
type Style int

const (
	Text Style = iota
	Markdown
	CSV
)

var styleNames = map[Style]string{Text: "text", Markdown: "markdown", CSV: "csv"}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStyle parses "text", "markdown" (or "md") and "csv".
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "", "text", "table":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	}
	return Text, errors.New(errors.ErrCodeInvalidInput, "unknown table style %q (want text, markdown or csv)", s)
}

// Options configures table output.
type Options struct {
	Style Style
	// Color highlights the header and tier column. Only used by Text.
	Color bool
}

var header = table.Row{"TIER", "PACKAGE", "VERSION", "DEPS", "X", "Y"}

// Render lists every node of res, grouped by tier in drawing order. An empty
// layout yields a single line with [render.EmptyMessage].
func Render(res *layout.Result, opts Options) (string, error) {
	if res.Empty() {
		return render.EmptyMessage + "\n", nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	if opts.Color && opts.Style == Text {
		row := make(table.Row, len(header))
		for i, h := range header {
			row[i] = text.FgHiCyan.Sprint(h)
		}
		t.AppendHeader(row)
	} else {
		t.AppendHeader(header)
	}

	outDeg := make(map[int]int, len(res.Nodes))
	for _, e := range res.Edges {
		outDeg[e.From]++
	}

	for _, tier := range res.DrawOrder() {
		for _, idx := range res.Order(tier) {
			n := res.Nodes[idx]
			var tierCell any = tier
			if opts.Color && opts.Style == Text {
				tierCell = text.FgYellow.Sprint(tier)
			}
			t.AppendRow(table.Row{
				tierCell,
				n.Key.Name,
				n.Key.Version,
				outDeg[idx],
				fmtNum(n.Position.X),
				fmtNum(n.Position.Y),
			})
		}
		if opts.Style == Text {
			t.AppendSeparator()
		}
	}

	switch opts.Style {
	case Markdown:
		return t.RenderMarkdown() + "\n", nil
	case CSV:
		return t.RenderCSV() + "\n", nil
	case Text:
		return t.Render() + "\n", nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown table style %d", opts.Style)
}

func fmtNum(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
