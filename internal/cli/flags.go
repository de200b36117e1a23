package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// pipelineFlags holds the values of the build, layout and render flags.
// Only flags the user set explicitly override the configuration.
type pipelineFlags struct {
	opts    pipeline.Options
	formats string
	noCache bool
}

func (f *pipelineFlags) bindInput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.opts.Demo, "demo", false, "use the built-in demo packages as input")
	fs.StringVar(&f.opts.InputFormat, "input-format", "", "input format: json, yaml, toml, package.json (default: from file name)")
}

func (f *pipelineFlags) bindLayout(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.opts.Resolve, "resolve", false, "expand children through matching top-level records")
	fs.IntVar(&f.opts.MaxDepth, "max-depth", 0, "maximum expansion depth with --resolve (0: unlimited)")
	fs.StringVar(&f.opts.Label, "label", "", "node label template (default: {{.Name}}@{{.Version}})")
	fs.StringVar(&f.opts.Orientation, "orientation", "", "tier orientation: dependencies (default), dependents")
	fs.StringVar(&f.opts.Axis, "axis", "", "tier axis: vertical (default), horizontal")
	fs.BoolVar(&f.opts.NoInvert, "no-invert", false, "place tier 0 first instead of last")
	fs.BoolVar(&f.opts.SortSiblings, "sort", false, "order siblings by name and version")
	fs.BoolVar(&f.opts.BreakCycles, "break-cycles", false, "drop back edges instead of failing on cycles")
	fs.Float64Var(&f.opts.NodeWidth, "node-width", 0, "node box width")
	fs.Float64Var(&f.opts.NodeHeight, "node-height", 0, "node box height")
	fs.Float64Var(&f.opts.TierSpacing, "tier-spacing", 0, "distance between tiers")
	fs.Float64Var(&f.opts.SiblingSpacing, "sibling-spacing", 0, "distance between siblings")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even when cached")
}

func (f *pipelineFlags) bindRender(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json, table, markdown, csv (comma-separated)")
	fs.BoolVar(&f.opts.Detailed, "detailed", false, "show tier and depth in node labels")
	fs.StringVar(&f.opts.Selected, "select", "", "highlight a package and its edges (name@version)")
}

// options returns base with every explicitly set flag applied.
func (f *pipelineFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	set := cmd.Flags().Changed
	src := f.opts

	base.Demo = src.Demo
	base.InputFormat = src.InputFormat
	base.Refresh = src.Refresh
	base.Selected = src.Selected

	for name, apply := range map[string]func(){
		"resolve":         func() { base.Resolve = src.Resolve },
		"max-depth":       func() { base.MaxDepth = src.MaxDepth },
		"label":           func() { base.Label = src.Label },
		"orientation":     func() { base.Orientation = src.Orientation },
		"axis":            func() { base.Axis = src.Axis },
		"no-invert":       func() { base.NoInvert = src.NoInvert },
		"sort":            func() { base.SortSiblings = src.SortSiblings },
		"break-cycles":    func() { base.BreakCycles = src.BreakCycles },
		"node-width":      func() { base.NodeWidth = src.NodeWidth },
		"node-height":     func() { base.NodeHeight = src.NodeHeight },
		"tier-spacing":    func() { base.TierSpacing = src.TierSpacing },
		"sibling-spacing": func() { base.SiblingSpacing = src.SiblingSpacing },
		"detailed":        func() { base.Detailed = src.Detailed },
		"format":          func() { base.Formats = parseFormats(f.formats) },
	} {
		if set(name) {
			apply()
		}
	}
	return base
}
