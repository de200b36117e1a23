// Package render turns layout results into viewable artifacts.
//
// # Overview
//
//   - [nodelink]: Graphviz DOT with pinned positions, rendered in-process to
//     SVG or PNG
//   - [table]: per-tier listings as text, Markdown or CSV
//
// The [ToPDF] function converts any SVG to PDF using the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(res, nodelink.Options{}))
//	pdf, err := render.ToPDF(svg)
//
// [nodelink]: github.com/matzehuels/deptiers/pkg/render/nodelink
// [table]: github.com/matzehuels/deptiers/pkg/render/table
package render
