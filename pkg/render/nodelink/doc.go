// Package nodelink renders layouts as node-link diagrams.
//
// # Overview
//
// Boxes are drawn at the coordinates computed by the layout engine and
// connected by arrows from dependent to dependency. Graphviz only draws:
// every node is pinned with pos="x,y!" and the neato engine keeps pinned
// nodes in place, routing edges around them.
//
// # Usage
//
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the tier and node metadata
//   - Selected: the edges touching a package are highlighted, the
//     presentation counterpart of selecting a node in an interactive view
//
// An empty layout renders a single "No dependencies to display." note.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is required.
package nodelink
