package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/layout"
	"github.com/matzehuels/deptiers/pkg/observability"
	"github.com/matzehuels/deptiers/pkg/render/nodelink"
	"github.com/matzehuels/deptiers/pkg/render/table"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest.
func Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	selected, err := opts.SelectedKey()
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)

	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: opts.Detailed, Selected: selected})

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, res, dot, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, res *layout.Result, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatJSON:
		return graph.MarshalResult(res)
	case FormatTable, FormatMarkdown, FormatCSV:
		style := map[string]table.Style{
			FormatTable:    table.Text,
			FormatMarkdown: table.Markdown,
			FormatCSV:      table.CSV,
		}[format]
		out, err := table.Render(res, table.Options{Style: style})
		return []byte(out), err
	}
	return nil, ValidateFormat(format)
}
