package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// renderCommand creates the render command for generating diagrams and tables.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "render [records-file|package.json|-]",
		Short: "Render a dependency list as a tiered diagram or table",
		Long: `Render a dependency list as a tiered diagram or table.

Diagrams (svg, png, pdf, dot) draw one box per package occurrence at its
layout position, with an arrow from each package to its dependencies.
Tables (table, markdown, csv) list the packages tier by tier. The json
format is the positioned layout itself.

With a single format, -o names the output file (- for stdout). With several,
-o is the base path and each format adds its extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			if err := setInput(&opts, args, cmd.InOrStdin()); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.bindInput(cmd)
	flags.bindLayout(cmd)
	flags.bindRender(cmd)

	return cmd
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	written, err := writeArtifacts(output, inputBase(opts), result.Artifacts)
	if err != nil {
		return err
	}
	if output == "-" {
		return nil
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))

	if result.Layout.Empty() {
		printWarning("No dependencies to display")
	} else {
		printSuccess("Render complete")
	}
	for _, path := range written {
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.TierCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes every artifact to its output path and returns the
// paths in format order.
func writeArtifacts(output, input string, artifacts map[string][]byte) ([]string, error) {
	paths := outputPaths(output, input, artifacts)
	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	written := make([]string, 0, len(formats))
	for _, f := range formats {
		if err := writeOutput(paths[f], artifacts[f]); err != nil {
			return written, fmt.Errorf("write %s: %w", paths[f], err)
		}
		written = append(written, paths[f])
	}
	return written, nil
}

// outputPaths maps each rendered format to its output path. A single format
// goes to output as given; otherwise output is a base path.
func outputPaths(output, input string, artifacts map[string][]byte) map[string]string {
	paths := make(map[string]string, len(artifacts))
	if len(artifacts) == 1 && output != "" {
		for f := range artifacts {
			paths[f] = output
		}
		return paths
	}
	base := basePath(output, input)
	for f := range artifacts {
		paths[f] = base + pipeline.FormatExtensions[f]
	}
	return paths
}

// basePath derives the base output path. If output is empty, it is the input
// base; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return input
	}
	ext := filepath.Ext(output)
	for _, known := range pipeline.FormatExtensions {
		if ext == known {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
