package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// layoutCommand creates the layout command for computing positioned layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [records-file|package.json|-]",
		Short: "Compute the tiered layout of a dependency list",
		Long: `Compute the tiered layout of a dependency list.

The input is a list of package records in JSON, YAML or TOML, or a
package.json manifest. The output is a layout.json file holding every node
with its tier and coordinates, the edges and the tier membership. It can be
served to a frontend or rendered later.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			if err := setInput(&opts, args, cmd.InOrStdin()); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>.layout.json)")
	flags.bindInput(cmd)
	flags.bindLayout(cmd)

	return cmd
}

// runLayout loads the records, computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	opts.Logger = c.Logger
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	records, err := pipeline.Load(opts)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, _, cacheHit, err := runner.LayoutWithCacheInfo(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := graph.MarshalResult(res)
	if err != nil {
		return err
	}

	if output == "" {
		output = inputBase(opts) + ".layout.json"
	}
	if err := writeOutput(output, data); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	if output == "-" {
		return nil
	}

	if res.Empty() {
		printWarning("No dependencies to display")
	} else {
		printSuccess("Layout complete")
	}
	printFile(output)
	printStats(len(res.Nodes), len(res.Edges), res.TierCount(), cacheHit)
	printNewline()
	printNextStep("Browse", appName+" view "+inputArg(opts))

	return nil
}

// inputArg returns the arguments that reproduce the input of opts.
func inputArg(opts pipeline.Options) string {
	if opts.Demo {
		return "--demo"
	}
	return opts.Input
}
