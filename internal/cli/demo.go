package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/pipeline"
	"github.com/matzehuels/deptiers/pkg/render/table"
)

// demoCommand creates the demo command, which shows the built-in packages.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		records bool
		style   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show the built-in demo packages in tiers",
		Long: `Show the built-in demo packages (a small React and Next.js tree) as a
tier table.

With --records the demo records are printed as JSON instead, a starting
point for your own input file:

  deptiers demo --records > deps.json
  deptiers render deps.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if records {
				return deps.Write(os.Stdout, deps.Demo())
			}

			st, err := table.ParseStyle(style)
			if err != nil {
				return err
			}
			opts := c.Config.PipelineOptions()
			opts.Demo = true
			opts.Logger = c.Logger

			res, err := pipeline.Layout(cmd.Context(), deps.Demo(), opts)
			if err != nil {
				return err
			}
			out, err := table.Render(res, table.Options{Style: st, Color: !noColor && st == table.Text})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&records, "records", false, "print the demo records as JSON")
	cmd.Flags().StringVar(&style, "style", "text", "table style: text, markdown, csv")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}
