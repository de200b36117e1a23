package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/pipeline"
	"github.com/matzehuels/deptiers/pkg/server"
	"github.com/matzehuels/deptiers/pkg/watch"
)

// watchCommand creates the watch command, which re-renders on file changes.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output string
		serve  bool
		addr   string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "watch <records-file|package.json>",
		Short: "Re-render whenever the input file changes",
		Long: `Re-render whenever the input file changes.

The outputs are written like 'render' does. With --serve the HTTP API runs
alongside and every new layout is pushed to websocket clients on /ws.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			if args[0] == "-" {
				return fmt.Errorf("watch needs a file, not stdin")
			}
			opts.Input = args[0]
			if cmd.Flags().Changed("addr") {
				c.Config.Addr = addr
			}
			return c.runWatch(cmd.Context(), opts, output, serve, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&serve, "serve", false, "also run the HTTP API and push layouts over websockets")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address with --serve (default: config addr)")
	cmd.Flags().StringVar(&flags.opts.InputFormat, "input-format", "", "input format: json, yaml, toml, package.json (default: from file name)")
	flags.bindLayout(cmd)
	flags.bindRender(cmd)

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string, serve, noCache bool) error {
	w, err := watch.New(opts.Input, watch.Options{Logger: c.Logger})
	if err != nil {
		return err
	}

	var srv *server.Server
	if serve {
		if srv, err = c.newServer(ctx, noCache); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	rebuild := func(ctx context.Context) error {
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		written, err := writeArtifacts(output, inputBase(opts), result.Artifacts)
		if err != nil {
			return err
		}
		if srv != nil {
			srv.Hub().PublishLayout(w.Path(), graph.FromResult(result.Layout))
		}
		printSuccess("Updated %s", StyleDim.Render(w.Path()))
		for _, path := range written {
			printFile(path)
		}
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.TierCount, result.CacheInfo.LayoutHit)
		return nil
	}

	if srv == nil {
		return w.Run(ctx, rebuild)
	}

	printInfo("Listening on %s", StyleHighlight.Render(c.Config.Addr))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, c.Config.Addr) })
	g.Go(func() error { return w.Run(gctx, rebuild) })
	return g.Wait()
}
