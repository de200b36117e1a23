package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/observability"
	"github.com/matzehuels/deptiers/pkg/server"
	"github.com/matzehuels/deptiers/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with websocket live updates",
		Long: `Run the HTTP API.

Routes:
  GET    /healthz
  GET    /api/demo
  POST   /api/layout              records JSON, or ?manifest=package.json
  POST   /api/render?format=svg
  POST   /api/snapshots           store an uploaded record list
  GET    /api/snapshots
  GET    /api/snapshots/{id}
  GET    /api/snapshots/{id}/layout
  DELETE /api/snapshots/{id}
  GET    /ws                      layouts pushed as they are computed

Snapshots are kept in memory unless a MongoDB URI is configured
(DEPTIERS_MONGO_URI or [store] mongo_uri). The cache uses Redis when
DEPTIERS_REDIS_URL is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Addr = addr
			}
			srv, err := c.newServer(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			printInfo("Listening on %s", StyleHighlight.Render(c.Config.Addr))
			return srv.ListenAndServe(cmd.Context(), c.Config.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// newServer wires the runner, snapshot store and logging hooks into a server.
func (c *CLI) newServer(ctx context.Context, noCache bool) (*server.Server, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, c.Config.Store.MongoURI)
	if err != nil {
		runner.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	observability.Register(observability.NewLogHooks(c.Logger))

	backend := "memory"
	if c.Config.Store.MongoURI != "" {
		backend = "mongodb"
	}
	c.Logger.Debug("server backends", "store", backend, "redis", c.Config.Cache.RedisURL != "", "cache", !noCache && !c.Config.Cache.Disabled)

	return server.New(server.Config{Runner: runner, Store: st, Logger: c.Logger}), nil
}
