// Package cli implements the deptiers command-line interface.
//
// Commands read dependency records (JSON, YAML, TOML or a package.json
// manifest), compute the layered layout and write it out:
//   - layout: write the positioned layout as JSON
//   - render: write SVG, PNG, PDF, DOT, JSON or tier tables
//   - demo: show the built-in demo packages
//   - view: browse a layout tier by tier in the terminal
//   - watch: re-render whenever the input file changes
//   - serve: run the HTTP API with websocket live updates
//   - cache: manage the layout and artifact cache
//
// Settings come from deptiers.toml and the environment (see pkg/config);
// flags override both.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deptiers/pkg/buildinfo"
	"github.com/matzehuels/deptiers/pkg/cache"
	"github.com/matzehuels/deptiers/pkg/config"
	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "deptiers"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Deptiers lays out dependency graphs in tiers",
		Long: `Deptiers reads package dependency records and arranges them as a
layered node-link diagram: every package sits in a tier one above its
deepest dependency, siblings are centered within their tier.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(config.Options{Path: c.configPath})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	opts := c.Config.CacheOptions()
	if noCache {
		opts.Disabled = true
	}
	ch, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/deptiers (~/.cache/deptiers on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Input Helpers
// =============================================================================

// setInput points opts at the positional input argument, or checks that
// --demo was given instead.
func setInput(opts *pipeline.Options, args []string, stdin io.Reader) error {
	switch {
	case opts.Demo && len(args) > 0:
		return fmt.Errorf("--demo cannot be combined with an input file")
	case opts.Demo:
		return nil
	case len(args) == 0:
		return fmt.Errorf("an input file (or - for stdin) or --demo is required")
	}
	opts.Input = args[0]
	if opts.Input == "-" {
		opts.Stdin = stdin
	}
	return nil
}

// inputBase returns the path outputs are named after.
func inputBase(opts pipeline.Options) string {
	switch {
	case opts.Demo:
		return "demo"
	case opts.Input == "-" || opts.Input == "":
		return "deps"
	}
	return strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input))
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
