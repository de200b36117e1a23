// Package config loads deptiers settings.
//
// Settings are layered, later sources winning:
//
//  1. built-in defaults
//  2. a TOML file (deptiers.toml in the working directory, or --config)
//  3. environment variables, including those from a .env file
//  4. command-line flags (applied by the CLI)
//
// Example deptiers.toml:
//
//	addr = ":8080"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//
//	[layout]
//	axis = "horizontal"
//	sort_siblings = true
//
//	[render]
//	formats = ["svg", "json"]
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/deptiers/pkg/cache"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/pipeline"
)

// Default file names.
const (
	DefaultFile    = "deptiers.toml"
	DefaultEnvFile = ".env"
	DefaultAddr    = ":8080"
)

// Environment variables read by Load.
const (
	EnvAddr     = "DEPTIERS_ADDR"
	EnvRedisURL = "DEPTIERS_REDIS_URL"
	EnvMongoURI = "DEPTIERS_MONGO_URI"
	EnvCacheDir = "DEPTIERS_CACHE_DIR"
	EnvNoCache  = "DEPTIERS_NO_CACHE"
)

// Config is the full configuration.
type Config struct {
	Addr   string `toml:"addr"`
	Cache  Cache  `toml:"cache"`
	Store  Store  `toml:"store"`
	Layout Layout `toml:"layout"`
	Render Render `toml:"render"`
}

// Cache configures the artifact cache.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// Store configures snapshot storage.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
}

// Layout holds default build and layout options.
type Layout struct {
	Resolve        bool    `toml:"resolve"`
	MaxDepth       int     `toml:"max_depth"`
	Label          string  `toml:"label"`
	Orientation    string  `toml:"orientation"`
	Axis           string  `toml:"axis"`
	NoInvert       bool    `toml:"no_invert"`
	SortSiblings   bool    `toml:"sort_siblings"`
	BreakCycles    bool    `toml:"break_cycles"`
	NodeWidth      float64 `toml:"node_width"`
	NodeHeight     float64 `toml:"node_height"`
	TierSpacing    float64 `toml:"tier_spacing"`
	SiblingSpacing float64 `toml:"sibling_spacing"`
}

// Render holds default render options.
type Render struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:   DefaultAddr,
		Render: Render{Formats: []string{pipeline.DefaultFormat}},
	}
}

// Options says where Load looks for settings.
type Options struct {
	// Path is the TOML file. Empty means DefaultFile, which may be absent.
	Path string
	// EnvFile is the dotenv file. Empty means DefaultEnvFile, which may be
	// absent. Variables already set in the environment win.
	EnvFile string
}

// Load builds a Config from defaults, the TOML file and the environment.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	envFile, explicit := opts.EnvFile, opts.EnvFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && (explicit || !os.IsNotExist(err)) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load %s", envFile)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string, required bool) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if os.IsNotExist(err) {
			if required {
				return errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
			}
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvNoCache); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s: invalid boolean %q", EnvNoCache, v)
		}
		c.Cache.Disabled = b
	}
	return nil
}

// Validate checks the layout and render defaults.
func (c *Config) Validate() error {
	opts := c.PipelineOptions()
	if err := opts.ValidateForLayout(); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "config [layout]")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config [render]")
	}
	return nil
}

// PipelineOptions returns pipeline options carrying the configured defaults.
// Input fields are left empty.
func (c *Config) PipelineOptions() pipeline.Options {
	l := c.Layout
	return pipeline.Options{
		Resolve:        l.Resolve,
		MaxDepth:       l.MaxDepth,
		Label:          l.Label,
		Orientation:    l.Orientation,
		Axis:           l.Axis,
		NoInvert:       l.NoInvert,
		SortSiblings:   l.SortSiblings,
		BreakCycles:    l.BreakCycles,
		NodeWidth:      l.NodeWidth,
		NodeHeight:     l.NodeHeight,
		TierSpacing:    l.TierSpacing,
		SiblingSpacing: l.SiblingSpacing,
		Formats:        append([]string(nil), c.Render.Formats...),
		Detailed:       c.Render.Detailed,
	}
}

// CacheOptions returns the cache backend selection.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Disabled: c.Cache.Disabled,
		RedisURL: c.Cache.RedisURL,
		Dir:      c.Cache.Dir,
	}
}
