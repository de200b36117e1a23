// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps one file per entry under a directory, for the CLI
//   - [RedisCache] shares entries between server instances
//
// Keys are produced by a [Keyer] from content hashes and the options that
// influence the cached value, so changing any option yields a new key:
//
//	keyer := cache.NewDefaultKeyer()
//	lk := keyer.LayoutKey(cache.Hash(recordsJSON), cache.LayoutKeyOpts{Axis: "vertical"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies a layout computed from an input (by hash).
	LayoutKey(inputHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a layout (by hash).
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a computed layout.
type LayoutKeyOpts struct {
	Resolve        bool    `json:"resolve,omitempty"`
	MaxDepth       int     `json:"max_depth,omitempty"`
	Label          string  `json:"label,omitempty"`
	Orientation    string  `json:"orientation"`
	Axis           string  `json:"axis"`
	Invert         bool    `json:"invert,omitempty"`
	SortSiblings   bool    `json:"sort_siblings,omitempty"`
	BreakCycles    bool    `json:"break_cycles,omitempty"`
	NodeWidth      float64 `json:"node_width"`
	NodeHeight     float64 `json:"node_height"`
	TierSpacing    float64 `json:"tier_spacing"`
	SiblingSpacing float64 `json:"sibling_spacing"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	Selected string `json:"selected,omitempty"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Options selects a backend for Open.
type Options struct {
	// Disabled returns a NullCache.
	Disabled bool
	// RedisURL selects RedisCache when set.
	RedisURL string
	// Dir is the FileCache root. Empty means DefaultDir.
	Dir string
}

// Open returns the backend described by opts: null when disabled, Redis
// when a URL is given, files otherwise.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch {
	case opts.Disabled:
		return NewNullCache(), nil
	case opts.RedisURL != "":
		return NewRedisCache(ctx, opts.RedisURL)
	}

	dir := opts.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	return NewFileCache(dir)
}

// Default lifetimes for cached values. Layouts and artifacts are pure
// functions of their keys, so they only expire to bound disk and memory use.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
