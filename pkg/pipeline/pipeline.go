// Package pipeline runs the deptiers load → build → layout → render pipeline.
//
// The CLI, the HTTP server and the file watcher all go through this package,
// so they share defaults, validation and caching.
//
// # Stages
//
//  1. Load: read records from a file, a package.json manifest, the demo set
//     or an in-memory slice
//  2. Build: expand records into node occurrences and edges
//  3. Layout: assign tiers and positions
//  4. Render: produce artifacts (SVG, PNG, PDF, DOT, JSON, tables)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "deps.yaml",
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deptiers/pkg/build"
	"github.com/matzehuels/deptiers/pkg/cache"
	"github.com/matzehuels/deptiers/pkg/dag/transform"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatDOT      = "dot"
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatDOT:      true,
	FormatJSON:     true,
	FormatTable:    true,
	FormatMarkdown: true,
	FormatCSV:      true,
}

// FormatExtensions maps formats to output file extensions.
var FormatExtensions = map[string]string{
	FormatSVG:      ".svg",
	FormatPNG:      ".png",
	FormatPDF:      ".pdf",
	FormatDOT:      ".dot",
	FormatJSON:     ".json",
	FormatTable:    ".txt",
	FormatMarkdown: ".md",
	FormatCSV:      ".csv",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. Exactly one input
// source (Records, Demo, Manifest or Input) must be set. The struct is also
// the JSON body of render requests.
type Options struct {
	// Input options
	Records     []deps.Record `json:"records,omitempty"`
	Demo        bool          `json:"demo,omitempty"`
	Manifest    string        `json:"manifest,omitempty"`     // package.json contents
	Input       string        `json:"-"`                      // record file or package.json path; "-" for stdin
	InputFormat string        `json:"input_format,omitempty"` // json, yaml or toml; detected from Input when empty
	Stdin       io.Reader     `json:"-"`

	// Build options
	Resolve  bool   `json:"resolve,omitempty"`
	MaxDepth int    `json:"max_depth,omitempty"`
	Label    string `json:"label,omitempty"`

	// Layout options
	Orientation    string  `json:"orientation,omitempty"`
	Axis           string  `json:"axis,omitempty"`
	NoInvert       bool    `json:"no_invert,omitempty"`
	SortSiblings   bool    `json:"sort_siblings,omitempty"`
	BreakCycles    bool    `json:"break_cycles,omitempty"`
	NodeWidth      float64 `json:"node_width,omitempty"`
	NodeHeight     float64 `json:"node_height,omitempty"`
	TierSpacing    float64 `json:"tier_spacing,omitempty"`
	SiblingSpacing float64 `json:"sibling_spacing,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Selected string   `json:"selected,omitempty"` // name@version to highlight

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the loaded input records.
	Records []deps.Record

	// InputHash is the content hash of Records.
	InputHash string

	// Layout is the positioned graph.
	Layout *layout.Result

	// LayoutHash is the content hash of the layout's JSON form.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	NodeCount   int
	EdgeCount   int
	TierCount   int
	Crossings   int
	LoadTime    time.Duration
	LayoutTime  time.Duration // build and layout
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // layout came from cache
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: svg, png, pdf, dot, json, table, markdown, csv)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults validates the whole pipeline configuration.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForLoad checks that exactly one input source is set.
func (o *Options) ValidateForLoad() error {
	sources := 0
	for _, set := range []bool{o.Records != nil, o.Demo, o.Manifest != "", o.Input != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return errors.New(errors.ErrCodeInvalidInput, "no input: set records, demo, manifest or an input file")
	case sources > 1:
		return errors.New(errors.ErrCodeInvalidInput, "only one input source may be set")
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults fills zero layout fields with the engine defaults.
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultOptions()
	if axis, err := layout.ParseAxis(o.Axis); err == nil && axis != def.Axis {
		def = layout.Options{Orientation: def.Orientation, Axis: axis, Invert: def.Invert}
		def.SetDefaults()
	}
	if o.Orientation == "" {
		o.Orientation = def.Orientation.String()
	}
	if o.Axis == "" {
		o.Axis = def.Axis.String()
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = def.NodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = def.NodeHeight
	}
	if o.TierSpacing == 0 {
		o.TierSpacing = def.TierSpacing
	}
	if o.SiblingSpacing == 0 {
		o.SiblingSpacing = def.SiblingSpacing
	}
	o.setLogger()
}

// ValidateForLayout sets layout defaults and validates build and layout
// options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_depth must not be negative")
	}
	if _, err := o.BuildOptions(); err != nil {
		return err
	}
	lo, err := o.LayoutOptions()
	if err != nil {
		return err
	}
	return lo.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	_, err := o.SelectedKey()
	return err
}

// BuildOptions converts the build fields to build.Options.
func (o *Options) BuildOptions() (build.Options, error) {
	opts := build.Options{Resolve: o.Resolve, MaxDepth: o.MaxDepth}
	if o.Label != "" {
		l, err := build.NewLabeler(o.Label)
		if err != nil {
			return build.Options{}, err
		}
		opts.Label = l
	}
	return opts, nil
}

// LayoutOptions converts the layout fields to layout.Options.
func (o *Options) LayoutOptions() (layout.Options, error) {
	orient, err := transform.ParseOrientation(o.Orientation)
	if err != nil {
		return layout.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "orientation")
	}
	axis, err := layout.ParseAxis(o.Axis)
	if err != nil {
		return layout.Options{}, err
	}
	return layout.Options{
		Orientation:    orient,
		Axis:           axis,
		Invert:         !o.NoInvert,
		SortSiblings:   o.SortSiblings,
		BreakCycles:    o.BreakCycles,
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		TierSpacing:    o.TierSpacing,
		SiblingSpacing: o.SiblingSpacing,
	}, nil
}

// SelectedKey parses Selected. It returns nil when nothing is selected.
func (o *Options) SelectedKey() (*deps.Key, error) {
	if o.Selected == "" {
		return nil, nil
	}
	k, err := deps.ParseKey(o.Selected)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "selected")
	}
	return &k, nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Resolve:        o.Resolve,
		MaxDepth:       o.MaxDepth,
		Label:          o.Label,
		Orientation:    o.Orientation,
		Axis:           o.Axis,
		Invert:         !o.NoInvert,
		SortSiblings:   o.SortSiblings,
		BreakCycles:    o.BreakCycles,
		NodeWidth:      o.NodeWidth,
		NodeHeight:     o.NodeHeight,
		TierSpacing:    o.TierSpacing,
		SiblingSpacing: o.SiblingSpacing,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Selected: o.Selected,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// wire converts a layout result to its JSON form, failing on encode errors.
func wire(res *layout.Result) ([]byte, error) {
	data, err := graph.MarshalResult(res)
	if err != nil {
		return nil, fmt.Errorf("serialize layout: %w", err)
	}
	return data, nil
}
