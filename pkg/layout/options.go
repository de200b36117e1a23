package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/deptiers/pkg/dag/transform"
	"github.com/matzehuels/deptiers/pkg/errors"
)

// Axis selects the direction tiers advance in.
type Axis int

const (
	// Vertical lays tiers out as rows; the along-axis is Y.
	Vertical Axis = iota
	// Horizontal lays tiers out as columns; the along-axis is X.
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis parses "vertical" (or "tb") and "horizontal" (or "lr").
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "vertical", "tb", "":
		return Vertical, nil
	case "horizontal", "lr":
		return Horizontal, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown axis %q (must be vertical or horizontal)", s)
}

// Default presentation constants.
const (
	DefaultNodeWidth  = 180.0
	DefaultNodeHeight = 40.0

	// Vertical axis: tiers are rows.
	DefaultVerticalTierSpacing    = 100.0
	DefaultVerticalSiblingSpacing = 220.0

	// Horizontal axis: tiers are columns.
	DefaultHorizontalTierSpacing    = 300.0
	DefaultHorizontalSiblingSpacing = 100.0
)

// Options configures a layout pass.
type Options struct {
	Orientation transform.Orientation
	Axis        Axis

	// Invert places the deepest tier at the along-axis origin. With the
	// Dependencies orientation this puts roots above their dependencies.
	Invert bool

	// SortSiblings orders nodes within a tier by name, then version,
	// instead of emission order.
	SortSiblings bool

	// BreakCycles drops back edges instead of failing on a cycle.
	BreakCycles bool

	NodeWidth      float64
	NodeHeight     float64
	TierSpacing    float64
	SiblingSpacing float64
}

// DefaultOptions returns the options used by the CLI and the server:
// Dependencies orientation, vertical axis, inverted so roots are on top.
func DefaultOptions() Options {
	o := Options{
		Orientation: transform.Dependencies,
		Axis:        Vertical,
		Invert:      true,
	}
	o.SetDefaults()
	return o
}

// SetDefaults fills zero sizes and spacings with the defaults for o.Axis.
func (o *Options) SetDefaults() {
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.TierSpacing == 0 {
		o.TierSpacing = DefaultVerticalTierSpacing
		if o.Axis == Horizontal {
			o.TierSpacing = DefaultHorizontalTierSpacing
		}
	}
	if o.SiblingSpacing == 0 {
		o.SiblingSpacing = DefaultVerticalSiblingSpacing
		if o.Axis == Horizontal {
			o.SiblingSpacing = DefaultHorizontalSiblingSpacing
		}
	}
}

// Extents returns the node box size along the cross and along axes.
func (o Options) Extents() (cross, along float64) {
	if o.Axis == Horizontal {
		return o.NodeHeight, o.NodeWidth
	}
	return o.NodeWidth, o.NodeHeight
}

// Validate checks that boxes cannot overlap with the configured spacing.
func (o Options) Validate() error {
	if o.Axis != Vertical && o.Axis != Horizontal {
		return errors.New(errors.ErrCodeInvalidInput, "unknown axis %d", int(o.Axis))
	}
	if o.Orientation != transform.Dependencies && o.Orientation != transform.Dependents {
		return errors.New(errors.ErrCodeInvalidInput, "unknown orientation %d", int(o.Orientation))
	}
	if o.NodeWidth <= 0 || o.NodeHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node size must be positive, got %gx%g", o.NodeWidth, o.NodeHeight)
	}
	cross, along := o.Extents()
	if o.SiblingSpacing < cross {
		return errors.New(errors.ErrCodeInvalidInput, "sibling spacing %g is smaller than the node extent %g", o.SiblingSpacing, cross)
	}
	if o.TierSpacing < along {
		return errors.New(errors.ErrCodeInvalidInput, "tier spacing %g is smaller than the node extent %g", o.TierSpacing, along)
	}
	return nil
}
