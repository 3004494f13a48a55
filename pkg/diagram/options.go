package diagram

import "time"

// Tuning defaults for the live diagram.
const (
	DefaultLinkDistance = 180.0
	DefaultCharge       = -90.0
	DefaultGroupPull    = 0.1
	DefaultSpawnRadius  = 60.0
	DefaultIconSize     = 40.0
	CompactIconSize     = 30.0
	DefaultMargin       = 15.0
	DefaultHoverDelay   = time.Second

	// ReheatTarget is the alpha target held while a node is dragged.
	ReheatTarget = 0.3
)

// DefaultTooltipOffset keeps the tooltip clear of the pointer.
var DefaultTooltipOffset = Point{X: 10, Y: -20}

// Options tunes scene building, the solver, and interaction.
//
// Start from [DefaultOptions]; a zero GroupPull disables the group force and
// a zero Charge disables repulsion.
type Options struct {
	LinkDistance float64 // rest length of every edge
	Charge       float64 // many-body strength, negative repels
	GroupPull    float64 // fraction of the anchor offset applied per step, scaled by alpha
	SpawnRadius  float64 // radius of the seeding circle around each anchor

	IconSize float64 // icon edge length when not compact
	Compact  bool    // scale the icon down to CompactIconSize
	Margin   float64 // visual margin added to half the icon size

	HoverDelay    time.Duration
	TooltipOffset Point

	// Anchors maps categories to fractional anchor points. Nodes whose
	// category has no anchor are placed and moved without a group force.
	Anchors AnchorLayout

	// Seed drives the solver's jiggle, so equal inputs settle identically.
	Seed uint64
}

// DefaultOptions returns the tuning of the built-in portfolio diagram.
func DefaultOptions() Options {
	return Options{
		LinkDistance:  DefaultLinkDistance,
		Charge:        DefaultCharge,
		GroupPull:     DefaultGroupPull,
		SpawnRadius:   DefaultSpawnRadius,
		IconSize:      DefaultIconSize,
		Margin:        DefaultMargin,
		HoverDelay:    DefaultHoverDelay,
		TooltipOffset: DefaultTooltipOffset,
		Anchors:       DefaultAnchors(),
		Seed:          42,
	}
}

// EffectiveIconSize returns the icon size after compact scaling.
func (o Options) EffectiveIconSize() float64 {
	if o.Compact {
		return CompactIconSize
	}
	if o.IconSize <= 0 {
		return DefaultIconSize
	}
	return o.IconSize
}

// NodeRadius is the hit and clamping radius of every node.
func (o Options) NodeRadius() float64 {
	return o.EffectiveIconSize()/2 + o.Margin
}

// normalized fills fields that have no meaningful zero value.
func (o Options) normalized() Options {
	if o.LinkDistance <= 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.SpawnRadius < 0 {
		o.SpawnRadius = DefaultSpawnRadius
	}
	if o.HoverDelay <= 0 {
		o.HoverDelay = DefaultHoverDelay
	}
	if o.Margin < 0 {
		o.Margin = 0
	}
	return o
}
