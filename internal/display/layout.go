package display

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/position"
)

// Placement is the side of the anchor the panel opens on.
type Placement string

const (
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
)

// ParsePlacement validates a placement string.
func ParsePlacement(s string) (Placement, error) {
	switch p := Placement(strings.ToLower(strings.TrimSpace(s))); p {
	case PlacementTop, PlacementBottom:
		return p, nil
	case "":
		return PlacementBottom, nil
	default:
		return "", fmt.Errorf("invalid placement %q: must be top or bottom", s)
	}
}

// Default presentation metrics in pixels.
const (
	DefaultSpacing        = 15
	DefaultHitProbeHeight = 190
	DefaultHitProbeSlack  = 10
	DefaultArrowSize      = 9
	DefaultArrowBorder    = 10
	DefaultPushRightShift = 10
)

// Options holds presentation metrics.
type Options struct {
	Spacing        float64 // Gap between anchor and panel container
	HitProbeHeight float64 // Height of the invisible hover probe
	HitProbeSlack  float64 // Extra reach of the probe past the anchor
	ArrowSize      float64
	ArrowBorder    float64
	PushRight      bool
	PushRightShift float64
}

// DefaultOptions returns the default metrics.
func DefaultOptions() Options {
	return Options{
		Spacing:        DefaultSpacing,
		HitProbeHeight: DefaultHitProbeHeight,
		HitProbeSlack:  DefaultHitProbeSlack,
		ArrowSize:      DefaultArrowSize,
		ArrowBorder:    DefaultArrowBorder,
		PushRightShift: DefaultPushRightShift,
	}
}

// Geometry is the computed layout, in pixels relative to the panel
// container (which spans the anchor's parent).
type Geometry struct {
	Placement Placement

	// Panel
	PanelRight    float64 // Inset from the container's right edge
	PanelMinWidth float64

	// Arrow and its border, as left offsets
	ArrowLeft       float64
	ArrowBorderLeft float64

	// ContainerOffset is the distance of the container's near edge from
	// the far side of the parent: 100% + spacing.
	ContainerOffset float64

	// Hit-probe box, relative to the container.
	HitProbe geom.Rect
}

// Compute derives the presentation geometry from the anchor and parent box
// metrics. Missing elements yield a zero geometry with only the placement.
func Compute(anchor, parent position.Element, placement Placement, opts Options) Geometry {
	g := Geometry{Placement: placement}
	if anchor == nil || parent == nil {
		return g
	}

	right := parent.OffsetWidth() - anchor.OffsetLeft() - anchor.OffsetWidth()
	if opts.PushRight {
		right -= opts.PushRightShift
	}
	g.PanelRight = right
	g.PanelMinWidth = anchor.OffsetWidth()

	mid := anchor.OffsetWidth()/2 + anchor.OffsetLeft()
	g.ArrowLeft = mid - opts.ArrowSize
	g.ArrowBorderLeft = mid - opts.ArrowBorder

	g.ContainerOffset = parent.OffsetHeight() + opts.Spacing

	// The probe spans the container width and its bottom edge hangs
	// anchor height + spacing + slack below the container bottom, for
	// either placement, so moving between anchor and panel never leaves it.
	reach := anchor.OffsetHeight() + opts.Spacing + opts.HitProbeSlack
	probe := geom.Rect{
		Y:      parent.OffsetHeight() + reach - opts.HitProbeHeight,
		Width:  parent.OffsetWidth(),
		Height: opts.HitProbeHeight,
	}
	g.HitProbe = probe
	return g
}

// ContainerBox returns the panel container box relative to the parent.
func (g Geometry) ContainerBox(parent position.Element) geom.Rect {
	if parent == nil {
		return geom.Rect{}
	}
	box := geom.Rect{Width: parent.OffsetWidth(), Height: parent.OffsetHeight()}
	if g.Placement == PlacementTop {
		box.Y = -g.ContainerOffset
	} else {
		box.Y = g.ContainerOffset
	}
	return box
}

// Mount attaches the panel container under parent and the hit-probe under
// the container, returning both nodes. The probe is what the hover tracker's
// region is resolved from.
func (g Geometry) Mount(parent *position.Node) (container, probe *position.Node) {
	container = position.NewNode("popover-container", g.ContainerBox(parent))
	parent.Append(container)
	probe = position.NewNode("popover-hit-probe", g.HitProbe)
	container.Append(probe)
	return container, probe
}

// PanelBox returns the visible panel box relative to the container for a
// panel of the given content size.
func (g Geometry) PanelBox(container position.Element, width, height float64) geom.Rect {
	if width < g.PanelMinWidth {
		width = g.PanelMinWidth
	}
	box := geom.Rect{Width: width, Height: height}
	if container != nil {
		box.X = container.OffsetWidth() - g.PanelRight - width
		if g.Placement == PlacementTop {
			box.Y = container.OffsetHeight() - height
		}
	}
	return box
}
