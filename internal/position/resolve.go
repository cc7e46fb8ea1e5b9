package position

import "github.com/jmylchreest/popover/internal/geom"

// Element is a read-only view of a positionable node in a layout tree.
// Offsets are relative to the node's offset parent.
type Element interface {
	OffsetLeft() float64
	OffsetTop() float64
	OffsetWidth() float64
	OffsetHeight() float64
	ClientLeft() float64
	ClientTop() float64
	ScrollLeft() float64
	ScrollTop() float64
	// OffsetParent returns the positioning ancestor, or nil at the top of
	// the chain. Implementations must return an untyped nil.
	OffsetParent() Element
	// IsDocumentRoot reports whether this node is the document body.
	IsDocumentRoot() bool
}

// Viewport exposes the root document scroll offsets. Some hosts report page
// scroll on the document rather than on the body node.
type Viewport interface {
	ScrollLeft() float64
	ScrollTop() float64
}

// Resolve returns the absolute rectangle of el. Width and height come from
// el itself; the origin is accumulated over el and every offset parent.
// At the document root a zero scroll offset falls back to vp's scroll.
// A nil element resolves to the zero rectangle. vp may be nil.
func Resolve(el Element, vp Viewport) geom.Rect {
	if el == nil {
		return geom.Rect{}
	}

	var xPos, yPos float64
	width := el.OffsetWidth()
	height := el.OffsetHeight()

	for ; el != nil; el = el.OffsetParent() {
		scrollX := el.ScrollLeft()
		scrollY := el.ScrollTop()
		if el.IsDocumentRoot() && vp != nil {
			if scrollX == 0 {
				scrollX = vp.ScrollLeft()
			}
			if scrollY == 0 {
				scrollY = vp.ScrollTop()
			}
		}

		xPos += el.OffsetLeft() - scrollX + el.ClientLeft()
		yPos += el.OffsetTop() - scrollY + el.ClientTop()
	}

	return geom.Rect{X: xPos, Y: yPos, Width: width, Height: height}
}
