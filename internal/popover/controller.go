package popover

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/jmylchreest/popover/internal/display"
	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/hover"
	"github.com/jmylchreest/popover/internal/position"
)

// CloseFunc receives close requests. It may be called more than once per
// open cycle; hosts should treat repeated requests as no-ops.
type CloseFunc func(reason Reason, at geom.Point)

// Config describes the elements a popover is attached to.
type Config struct {
	// Anchor is the element the popover points at.
	Anchor *position.Node
	// Parent is the positioned ancestor the panel container spans.
	Parent *position.Node
	// Viewport supplies page scroll offsets. May be nil.
	Viewport position.Viewport

	Placement display.Placement
	// Display holds presentation metrics. The zero value means
	// display.DefaultOptions().
	Display display.Options

	// PanelWidth and PanelHeight size the visible panel content.
	PanelWidth  float64
	PanelHeight float64
}

// ErrNoAnchor is returned by New when the config lacks an anchor or parent.
var ErrNoAnchor = errors.New("popover requires an anchor and a parent element")

// Controller owns one popover instance: at most one open cycle at a time.
type Controller struct {
	cfg     Config
	onClose CloseFunc
	logger  *slog.Logger

	region  hover.RegionCell
	tracker *hover.Tracker

	mu        sync.Mutex
	open      bool
	geometry  display.Geometry
	container *position.Node
	probe     *position.Node
	panel     geom.Rect
}

// New creates a closed controller. Tracker options (stream, classifier,
// clock, timings) are passed through to the hover tracker.
func New(cfg Config, onClose CloseFunc, logger *slog.Logger, opts ...hover.Option) (*Controller, error) {
	if cfg.Anchor == nil || cfg.Parent == nil {
		return nil, ErrNoAnchor
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Placement == "" {
		cfg.Placement = display.PlacementBottom
	}
	if cfg.Display == (display.Options{}) {
		cfg.Display = display.DefaultOptions()
	}

	c := &Controller{
		cfg:     cfg,
		onClose: onClose,
		logger:  logger,
	}
	opts = append([]hover.Option{hover.WithLogger(logger)}, opts...)
	c.tracker = hover.NewTracker(c.pointerLeft, c.region.Get, opts...)
	return c, nil
}

// Open mounts the panel container and hit-probe, resolves the hit-region
// and starts hover tracking. Opening an open controller does nothing.
func (c *Controller) Open() {
	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		return
	}
	c.open = true
	c.geometry = display.Compute(c.cfg.Anchor, c.cfg.Parent, c.cfg.Placement, c.cfg.Display)
	c.container, c.probe = c.geometry.Mount(c.cfg.Parent)
	c.resolveLocked()
	c.mu.Unlock()

	c.tracker.Start()
	c.logger.Debug("popover opened",
		"anchor", c.cfg.Anchor.ID,
		"placement", string(c.cfg.Placement),
	)
}

// Close stops tracking and unmounts the container. Idempotent.
func (c *Controller) Close() {
	c.tracker.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.open = false
	c.region.Clear()
	if c.container != nil {
		c.container.Detach()
	}
	c.container, c.probe = nil, nil
	c.panel = geom.Rect{}
	c.logger.Debug("popover closed", "anchor", c.cfg.Anchor.ID)
}

// Invalidate re-resolves the hit-region and panel box after the anchor or
// its ancestors moved or scrolled. No-op while closed.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return
	}
	c.resolveLocked()
}

func (c *Controller) resolveLocked() {
	region := position.Resolve(c.probe, c.cfg.Viewport)
	c.region.Set(region)

	local := c.geometry.PanelBox(c.container, c.cfg.PanelWidth, c.cfg.PanelHeight)
	origin := position.Resolve(c.container, c.cfg.Viewport)
	c.panel = geom.Rect{
		X:      origin.X + local.X,
		Y:      origin.Y + local.Y,
		Width:  local.Width,
		Height: local.Height,
	}
	c.logger.Debug("hit-region resolved", "region", region.String(), "panel", c.panel.String())
}

// OutsideClick reports a click at p. While open, a click outside the panel,
// the anchor and the hit-region requests a close.
func (c *Controller) OutsideClick(p geom.Point) bool {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return false
	}
	panel := c.panel
	anchor := position.Resolve(c.cfg.Anchor, c.cfg.Viewport)
	c.mu.Unlock()

	if panel.Contains(p) || anchor.Contains(p) {
		return false
	}
	if region, ok := c.region.Get(); ok && region.Contains(p) {
		return false
	}
	c.requestClose(ReasonOutsideClick, p)
	return true
}

func (c *Controller) pointerLeft(p geom.Point) {
	c.requestClose(ReasonPointerLeft, p)
}

func (c *Controller) requestClose(reason Reason, p geom.Point) {
	c.logger.Debug("close requested", "reason", reason.String(), "point", p.String())
	if c.onClose != nil {
		c.onClose(reason, p)
	}
}

// IsOpen reports whether the popover is open.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// HitRegion returns the resolved hit-region, if established.
func (c *Controller) HitRegion() (geom.Rect, bool) {
	return c.region.Get()
}

// Panel returns the visible panel rectangle in document space.
func (c *Controller) Panel() geom.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// Geometry returns the presentation geometry of the current open cycle.
func (c *Controller) Geometry() display.Geometry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.geometry
}

// Anchor returns the anchor element.
func (c *Controller) Anchor() *position.Node {
	return c.cfg.Anchor
}

// Tracker returns the hover tracker.
func (c *Controller) Tracker() *hover.Tracker {
	return c.tracker
}
