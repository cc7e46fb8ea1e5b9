package hover

import (
	"sync"

	"github.com/jmylchreest/popover/internal/geom"
)

// RegionProvider returns the current hit-region. ok is false while the
// region has not been established yet.
type RegionProvider func() (r geom.Rect, ok bool)

// RegionCell holds the hit-region shared between a host and its tracker.
// The host writes it; the tracker only reads it through Get.
type RegionCell struct {
	mu    sync.RWMutex
	rect  geom.Rect
	isSet bool
}

// Set stores r as the current hit-region.
func (c *RegionCell) Set(r geom.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rect = r
	c.isSet = true
}

// Clear marks the region as unset.
func (c *RegionCell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rect = geom.Rect{}
	c.isSet = false
}

// Get implements RegionProvider.
func (c *RegionCell) Get() (geom.Rect, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rect, c.isSet
}
