package hover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popover/internal/debounce"
	"github.com/jmylchreest/popover/internal/geom"
	"github.com/jmylchreest/popover/internal/pointer"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	clock   *debounce.ManualClock
	bus     *pointer.Bus
	cell    *RegionCell
	tracker *Tracker
	outside []geom.Point
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		clock: debounce.NewManualClock(epoch),
		bus:   pointer.NewBus(),
		cell:  &RegionCell{},
	}
	base := []Option{WithClock(h.clock), WithStream(h.bus)}
	h.tracker = NewTracker(func(p geom.Point) {
		h.outside = append(h.outside, p)
	}, h.cell.Get, append(base, opts...)...)
	return h
}

func TestTracker_DismissesOutsideAfterQuietPeriod(t *testing.T) {
	h := newHarness(t)
	h.cell.Set(geom.Rect{X: 10, Y: 10, Width: 100, Height: 50})
	h.tracker.Start()
	require.Equal(t, StateTracking, h.tracker.State())

	h.bus.Publish(geom.Point{X: 50, Y: 30})
	h.clock.Advance(10 * time.Millisecond)
	h.bus.Publish(geom.Point{X: 200, Y: 30})

	h.clock.Advance(249 * time.Millisecond)
	assert.Empty(t, h.outside)

	h.clock.Advance(time.Millisecond)
	require.Len(t, h.outside, 1)
	assert.Equal(t, geom.Point{X: 200, Y: 30}, h.outside[0])
}

func TestTracker_InsideNeverDismisses(t *testing.T) {
	h := newHarness(t)
	h.cell.Set(geom.Rect{X: 10, Y: 10, Width: 100, Height: 50})
	h.tracker.Start()

	for i := 0; i < 100; i++ {
		h.bus.Publish(geom.Point{X: 10 + float64(i%99), Y: 10 + float64(i%49)})
		h.clock.Advance(10 * time.Millisecond)
	}
	h.clock.Advance(time.Second)

	assert.Empty(t, h.outside)
	s := h.tracker.Session()
	require.NotNil(t, s)
	assert.Equal(t, 100, s.Samples)
	assert.GreaterOrEqual(t, s.Checks, 2)
	assert.Equal(t, 0, s.Dismissals)
}

func TestTracker_RepeatedOutsideTicksEachDismiss(t *testing.T) {
	h := newHarness(t)
	h.cell.Set(geom.Rect{Width: 10, Height: 10})
	h.tracker.Start()

	h.bus.Publish(geom.Point{X: 50, Y: 50})
	h.clock.Advance(300 * time.Millisecond)
	h.bus.Publish(geom.Point{X: 60, Y: 60})
	h.clock.Advance(300 * time.Millisecond)

	assert.Len(t, h.outside, 2)
	assert.Equal(t, 2, h.tracker.Session().Dismissals)
}

func TestTracker_SuppressedUntilRegionKnown(t *testing.T) {
	h := newHarness(t)
	h.tracker.Start()

	for _, p := range []geom.Point{{X: -1000, Y: -1000}, {X: 0, Y: 0}, {X: 1e6, Y: 1e6}} {
		assert.False(t, h.tracker.Check(p))
		h.bus.Publish(p)
		h.clock.Advance(time.Second)
	}
	assert.Empty(t, h.outside)

	// Once established, the same kind of sample dismisses.
	h.cell.Set(geom.Rect{Width: 10, Height: 10})
	assert.True(t, h.tracker.Check(geom.Point{X: 1e6, Y: 1e6}))
	assert.Len(t, h.outside, 1)
}

func TestTracker_NilProviderNeverDismisses(t *testing.T) {
	called := false
	tr := NewTracker(func(geom.Point) { called = true }, nil)
	assert.False(t, tr.Check(geom.Point{X: 1, Y: 1}))
	assert.False(t, called)
}

func TestTracker_StopCancelsPendingCheck(t *testing.T) {
	h := newHarness(t)
	h.cell.Set(geom.Rect{Width: 10, Height: 10})
	h.tracker.Start()

	h.bus.Publish(geom.Point{X: 500, Y: 500})
	h.tracker.Stop()
	h.clock.Advance(5 * time.Second)

	assert.Empty(t, h.outside)
	assert.Equal(t, 0, h.bus.Len())
	assert.Equal(t, 0, h.clock.Pending())

	// Samples after stop are not observed either.
	h.bus.Publish(geom.Point{X: 500, Y: 500})
	h.clock.Advance(5 * time.Second)
	assert.Empty(t, h.outside)
}

func TestTracker_StopIsIdempotent(t *testing.T) {
	h := newHarness(t)

	assert.NotPanics(t, h.tracker.Stop)
	assert.Equal(t, StateIdle, h.tracker.State())

	h.tracker.Start()
	h.tracker.Stop()
	assert.NotPanics(t, h.tracker.Stop)
	assert.Equal(t, StateIdle, h.tracker.State())
	assert.Nil(t, h.tracker.Session())
}

func TestTracker_NonHoverDeviceStaysIdle(t *testing.T) {
	for _, c := range []pointer.Capability{pointer.Coarse, pointer.None} {
		t.Run(c.String(), func(t *testing.T) {
			h := newHarness(t, WithClassifier(pointer.Static(c)))
			h.cell.Set(geom.Rect{Width: 10, Height: 10})

			h.tracker.Start()
			assert.Equal(t, StateIdle, h.tracker.State())
			assert.Equal(t, 0, h.bus.Len())

			h.bus.Publish(geom.Point{X: 100, Y: 100})
			h.clock.Advance(time.Second)
			assert.Empty(t, h.outside)

			assert.NotPanics(t, h.tracker.Stop)
		})
	}
}

func TestTracker_NoStreamStaysIdle(t *testing.T) {
	tr := NewTracker(func(geom.Point) {}, (&RegionCell{}).Get)
	tr.Start()
	assert.Equal(t, StateIdle, tr.State())
	tr.Stop()
}

func TestTracker_StopFromCallback(t *testing.T) {
	clock := debounce.NewManualClock(epoch)
	bus := pointer.NewBus()
	cell := &RegionCell{}
	cell.Set(geom.Rect{Width: 10, Height: 10})

	calls := 0
	var tr *Tracker
	tr = NewTracker(func(geom.Point) {
		calls++
		tr.Stop()
	}, cell.Get, WithClock(clock), WithStream(bus))
	tr.Start()

	bus.Publish(geom.Point{X: 50, Y: 50})
	clock.Advance(time.Second)
	bus.Publish(geom.Point{X: 50, Y: 50})
	clock.Advance(time.Second)

	assert.Equal(t, 1, calls)
	assert.Equal(t, StateIdle, tr.State())
}

func TestTracker_StopDuringCheckSuppressesDismissal(t *testing.T) {
	clock := debounce.NewManualClock(epoch)
	bus := pointer.NewBus()
	cell := &RegionCell{}
	cell.Set(geom.Rect{Width: 10, Height: 10})

	var tr *Tracker
	restart := false
	calls := 0
	// The provider runs after the debouncer has committed to the check,
	// which is where a real timer can race with Stop.
	provider := func() (geom.Rect, bool) {
		tr.Stop()
		if restart {
			tr.Start()
		}
		return cell.Get()
	}
	tr = NewTracker(func(geom.Point) { calls++ }, provider, WithClock(clock), WithStream(bus))

	tr.Start()
	bus.Publish(geom.Point{X: 50, Y: 50})
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls, "stopped")
	assert.Equal(t, StateIdle, tr.State())

	restart = true
	tr.Start()
	bus.Publish(geom.Point{X: 50, Y: 50})
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls, "restarted with a new session")
	assert.Equal(t, StateTracking, tr.State())
	assert.Equal(t, 0, tr.Session().Dismissals)
}

func TestTracker_RestartReplacesSubscription(t *testing.T) {
	h := newHarness(t)
	h.cell.Set(geom.Rect{Width: 10, Height: 10})

	h.tracker.Start()
	first := h.tracker.Session()
	h.clock.Advance(time.Millisecond)
	h.tracker.Start()
	second := h.tracker.Session()

	assert.Equal(t, 1, h.bus.Len())
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, second.ID, 26)

	h.bus.Publish(geom.Point{X: 50, Y: 50})
	h.clock.Advance(time.Second)
	assert.Len(t, h.outside, 1)
}

func TestTracker_CustomTimings(t *testing.T) {
	h := newHarness(t, WithWait(50*time.Millisecond), WithMaxWait(80*time.Millisecond))
	h.cell.Set(geom.Rect{Width: 10, Height: 10})
	h.tracker.Start()

	h.bus.Publish(geom.Point{X: 20, Y: 20})
	h.clock.Advance(50 * time.Millisecond)
	assert.Len(t, h.outside, 1)
}

func TestRegionCell(t *testing.T) {
	var c RegionCell
	_, ok := c.Get()
	assert.False(t, ok)

	c.Set(geom.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	r, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, geom.Rect{X: 1, Y: 2, Width: 3, Height: 4}, r)

	c.Clear()
	_, ok = c.Get()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "tracking", StateTracking.String())
}
