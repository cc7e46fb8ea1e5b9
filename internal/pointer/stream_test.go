package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popover/internal/geom"
)

func TestBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(p geom.Point) { got = append(got, "a") })
	bus.Subscribe(func(p geom.Point) { got = append(got, "b") })
	bus.Publish(geom.Point{X: 1, Y: 2})

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, bus.Len())
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub := bus.Subscribe(func(geom.Point) { calls++ })
	other := bus.Subscribe(func(geom.Point) {})

	sub.Unsubscribe()
	sub.Unsubscribe()
	bus.Publish(geom.Point{})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, bus.Len())

	other.Unsubscribe()
	assert.Equal(t, 0, bus.Len())
}

func TestBus_HandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus()
	calls := 0
	var sub Subscription
	sub = bus.Subscribe(func(geom.Point) {
		calls++
		sub.Unsubscribe()
	})

	bus.Publish(geom.Point{})
	bus.Publish(geom.Point{})
	require.Equal(t, 1, calls)
}

func TestBus_DeliversSample(t *testing.T) {
	bus := NewBus()
	var got geom.Point
	bus.Subscribe(func(p geom.Point) { got = p })
	bus.Publish(geom.Point{X: 12.5, Y: -3})
	assert.Equal(t, geom.Point{X: 12.5, Y: -3}, got)
}
