package pointer

import (
	"sync"

	"github.com/jmylchreest/popover/internal/geom"
)

// Handler receives pointer samples.
type Handler func(geom.Point)

// Subscription is returned by Subscribe. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

// Stream is a source of pointer-movement samples in document coordinates.
type Stream interface {
	Subscribe(h Handler) Subscription
}

// Bus is an in-process Stream. Hosts feed it with Publish.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]Handler
	order    []uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h. Handlers are called in subscription order.
func (b *Bus) Subscribe(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers[id] = h
	b.order = append(b.order, id)
	return &busSubscription{bus: b, id: id}
}

// Publish delivers p to every current subscriber. Handlers run outside the
// bus lock, so they may subscribe or unsubscribe.
func (b *Bus) Publish(p geom.Point) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		handlers = append(handlers, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(p)
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.handlers[id]; !ok {
		return
	}
	delete(b.handlers, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

type busSubscription struct {
	bus  *Bus
	id   uint64
	once sync.Once
}

func (s *busSubscription) Unsubscribe() {
	s.once.Do(func() { s.bus.remove(s.id) })
}
