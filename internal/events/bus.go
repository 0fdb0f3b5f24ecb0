// Package events carries shop-change notifications between otherwise
// unconnected views. Propagation used to be ad hoc callback threading in the
// old dashboard; here every interested view subscribes once and reconciles its
// own local collection.
package events

import (
	"sync"

	"github.com/kolamarket/shopdesk/pkg/types"
)

// ShopUpdated announces that the server returned a new authoritative copy of a
// shop, typically after a verification transition or an edit.
type ShopUpdated struct {
	Shop types.Shop
}

// Bus is an in-process publish/subscribe fan-out for shop updates.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(ShopUpdated)
}

// NewBus builds an empty bus.
func NewBus() *Bus {
	return &Bus{subs: map[int]func(ShopUpdated){}}
}

// Subscribe registers a handler and returns its idempotent unsubscribe func.
// Handlers run synchronously on the publishing goroutine.
func (b *Bus) Subscribe(fn func(ShopUpdated)) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish delivers the event to every current subscriber.
func (b *Bus) Publish(event ShopUpdated) {
	b.mu.Lock()
	handlers := make([]func(ShopUpdated), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(event)
	}
}
