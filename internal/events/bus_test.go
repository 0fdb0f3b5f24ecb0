package events

import (
	"testing"

	"github.com/kolamarket/shopdesk/pkg/types"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	bus := NewBus()
	var first, second []int64
	bus.Subscribe(func(e ShopUpdated) { first = append(first, e.Shop.ID) })
	bus.Subscribe(func(e ShopUpdated) { second = append(second, e.Shop.ID) })

	bus.Publish(ShopUpdated{Shop: types.Shop{ID: 1}})
	bus.Publish(ShopUpdated{Shop: types.Shop{ID: 2}})

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("deliveries: first=%v second=%v", first, second)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()
	got := 0
	unsubscribe := bus.Subscribe(func(ShopUpdated) { got++ })

	bus.Publish(ShopUpdated{Shop: types.Shop{ID: 1}})
	unsubscribe()
	bus.Publish(ShopUpdated{Shop: types.Shop{ID: 2}})

	if got != 1 {
		t.Fatalf("deliveries after unsubscribe: got %d, want 1", got)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBus()
	kept := 0
	bus.Subscribe(func(ShopUpdated) { kept++ })
	unsubscribe := bus.Subscribe(func(ShopUpdated) {})

	unsubscribe()
	unsubscribe() // must not remove anyone else

	bus.Publish(ShopUpdated{Shop: types.Shop{ID: 1}})
	if kept != 1 {
		t.Fatalf("remaining subscriber deliveries: got %d, want 1", kept)
	}
}

func TestNilHandlerIsRejected(t *testing.T) {
	bus := NewBus()
	unsubscribe := bus.Subscribe(nil)
	unsubscribe()
	bus.Publish(ShopUpdated{Shop: types.Shop{ID: 1}})
}
