// Package shopstore holds one view's private, in-memory copy of the shop
// collection and derives its visible subset. Stores are not shared between
// views: two open views may show transiently different data until each
// refreshes, which mirrors the product's accepted design.
package shopstore

import (
	"context"
	"sync"

	"github.com/kolamarket/shopdesk/internal/events"
	"github.com/kolamarket/shopdesk/internal/filter"
	"github.com/kolamarket/shopdesk/pkg/types"
)

// FetchFunc loads the view's collection, e.g. Client.ListShops or
// Client.ListMyShops.
type FetchFunc func(ctx context.Context) ([]types.Shop, error)

// ScopeFunc restricts membership for scoped stores (a pending-review list). A
// shop update failing the scope evicts the shop instead of replacing it.
type ScopeFunc func(types.Shop) bool

// Store is one view's shop collection plus its filter criteria.
type Store struct {
	mu       sync.Mutex
	fetch    FetchFunc
	scope    ScopeFunc
	shops    []types.Shop
	criteria filter.Criteria

	// Fetches are not cancelable mid-flight; a stale response arriving after a
	// newer one must not clobber it. Last successful fetch wins.
	nextSeq    uint64
	appliedSeq uint64

	unsubscribe func()
}

// Option configures optional store behavior.
type Option func(*Store)

// WithScope restricts the store to shops matching the predicate.
func WithScope(scope ScopeFunc) Option {
	return func(s *Store) {
		s.scope = scope
	}
}

// NewStore builds a view store and subscribes it to shop updates.
func NewStore(fetch FetchFunc, bus *events.Bus, opts ...Option) *Store {
	s := &Store{
		fetch:    fetch,
		criteria: filter.Criteria{Range: filter.RangeAll},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if bus != nil {
		s.unsubscribe = bus.Subscribe(s.applyUpdate)
	}
	return s
}

// Close detaches the store from the event bus. Safe to call more than once.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Refresh re-fetches the collection. Concurrent refreshes may finish out of
// order; only the newest successful response is kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	fetch := s.fetch
	s.mu.Unlock()

	shops, err := fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.appliedSeq {
		return nil
	}
	if s.scope != nil {
		scoped := make([]types.Shop, 0, len(shops))
		for _, shop := range shops {
			if s.scope(shop) {
				scoped = append(scoped, shop)
			}
		}
		shops = scoped
	}
	s.shops = shops
	s.appliedSeq = seq
	return nil
}

// applyUpdate reconciles an authoritative shop copy pushed over the bus:
// replacement in place, or eviction when the shop left the store's scope.
func (s *Store) applyUpdate(event events.ShopUpdated) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop := event.Shop
	for i, current := range s.shops {
		if current.ID != shop.ID {
			continue
		}
		if s.scope != nil && !s.scope(shop) {
			s.shops = append(s.shops[:i], s.shops[i+1:]...)
		} else {
			s.shops[i] = shop
		}
		return
	}
}

// Criteria returns the current filter criteria.
func (s *Store) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SetCriteria replaces the criteria wholesale.
func (s *Store) SetCriteria(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// SetState updates the state criterion and resets the dependent LGA criterion,
// whose option set belongs to the previous state.
func (s *Store) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.criteria.State == state {
		return
	}
	s.criteria.State = state
	s.criteria.LGA = filter.All
}

// Len reports the size of the unfiltered collection.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shops)
}

// All returns a copy of the unfiltered collection.
func (s *Store) All() []types.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Shop, len(s.shops))
	copy(out, s.shops)
	return out
}

// Visible derives the subset matching the current criteria, in fetch order.
func (s *Store) Visible() []types.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.shops, s.criteria)
}

// MapPins derives the subset for map rendering: current criteria plus the
// implicit requirement that both coordinates are present.
func (s *Store) MapPins() []types.Shop {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.ApplyMap(s.shops, s.criteria)
}
