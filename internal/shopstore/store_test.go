package shopstore

import (
	"context"
	"testing"

	"github.com/kolamarket/shopdesk/internal/events"
	"github.com/kolamarket/shopdesk/internal/filter"
	"github.com/kolamarket/shopdesk/pkg/enums"
	"github.com/kolamarket/shopdesk/pkg/types"
)

func staticFetch(shops ...types.Shop) FetchFunc {
	return func(context.Context) ([]types.Shop, error) {
		return shops, nil
	}
}

func pending(id int64, name string) types.Shop {
	return types.Shop{ID: id, Name: name, VerificationStatus: enums.VerificationPending}
}

func TestRefreshLoadsCollection(t *testing.T) {
	store := NewStore(staticFetch(pending(1, "A"), pending(2, "B")), events.NewBus())
	defer store.Close()

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
}

func TestStaleResponseNeverClobbersNewerOne(t *testing.T) {
	// Two overlapping refreshes: the one started first finishes last. Its
	// response is stale and must be dropped.
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	calls := 0
	fetch := func(ctx context.Context) ([]types.Shop, error) {
		calls++
		if calls == 1 {
			close(firstStarted)
			<-releaseFirst
			return []types.Shop{pending(1, "stale")}, nil
		}
		return []types.Shop{pending(2, "current")}, nil
	}

	store := NewStore(fetch, events.NewBus())
	defer store.Close()

	done := make(chan error, 1)
	go func() {
		done <- store.Refresh(context.Background())
	}()
	<-firstStarted

	// The second refresh starts after the first and completes immediately.
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	close(releaseFirst)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}

	all := store.All()
	if len(all) != 1 || all[0].Name != "current" {
		t.Fatalf("stale response won: %+v", all)
	}
}

func TestBusUpdateReplacesInPlace(t *testing.T) {
	bus := events.NewBus()
	store := NewStore(staticFetch(pending(1, "A"), pending(2, "B"), pending(3, "C")), bus)
	defer store.Close()
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	updated := pending(2, "B")
	updated.VerificationStatus = enums.VerificationVerified
	bus.Publish(events.ShopUpdated{Shop: updated})

	all := store.All()
	if len(all) != 3 {
		t.Fatalf("Len = %d, want 3", len(all))
	}
	if all[1].ID != 2 || all[1].VerificationStatus != enums.VerificationVerified {
		t.Fatalf("shop 2 not replaced in place: %+v", all[1])
	}
}

func TestBusUpdateForUnknownShopIsIgnored(t *testing.T) {
	bus := events.NewBus()
	store := NewStore(staticFetch(pending(1, "A")), bus)
	defer store.Close()
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	bus.Publish(events.ShopUpdated{Shop: pending(99, "elsewhere")})
	if store.Len() != 1 {
		t.Fatalf("unknown shop was inserted, Len = %d", store.Len())
	}
}

func TestScopedStoreEvictsOnScopeExit(t *testing.T) {
	bus := events.NewBus()
	isPending := func(s types.Shop) bool { return s.VerificationStatus == enums.VerificationPending }
	store := NewStore(
		staticFetch(pending(1, "A"), pending(2, "B")),
		bus,
		WithScope(isPending),
	)
	defer store.Close()
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	verified := pending(1, "A")
	verified.VerificationStatus = enums.VerificationVerified
	bus.Publish(events.ShopUpdated{Shop: verified})

	all := store.All()
	if len(all) != 1 || all[0].ID != 2 {
		t.Fatalf("verified shop not evicted from pending scope: %+v", all)
	}
}

func TestScopedRefreshFiltersFetchResult(t *testing.T) {
	verified := types.Shop{ID: 3, VerificationStatus: enums.VerificationVerified}
	isPending := func(s types.Shop) bool { return s.VerificationStatus == enums.VerificationPending }
	store := NewStore(staticFetch(pending(1, "A"), verified, pending(2, "B")), events.NewBus(), WithScope(isPending))
	defer store.Close()

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (scope must drop the verified shop)", store.Len())
	}
}

func TestSetStateResetsLGACriterion(t *testing.T) {
	store := NewStore(staticFetch(), events.NewBus())
	defer store.Close()

	store.SetCriteria(filter.Criteria{State: "Lagos", LGA: "Ikeja", Range: filter.RangeAll})
	store.SetState("Lagos")
	if got := store.Criteria().LGA; got != "Ikeja" {
		t.Fatalf("re-selecting the same state cleared the LGA: %q", got)
	}

	store.SetState("Kano")
	c := store.Criteria()
	if c.State != "Kano" || c.LGA != filter.All {
		t.Fatalf("criteria after state change: %+v", c)
	}
}

func TestVisibleAppliesCriteria(t *testing.T) {
	shops := []types.Shop{
		{ID: 1, State: "Lagos", VerificationStatus: enums.VerificationPending},
		{ID: 2, State: "Kano", VerificationStatus: enums.VerificationPending},
	}
	store := NewStore(staticFetch(shops...), events.NewBus())
	defer store.Close()
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	store.SetCriteria(filter.Criteria{State: "Kano", Range: filter.RangeAll})
	visible := store.Visible()
	if len(visible) != 1 || visible[0].ID != 2 {
		t.Fatalf("Visible = %+v", visible)
	}
	if store.Len() != 2 {
		t.Fatal("criteria must not shrink the underlying collection")
	}
}

func TestMapPinsRequireCoordinates(t *testing.T) {
	lat, lng := 6.5, 3.4
	shops := []types.Shop{
		{ID: 1, Latitude: &lat, Longitude: &lng, VerificationStatus: enums.VerificationPending},
		{ID: 2, VerificationStatus: enums.VerificationPending},
	}
	store := NewStore(staticFetch(shops...), events.NewBus())
	defer store.Close()
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	pins := store.MapPins()
	if len(pins) != 1 || pins[0].ID != 1 {
		t.Fatalf("MapPins = %+v", pins)
	}
}

func TestCloseDetachesFromBus(t *testing.T) {
	bus := events.NewBus()
	store := NewStore(staticFetch(pending(1, "A")), bus)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	store.Close()

	updated := pending(1, "A")
	updated.Name = "renamed"
	bus.Publish(events.ShopUpdated{Shop: updated})

	if got := store.All()[0].Name; got != "A" {
		t.Fatalf("closed store still received updates: %q", got)
	}
}
