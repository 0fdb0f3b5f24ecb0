// Package notify surfaces shops awaiting review without anyone clicking
// refresh. A background poller re-fetches the collection on a fixed cadence
// and reports the pending snapshot, flagging shops seen for the first time.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kolamarket/shopdesk/internal/events"
	"github.com/kolamarket/shopdesk/pkg/enums"
	"github.com/kolamarket/shopdesk/pkg/logger"
	"github.com/kolamarket/shopdesk/pkg/types"
)

// DefaultInterval is the polling cadence when configuration supplies none.
const DefaultInterval = 30 * time.Second

// FetchFunc loads the full shop collection the poller scans for pending
// entries.
type FetchFunc func(ctx context.Context) ([]types.Shop, error)

// Snapshot is one poll's result. Fresh holds the shops that were not pending
// on any earlier poll of this poller's lifetime.
type Snapshot struct {
	Pending []types.Shop
	Fresh   []types.Shop
}

// PendingPoller periodically re-fetches shops and reports the pending subset.
type PendingPoller struct {
	fetch    FetchFunc
	interval time.Duration
	onUpdate func(Snapshot)
	logg     *logger.Logger

	// seen tracks shop IDs already reported as pending, so Fresh only ever
	// carries true arrivals. pending is the last snapshot's pending set:
	// verification updates pushed over the bus between polls drop the shop
	// from it and notify the consumer immediately instead of waiting a full
	// cycle.
	mu      sync.Mutex
	seen    map[int64]bool
	pending []types.Shop

	unsubscribe func()
}

type PollerParams struct {
	Fetch    FetchFunc
	Interval time.Duration
	OnUpdate func(Snapshot)
	Bus      *events.Bus
	Logger   *logger.Logger
}

// NewPendingPoller wires a poller. The bus is optional; when present, shops
// verified or rejected elsewhere drop out of the pending set between polls.
func NewPendingPoller(params PollerParams) (*PendingPoller, error) {
	if params.Fetch == nil {
		return nil, fmt.Errorf("fetch func required")
	}
	if params.OnUpdate == nil {
		return nil, fmt.Errorf("update callback required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &PendingPoller{
		fetch:    params.Fetch,
		interval: interval,
		onUpdate: params.OnUpdate,
		logg:     params.Logger,
		seen:     map[int64]bool{},
	}
	if params.Bus != nil {
		p.unsubscribe = params.Bus.Subscribe(p.applyUpdate)
	}
	return p, nil
}

// Run polls immediately, then on every interval tick until the context is
// canceled. A failed poll is logged and skipped; the cadence continues.
func (p *PendingPoller) Run(ctx context.Context) {
	p.logg.Info(ctx, fmt.Sprintf("pending poller started, interval %s", p.interval))
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logg.Info(ctx, "pending poller stopped")
			if p.unsubscribe != nil {
				p.unsubscribe()
			}
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *PendingPoller) poll(ctx context.Context) {
	shops, err := p.fetch(ctx)
	if err != nil {
		p.logg.Error(ctx, "pending poll failed", err)
		return
	}

	snapshot := Snapshot{}
	p.mu.Lock()
	for _, shop := range shops {
		if shop.VerificationStatus != enums.VerificationPending {
			continue
		}
		snapshot.Pending = append(snapshot.Pending, shop)
		if !p.seen[shop.ID] {
			p.seen[shop.ID] = true
			snapshot.Fresh = append(snapshot.Fresh, shop)
		}
	}
	// The consumer keeps its snapshot; track our own copy of the pending set
	// so bus-driven removals cannot shuffle a slice the consumer is reading.
	p.pending = make([]types.Shop, len(snapshot.Pending))
	copy(p.pending, snapshot.Pending)
	p.mu.Unlock()
	p.onUpdate(snapshot)
}

// applyUpdate reconciles a shop update pushed over the bus. A shop reviewed
// elsewhere leaves the pending set right away: the consumer gets an updated
// snapshot instead of watching a stale entry until the next tick.
func (p *PendingPoller) applyUpdate(event events.ShopUpdated) {
	if event.Shop.VerificationStatus == enums.VerificationPending {
		return
	}

	p.mu.Lock()
	delete(p.seen, event.Shop.ID)
	dropped := false
	for i, shop := range p.pending {
		if shop.ID == event.Shop.ID {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			dropped = true
			break
		}
	}
	var remaining []types.Shop
	if dropped {
		remaining = make([]types.Shop, len(p.pending))
		copy(remaining, p.pending)
	}
	p.mu.Unlock()

	if dropped {
		p.onUpdate(Snapshot{Pending: remaining})
	}
}
