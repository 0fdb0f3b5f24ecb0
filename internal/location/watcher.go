// Package location acquires the operator's device position for pinning a shop
// on the map. Acquisition is slow and flaky on real devices, so the watcher
// layers two timeouts over the provider: a soft one that warns the user the
// fix is taking long, and a hard one that abandons the attempt entirely.
package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
)

// Coordinates is one position fix.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	// AccuracyMeters is the provider's error radius; 0 when unknown.
	AccuracyMeters float64
}

// Provider produces position fixes. Implementations must honor context
// cancellation; the watcher cancels them on teardown and on the hard timeout.
type Provider interface {
	Locate(ctx context.Context) (Coordinates, error)
}

const (
	defaultSoftTimeout = 15 * time.Second
	defaultHardTimeout = 20 * time.Second
)

// Watcher runs at most one acquisition attempt at a time.
type Watcher struct {
	provider Provider
	soft     time.Duration
	hard     time.Duration
	onSlow   func()
	onResult func(Coordinates, error)
	logg     *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

type WatcherParams struct {
	Provider Provider
	// SoftTimeout triggers the slow-acquisition warning; zero means 15s.
	SoftTimeout time.Duration
	// HardTimeout abandons the attempt; zero means 20s.
	HardTimeout time.Duration
	// OnSlow fires once per attempt when the soft timeout elapses. Optional.
	OnSlow func()
	// OnResult receives the fix or the terminal error, exactly once per attempt.
	OnResult func(Coordinates, error)
	Logger   *logger.Logger
}

// NewWatcher wires a watcher around the provider.
func NewWatcher(params WatcherParams) (*Watcher, error) {
	if params.Provider == nil {
		return nil, fmt.Errorf("location provider required")
	}
	if params.OnResult == nil {
		return nil, fmt.Errorf("result callback required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	soft := params.SoftTimeout
	if soft <= 0 {
		soft = defaultSoftTimeout
	}
	hard := params.HardTimeout
	if hard <= 0 {
		hard = defaultHardTimeout
	}
	if hard < soft {
		return nil, fmt.Errorf("hard timeout %s must not precede soft timeout %s", hard, soft)
	}
	return &Watcher{
		provider: params.Provider,
		soft:     soft,
		hard:     hard,
		onSlow:   params.OnSlow,
		onResult: params.OnResult,
		logg:     params.Logger,
	}, nil
}

// Start begins an acquisition attempt. A second Start while one is in flight
// is a no-op; the first attempt keeps running.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return
	}
	attemptCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.mu.Unlock()

	go w.acquire(attemptCtx)
}

// Cancel tears down the in-flight attempt, if any. Idempotent.
func (w *Watcher) Cancel() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Active reports whether an attempt is in flight.
func (w *Watcher) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancel != nil
}

func (w *Watcher) acquire(ctx context.Context) {
	defer w.finish()

	type result struct {
		coords Coordinates
		err    error
	}
	results := make(chan result, 1)
	go func() {
		coords, err := w.provider.Locate(ctx)
		results <- result{coords: coords, err: err}
	}()

	softTimer := time.NewTimer(w.soft)
	defer softTimer.Stop()
	hardTimer := time.NewTimer(w.hard)
	defer hardTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-softTimer.C:
			w.logg.Warn(ctx, "location fix is taking longer than expected")
			if w.onSlow != nil {
				w.onSlow()
			}
		case <-hardTimer.C:
			w.logg.Warn(ctx, "location fix abandoned after hard timeout")
			w.onResult(Coordinates{}, pkgerrors.New(
				pkgerrors.CodeUnavailable,
				"could not determine your location, drag the map pin manually",
			))
			return
		case res := <-results:
			if res.err != nil {
				if ctx.Err() != nil {
					return
				}
				w.onResult(Coordinates{}, res.err)
				return
			}
			w.onResult(res.coords, nil)
			return
		}
	}
}

func (w *Watcher) finish() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
