package location

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// stubProvider delivers after a fixed delay, or blocks until canceled when the
// delay is negative.
type stubProvider struct {
	delay  time.Duration
	coords Coordinates
	err    error
	calls  atomic.Int32
}

func (p *stubProvider) Locate(ctx context.Context) (Coordinates, error) {
	p.calls.Add(1)
	if p.delay < 0 {
		<-ctx.Done()
		return Coordinates{}, ctx.Err()
	}
	select {
	case <-ctx.Done():
		return Coordinates{}, ctx.Err()
	case <-time.After(p.delay):
	}
	return p.coords, p.err
}

type watchResult struct {
	coords Coordinates
	err    error
}

func newTestWatcher(t *testing.T, provider Provider, soft, hard time.Duration, onSlow func()) (*Watcher, chan watchResult) {
	t.Helper()
	results := make(chan watchResult, 1)
	w, err := NewWatcher(WatcherParams{
		Provider:    provider,
		SoftTimeout: soft,
		HardTimeout: hard,
		OnSlow:      onSlow,
		OnResult: func(coords Coordinates, err error) {
			results <- watchResult{coords: coords, err: err}
		},
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	return w, results
}

func waitResult(t *testing.T, results chan watchResult) watchResult {
	t.Helper()
	select {
	case res := <-results:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the watcher")
		return watchResult{}
	}
}

func TestFastFixIsDelivered(t *testing.T) {
	provider := &stubProvider{coords: Coordinates{Latitude: 6.45, Longitude: 3.39, AccuracyMeters: 12}}
	w, results := newTestWatcher(t, provider, 100*time.Millisecond, 200*time.Millisecond, nil)

	w.Start(context.Background())
	res := waitResult(t, results)
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.coords.Latitude != 6.45 || res.coords.Longitude != 3.39 {
		t.Fatalf("coords = %+v", res.coords)
	}
}

func TestProviderErrorIsDelivered(t *testing.T) {
	provider := &stubProvider{err: errors.New("gps unavailable")}
	w, results := newTestWatcher(t, provider, 100*time.Millisecond, 200*time.Millisecond, nil)

	w.Start(context.Background())
	res := waitResult(t, results)
	if res.err == nil || res.err.Error() != "gps unavailable" {
		t.Fatalf("err = %v", res.err)
	}
}

func TestSoftTimeoutWarnsButKeepsWaiting(t *testing.T) {
	slow := make(chan struct{}, 1)
	provider := &stubProvider{delay: 60 * time.Millisecond, coords: Coordinates{Latitude: 1, Longitude: 2}}
	w, results := newTestWatcher(t, provider, 20*time.Millisecond, 500*time.Millisecond, func() {
		slow <- struct{}{}
	})

	w.Start(context.Background())
	select {
	case <-slow:
	case <-time.After(2 * time.Second):
		t.Fatal("soft timeout warning never fired")
	}

	// The attempt survives the warning and still delivers.
	res := waitResult(t, results)
	if res.err != nil || res.coords.Latitude != 1 {
		t.Fatalf("res = %+v", res)
	}
}

func TestHardTimeoutAbandonsAttempt(t *testing.T) {
	provider := &stubProvider{delay: -1}
	w, results := newTestWatcher(t, provider, 10*time.Millisecond, 30*time.Millisecond, nil)

	w.Start(context.Background())
	res := waitResult(t, results)
	if res.err == nil {
		t.Fatal("expected a timeout error")
	}
	typed := pkgerrors.As(res.err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnavailable {
		t.Fatalf("err = %v", res.err)
	}

	// The watcher is idle again after giving up.
	deadline := time.Now().Add(time.Second)
	for w.Active() {
		if time.Now().After(deadline) {
			t.Fatal("watcher still active after hard timeout")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSecondStartWhileInFlightIsNoOp(t *testing.T) {
	provider := &stubProvider{delay: 50 * time.Millisecond, coords: Coordinates{Latitude: 1}}
	w, results := newTestWatcher(t, provider, 200*time.Millisecond, 400*time.Millisecond, nil)

	ctx := context.Background()
	w.Start(ctx)
	w.Start(ctx)
	w.Start(ctx)

	waitResult(t, results)
	if got := provider.calls.Load(); got != 1 {
		t.Fatalf("provider called %d times, want 1", got)
	}
}

func TestCancelIsIdempotentAndSilent(t *testing.T) {
	provider := &stubProvider{delay: -1}
	w, results := newTestWatcher(t, provider, 100*time.Millisecond, 200*time.Millisecond, nil)

	w.Start(context.Background())
	w.Cancel()
	w.Cancel()

	select {
	case res := <-results:
		t.Fatalf("canceled attempt still reported: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}
	if w.Active() {
		t.Fatal("watcher still active after cancel")
	}
}

func TestStartAfterFinishBeginsNewAttempt(t *testing.T) {
	provider := &stubProvider{coords: Coordinates{Latitude: 1}}
	w, results := newTestWatcher(t, provider, 100*time.Millisecond, 200*time.Millisecond, nil)

	w.Start(context.Background())
	waitResult(t, results)

	deadline := time.Now().Add(time.Second)
	for w.Active() {
		if time.Now().After(deadline) {
			t.Fatal("watcher never went idle")
		}
		time.Sleep(5 * time.Millisecond)
	}

	w.Start(context.Background())
	waitResult(t, results)
	if got := provider.calls.Load(); got != 2 {
		t.Fatalf("provider called %d times, want 2", got)
	}
}

func TestWatcherParamsValidation(t *testing.T) {
	provider := &stubProvider{}
	onResult := func(Coordinates, error) {}

	if _, err := NewWatcher(WatcherParams{OnResult: onResult, Logger: testLogger()}); err == nil {
		t.Fatal("expected error without provider")
	}
	if _, err := NewWatcher(WatcherParams{Provider: provider, Logger: testLogger()}); err == nil {
		t.Fatal("expected error without result callback")
	}
	if _, err := NewWatcher(WatcherParams{
		Provider: provider, OnResult: onResult, Logger: testLogger(),
		SoftTimeout: 20 * time.Second, HardTimeout: 10 * time.Second,
	}); err == nil {
		t.Fatal("expected error when the hard timeout precedes the soft one")
	}
}
