package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/book-review/internal/common/clock"
	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
)

var errUpstream = errors.New("upstream down")

func newTestBreaker(c *clock.MockClock, ignore func(error) bool) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:   2,
		Timeout:     time.Second,
		ResetAfter:  time.Minute,
		IgnoreError: ignore,
		Now:         c.Now,
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := newTestBreaker(c, nil)
	failing := func(context.Context) error { return errUpstream }

	for i := 0; i < 2; i++ {
		if err := cb.CallWithFallback(context.Background(), failing, nil); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d: expected upstream error, got %v", i, err)
		}
	}

	called := false
	err := cb.CallWithFallback(context.Background(), func(context.Context) error {
		called = true
		return nil
	}, nil)
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if called {
		t.Error("fn must not run while the circuit is open")
	}
}

func TestCircuitBreaker_ResetsAfterWindow(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := newTestBreaker(c, nil)
	failing := func(context.Context) error { return errUpstream }

	_ = cb.CallWithFallback(context.Background(), failing, nil)
	_ = cb.CallWithFallback(context.Background(), failing, nil)
	if !cb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	c.Advance(2 * time.Minute)
	if cb.IsOpen() {
		t.Fatal("expected closed circuit after reset window")
	}
}

func TestCircuitBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	errMissing := errors.New("missing")
	cb := newTestBreaker(c, func(err error) bool { return errors.Is(err, errMissing) })

	for i := 0; i < 5; i++ {
		_ = cb.CallWithFallback(context.Background(), func(context.Context) error { return errMissing }, nil)
	}
	if cb.IsOpen() {
		t.Error("ignored errors must not open the circuit")
	}
}

func TestCircuitBreaker_FallbackReceivesCause(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := newTestBreaker(c, nil)

	var seen error
	err := cb.CallWithFallback(context.Background(),
		func(context.Context) error { return errUpstream },
		func(cause error) error {
			seen = cause
			return nil
		},
	)
	if err != nil {
		t.Fatalf("expected fallback to swallow error, got %v", err)
	}
	if !errors.Is(seen, errUpstream) {
		t.Errorf("expected fallback cause to be upstream error, got %v", seen)
	}
}

func TestCircuitBreaker_AppliesTimeout(t *testing.T) {
	c := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	cb := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, Timeout: 10 * time.Millisecond, ResetAfter: time.Minute, Now: c.Now})

	err := cb.CallWithFallback(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
