// Package throttle spaces out consecutive calls by a minimum interval.
package throttle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle guarantees at least one interval between the starts of two calls
// to Wait. It holds a single slot: time spent idle is not saved up for bursts.
// A Throttle is safe for concurrent use; share one instance across a batch.
type Throttle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	// lastStart is when the most recent call was let through, or is due to be.
	lastStart time.Time
	started   bool
	logger    *slog.Logger
}

// New returns a Throttle with the given interval. A zero interval never waits.
func New(interval time.Duration, logger *slog.Logger) *Throttle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Throttle{
		limiter: rate.NewLimiter(every(interval), 1),
		logger:  logger,
	}
}

func every(interval time.Duration) rate.Limit {
	if interval <= 0 {
		return rate.Inf
	}
	return rate.Every(interval)
}

// SetWaitTime changes the interval. The next call waits for the new interval
// minus the time already passed since the previous call started.
func (t *Throttle) SetWaitTime(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lim := rate.NewLimiter(every(interval), 1)
	if t.started {
		// Spend the slot at the previous start so the new rate counts from there.
		lim.ReserveN(t.lastStart, 1)
	}
	t.limiter = lim
}

// Wait blocks until the interval since the previous call has passed, then
// records the current call. The first call never blocks.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := time.Now()
	// A pending call may be due in the future; reserve from there so the
	// limiter never sees time run backwards.
	at := now
	if t.started && t.lastStart.After(now) && t.limiter.Limit() != rate.Inf {
		at = t.lastStart
	}
	r := t.limiter.ReserveN(at, 1)
	if !r.OK() {
		t.mu.Unlock()
		return errors.New("throttle: reservation refused")
	}
	delay := r.DelayFrom(now)
	prevStart, prevStarted := t.lastStart, t.started
	start := now.Add(max(delay, 0))
	t.lastStart, t.started = start, true
	t.mu.Unlock()

	if delay <= 0 {
		t.logger.Debug("running without wait", "at", now)
		return nil
	}

	t.logger.Info("sleeping before next call", "seconds", delay.Seconds())
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		t.mu.Lock()
		r.CancelAt(time.Now())
		if t.lastStart.Equal(start) {
			t.lastStart, t.started = prevStart, prevStarted
		}
		t.mu.Unlock()
		return ctx.Err()
	}
}
