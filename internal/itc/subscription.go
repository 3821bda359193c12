package itc

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Next after the subscription has been closed.
var ErrClosed = errors.New("itc: subscription closed")

// Update is a single emission from a subscription. Present is false only
// when nothing has been published to the key yet, which distinguishes an
// absent value from a published nil.
type Update struct {
	Value   any
	Present bool
}

// observeConfig holds the per-subscription settings applied by Observe.
type observeConfig struct {
	replay      bool
	timeout     time.Duration
	minInterval time.Duration
}

// normalize applies the documented bounds: a non-positive timeout means no
// timeout, and a timeout below the minimum interval is clamped up to it.
func (c *observeConfig) normalize() {
	if c.minInterval < 0 {
		c.minInterval = 0
	}
	if c.timeout <= 0 {
		c.timeout = 0
	}
	if c.timeout > 0 && c.timeout < c.minInterval {
		c.timeout = c.minInterval
	}
}

// ObserveOption configures a subscription created by Hub.Observe.
type ObserveOption func(*observeConfig)

// WithReplay makes the first emission carry the current latest value (or an
// absent marker if nothing has been published), without waiting.
func WithReplay() ObserveOption {
	return func(c *observeConfig) { c.replay = true }
}

// WithTimeout bounds each individual wait-for-publish. On expiry the
// subscription re-emits the latest value as a keep-alive tick and keeps
// waiting; a timeout never terminates the subscription. Non-positive d
// means no timeout.
func WithTimeout(d time.Duration) ObserveOption {
	return func(c *observeConfig) { c.timeout = d }
}

// WithMinInterval enforces a minimum spacing d between successive emissions.
// A producer publishing faster than d is throttled without losing the
// latest value.
func WithMinInterval(d time.Duration) ObserveOption {
	return func(c *observeConfig) { c.minInterval = d }
}

// Subscription is one consumer's wait handle for a key. It is created by
// Hub.Observe and must be closed when the consumer stops observing.
//
// Next is pull-based and single-consumer: it must not be called from
// multiple goroutines at once. Close is safe from any goroutine.
type Subscription struct {
	hub  *Hub
	key  string
	cfg  observeConfig
	wake chan struct{}

	closeOnce sync.Once
	done      chan struct{}

	// consumer-side state, only touched by Observe and Next
	replayPending  bool
	replaySnapshot Update
	lastEmit       time.Time
}

// Key returns the key this subscription observes.
func (s *Subscription) Key() string {
	return s.key
}

// Close deregisters the subscription from the hub. A Next call in progress
// returns ErrClosed. Close is idempotent.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.deregister(s)
		close(s.done)
	})
}

// Next blocks until the next emission and returns it. Emissions are, in
// order of precedence:
//
//   - the replay of the latest value as of registration, if WithReplay was
//     set, as the first emission and without waiting (a publish that lands
//     between registration and the first Next arrives as the second
//     emission instead of being folded into the replay);
//   - the latest value at wake time after a publish to the key (several
//     publishes between two Next calls coalesce into one emission);
//   - the unchanged latest value as a keep-alive tick, when WithTimeout is
//     set and no publish arrived in time.
//
// When WithMinInterval is set, Next first waits out whatever remains of the
// interval since the previous emission.
//
// Next returns ctx.Err() when ctx is cancelled and ErrClosed after Close;
// it never fails for any other reason.
func (s *Subscription) Next(ctx context.Context) (Update, error) {
	if s.replayPending {
		s.replayPending = false
		s.lastEmit = time.Now()
		return s.replaySnapshot, nil
	}

	if s.cfg.minInterval > 0 && !s.lastEmit.IsZero() {
		if remaining := s.cfg.minInterval - time.Since(s.lastEmit); remaining > 0 {
			pacer := time.NewTimer(remaining)
			select {
			case <-ctx.Done():
				pacer.Stop()
				return Update{}, ctx.Err()
			case <-s.done:
				pacer.Stop()
				return Update{}, ErrClosed
			case <-pacer.C:
			}
		}
	}

	var timeoutC <-chan time.Time
	if s.cfg.timeout > 0 {
		timer := time.NewTimer(s.cfg.timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case <-ctx.Done():
		return Update{}, ctx.Err()
	case <-s.done:
		return Update{}, ErrClosed
	case <-s.wake:
	case <-timeoutC:
		// Keep-alive: nothing was published in time, re-emit the latest.
	}

	s.lastEmit = time.Now()
	return s.hub.snapshot(s.key), nil
}
