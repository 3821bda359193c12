package itc

import (
	"sort"
	"sync"
)

// Hub is a keyed latest-value store with broadcast wakeups.
// It allows plugins to exchange state changes without direct references
// to one another. The zero value is not usable; call NewHub.
type Hub struct {
	mu     sync.Mutex
	latest map[string]any
	subs   map[string]map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		latest: make(map[string]any),
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Publish stores value as the latest for key and wakes every current
// subscription on that key. It always succeeds; publishing the same value
// twice wakes subscribers twice — a publish is a signal, not a diff.
func (h *Hub) Publish(key string, value any) {
	h.mu.Lock()
	h.latest[key] = value
	wakes := make([]chan struct{}, 0, len(h.subs[key]))
	for sub := range h.subs[key] {
		wakes = append(wakes, sub.wake)
	}
	h.mu.Unlock()

	// The wake channels have capacity 1, so a subscriber that already has a
	// pending wake simply coalesces this publish into it.
	for _, wake := range wakes {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// Latest returns the most recently published value for key. The second
// return is false if nothing has been published yet. Never blocks.
func (h *Hub) Latest(key string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.latest[key]
	return v, ok
}

// IsKnown reports whether key has ever been published to.
func (h *Hub) IsKnown(key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.latest[key]
	return ok
}

// HasSubscribers reports whether any subscription is currently registered
// on key.
func (h *Hub) HasSubscribers(key string) bool {
	return h.SubscriberCount(key) > 0
}

// SubscriberCount returns the number of subscriptions registered on key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}

// Keys returns all keys that have a published value, sorted. Diagnostic use.
func (h *Hub) Keys() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.latest))
	for k := range h.latest {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Observe registers a new subscription on key and returns it. Every call
// creates an independent subscription; multiple consumers of one key do not
// share state. The caller must Close the subscription when done observing,
// on every exit path.
func (h *Hub) Observe(key string, opts ...ObserveOption) *Subscription {
	cfg := observeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	sub := &Subscription{
		hub:  h,
		key:  key,
		cfg:  cfg,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	// The replay snapshot is taken under the same critical section as
	// registration, so a publish is either in the snapshot or wakes the
	// subscription — never lost between the two.
	h.mu.Lock()
	if cfg.replay {
		v, ok := h.latest[key]
		sub.replayPending = true
		sub.replaySnapshot = Update{Value: v, Present: ok}
	}
	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscription]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// deregister removes sub from the wake set. Safe to call more than once.
func (h *Hub) deregister(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.key]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.key)
		}
	}
}

// snapshot returns the current latest value for key as an Update.
func (h *Hub) snapshot(key string) Update {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.latest[key]
	return Update{Value: v, Present: ok}
}
