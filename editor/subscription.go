package editor

import "sync"

// Subscription is a scoped registration that is released exactly once.
// The wasm client uses it for document-level listeners that live only
// while a gesture is in progress.
type Subscription struct {
	once    sync.Once
	release func()
}

// NewSubscription wraps a release function
func NewSubscription(release func()) *Subscription {
	return &Subscription{release: release}
}

// Close releases the registration. Further calls do nothing.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// Subscriptions groups several subscriptions released together
type Subscriptions struct {
	items []*Subscription
}

// Add keeps s until Close
func (g *Subscriptions) Add(s *Subscription) {
	g.items = append(g.items, s)
}

// Close releases every held subscription in reverse order of registration
func (g *Subscriptions) Close() {
	for i := len(g.items) - 1; i >= 0; i-- {
		g.items[i].Close()
	}
	g.items = nil
}
