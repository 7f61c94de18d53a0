package sse

import "sync"

// Subscriber is one open push connection as seen by the hub.
type Subscriber interface {
	// ID is unique per connection and is the registry key.
	ID() string
	// Send queues one encoded frame. It must not block.
	Send(frame []byte) error
	// Close ends the connection. Safe to call more than once.
	Close()
}

// Registry is the set of currently open subscribers.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]Subscriber)}
}

// Register adds sub and reports whether it was newly added. Registering the
// same subscriber twice keeps a single entry.
func (r *Registry) Register(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.ID()]; ok {
		return false
	}
	r.subs[sub.ID()] = sub
	return true
}

// Unregister removes sub and reports whether it was present. Unknown or
// already-removed subscribers are a no-op.
func (r *Registry) Unregister(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.ID()]; !ok {
		return false
	}
	delete(r.subs, sub.ID())
	return true
}

// Snapshot returns a copy of the current set. Later registrations and
// removals do not affect the returned slice.
func (r *Registry) Snapshot() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out
}

func (r *Registry) Contains(sub Subscriber) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.subs[sub.ID()]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
