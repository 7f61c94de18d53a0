package sse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/metrics"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
)

// Hub fans events out to every registered subscriber.
type Hub struct {
	registry   *Registry
	maxClients int
	metrics    *metrics.SSEMetrics

	// lifecycle guards the capacity check plus register, and stopped.
	lifecycle sync.Mutex
	stopped   bool
}

type HubOption func(*Hub)

// WithMaxClients caps concurrent connections. Zero or less means no cap.
func WithMaxClients(n int) HubOption {
	return func(h *Hub) { h.maxClients = n }
}

func WithMetrics(m *metrics.SSEMetrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{registry: NewRegistry()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ domain.EventBroadcaster = (*Hub)(nil)

// AddClient registers sub for future broadcasts.
func (h *Hub) AddClient(sub Subscriber) error {
	h.lifecycle.Lock()
	defer h.lifecycle.Unlock()

	if h.stopped {
		h.reject()
		return ErrHubStopped
	}
	if h.maxClients > 0 && h.registry.Len() >= h.maxClients && !h.registry.Contains(sub) {
		h.reject()
		slog.Warn("Rejecting SSE client: max connections reached", "max_clients", h.maxClients)
		return fmt.Errorf("%w (%d)", ErrHubFull, h.maxClients)
	}

	if h.registry.Register(sub) {
		if h.metrics != nil {
			h.metrics.ActiveConnections.Inc()
		}
		slog.Debug("SSE client registered", "client_id", sub.ID(), "total_clients", h.registry.Len())
	}
	return nil
}

// RemoveClient unregisters and closes sub. Safe to call repeatedly and for
// subscribers that were never added.
func (h *Hub) RemoveClient(sub Subscriber) {
	if h.registry.Unregister(sub) {
		if h.metrics != nil {
			h.metrics.ActiveConnections.Dec()
		}
		slog.Debug("SSE client unregistered", "client_id", sub.ID(), "remaining_clients", h.registry.Len())
	}
	sub.Close()
}

// Broadcast pushes a typed event to every subscriber registered at call
// time. Delivery is fire-and-forget; only encoding failures are returned.
func (h *Hub) Broadcast(ctx context.Context, event domain.Event) error {
	if event == nil {
		return errors.New("sse: nil event")
	}
	return h.Publish(ctx, event.EventName(), event)
}

// Publish is the untyped form of Broadcast. Map payloads encode with sorted
// keys; only struct payloads such as domain events keep their field order.
func (h *Hub) Publish(ctx context.Context, name string, payload any) error {
	frame, err := EncodeFrame(name, payload)
	if err != nil {
		return err
	}

	subs := h.registry.Snapshot()
	delivered := 0
	for _, sub := range subs {
		if err := sub.Send(frame); err != nil {
			h.evict(ctx, sub, err)
			continue
		}
		delivered++
	}

	if h.metrics != nil {
		h.metrics.EventsBroadcast.WithLabelValues(name).Inc()
		h.metrics.FramesDelivered.Add(float64(delivered))
	}
	slog.DebugContext(ctx, "Event broadcast", "event", name, "subscribers", len(subs), "delivered", delivered)
	return nil
}

func (h *Hub) evict(ctx context.Context, sub Subscriber, cause error) {
	reason := metrics.EvictError
	switch {
	case errors.Is(cause, ErrClientSlow):
		reason = metrics.EvictSlow
	case errors.Is(cause, ErrClientClosed):
		reason = metrics.EvictClosed
	}

	slog.WarnContext(ctx, "Evicting SSE client", "client_id", sub.ID(), "reason", reason, "error", cause)
	if h.metrics != nil {
		h.metrics.Evictions.WithLabelValues(reason).Inc()
	}
	h.RemoveClient(sub)
}

// Stop refuses new clients and closes every registered one.
func (h *Hub) Stop() {
	h.lifecycle.Lock()
	h.stopped = true
	h.lifecycle.Unlock()

	subs := h.registry.Snapshot()
	for _, sub := range subs {
		h.RemoveClient(sub)
	}
	slog.Info("SSE hub stopped", "disconnected_clients", len(subs))
}

func (h *Hub) ClientCount() int {
	return h.registry.Len()
}

func (h *Hub) reject() {
	if h.metrics != nil {
		h.metrics.RejectedConnections.Inc()
	}
}
