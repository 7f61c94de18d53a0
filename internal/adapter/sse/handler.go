package sse

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
)

// connectedFrame is written first on every connection.
var connectedFrame = mustEncode(domain.Connected{})

func mustEncode(ev domain.Event) []byte {
	frame, err := EncodeFrame(ev.EventName(), ev)
	if err != nil {
		panic(err)
	}
	return frame
}

// Handler serves the long-lived push channel.
type Handler struct {
	hub *Hub
	cfg ClientConfig
}

func NewHandler(hub *Hub, cfg ClientConfig) *Handler {
	return &Handler{hub: hub, cfg: cfg}
}

// ServeHTTP registers a client, sends the connected event, then streams until
// the request ends. The client is registered before the connected frame is
// written; anything broadcast in between waits in its buffer, so connected
// is always the first event on the wire.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	client := NewClient(w, h.cfg)

	if err := h.hub.AddClient(client); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, ErrHubStopped) {
			w.Header().Set("Connection", "close")
		}
		http.Error(w, "event stream unavailable", status)
		return
	}
	defer h.hub.RemoveClient(client)

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := client.write(connectedFrame); err != nil {
		slog.DebugContext(ctx, "SSE connected frame failed", "client_id", client.ID(), "error", err)
		return
	}

	slog.DebugContext(ctx, "SSE stream opened", "client_id", client.ID())
	if err := client.Run(ctx); err != nil {
		slog.DebugContext(ctx, "SSE stream ended with write error", "client_id", client.ID(), "error", err)
	}
}
