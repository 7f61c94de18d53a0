package app

import (
	"context"
	"log/slog"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
)

// publish broadcasts ev after a committed mutation. Failures are logged and
// never returned; the write has already succeeded.
func publish(ctx context.Context, events domain.EventBroadcaster, ev domain.Event) {
	if err := events.Broadcast(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Event broadcast failed", "event", ev.EventName(), "error", err)
	}
}

// nonEmpty treats empty strings as absent.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
