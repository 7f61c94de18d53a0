package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
)

func (s *Server) registerEventRoutes() {
	s.echo.GET("/events", s.handleEvents, s.streams.middleware)
}

// handleEvents hands the connection to the push channel. Anonymous callers
// are allowed; every connection receives every event.
func (s *Server) handleEvents(c echo.Context) error {
	if userID, ok := currentUserID(c); ok {
		slog.DebugContext(c.Request().Context(), "Event stream requested", "user_id", userID)
	}
	s.eventsHandler.ServeHTTP(c.Response(), c.Request())
	return nil
}
