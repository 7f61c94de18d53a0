package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/version"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const (
	startupProbeTimeout   = 2 * time.Second
	readinessProbeTimeout = 5 * time.Second
)

// HealthCheck is a named dependency check run by /health/startup and
// /health/ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// streamCounter reports how many /events streams are open.
type streamCounter interface {
	ClientCount() int
}

type checkReport struct {
	Status      string            `json:"status"`
	FailedCheck string            `json:"failed_check,omitempty"`
	Error       string            `json:"error,omitempty"`
	Checks      map[string]string `json:"checks,omitempty"`
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
}

// handleHealth is the plain liveness ping the web client polls.
func (s *Server) handleHealth(c echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupProbeTimeout)
	defer cancel()

	return s.respondWithChecks(c, ctx)
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	}
	if s.streamCount != nil {
		response["streams"] = s.streamCount.ClientCount()
	}
	return writeJSON(c, http.StatusOK, response)
}

// handleReadiness fails as soon as shutdown begins so load balancers stop
// sending new streams here while the old ones are closed.
func (s *Server) handleReadiness(c echo.Context) error {
	if s.draining.Load() {
		return writeJSON(c, http.StatusServiceUnavailable, checkReport{Status: "draining"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessProbeTimeout)
	defer cancel()

	return s.respondWithChecks(c, ctx)
}

func (s *Server) respondWithChecks(c echo.Context, ctx context.Context) error {
	results := make([]error, len(s.healthChecks))
	var g errgroup.Group
	for i, hc := range s.healthChecks {
		g.Go(func() error {
			results[i] = hc.Check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	report := checkReport{Status: "ready"}
	if len(s.healthChecks) > 0 {
		report.Checks = make(map[string]string, len(s.healthChecks))
	}
	for i, hc := range s.healthChecks {
		err := results[i]
		if err == nil {
			report.Checks[hc.Name] = "ok"
			continue
		}

		slog.WarnContext(ctx, "Health check failed", "check", hc.Name, "error", err)
		report.Checks[hc.Name] = err.Error()
		if report.FailedCheck == "" {
			report.Status = "unhealthy"
			report.FailedCheck = hc.Name
			report.Error = err.Error()
		}
	}

	status := http.StatusOK
	if report.FailedCheck != "" {
		status = http.StatusServiceUnavailable
	}
	return writeJSON(c, status, report)
}

func (s *Server) handleVersion(c echo.Context) error {
	return writeJSON(c, http.StatusOK, version.Get())
}

func writeJSON(c echo.Context, status int, body any) error {
	if err := c.JSON(status, body); err != nil {
		return fmt.Errorf("failed to write %s response: %w", c.Path(), err)
	}
	return nil
}
