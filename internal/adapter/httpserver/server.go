package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/metrics"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/app"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/config"
	"github.com/labstack/echo/v4"
)

const readHeaderTimeout = 10 * time.Second

type messagingService interface {
	SendMessage(ctx context.Context, req app.SendMessageRequest) (*domain.SentMessage, error)
	Conversations(ctx context.Context, userID string) ([]app.Conversation, error)
	Thread(ctx context.Context, userID, partnerID string) ([]app.ThreadMessage, error)
}

type postService interface {
	ToggleLike(ctx context.Context, userID, postID string) (*domain.LikeResult, error)
	AddComment(ctx context.Context, userID, postID, content string) (*domain.CommentResult, error)
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	messaging messagingService
	posts     postService
	tokens    *TokenVerifier
	streams   *streamLimiter

	eventsHandler  http.Handler
	metricsHandler http.Handler
	httpMetrics    *metrics.HTTPMetrics

	healthChecks []HealthCheck
	streamCount  streamCounter
	startTime    time.Time
	draining     atomic.Bool
}

type Option func(*Server)

// WithMetrics exposes handler on /metrics and records request metrics with m.
// Either may be nil.
func WithMetrics(m *metrics.HTTPMetrics, handler http.Handler) Option {
	return func(s *Server) {
		s.httpMetrics = m
		s.metricsHandler = handler
	}
}

func WithHealthChecks(checks ...HealthCheck) Option {
	return func(s *Server) { s.healthChecks = append(s.healthChecks, checks...) }
}

// WithStreamCounter reports open /events streams on /health/live.
func WithStreamCounter(sc streamCounter) Option {
	return func(s *Server) { s.streamCount = sc }
}

func NewServer(cfg *config.Config, messaging messagingService, posts postService, eventsHandler http.Handler, opts ...Option) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = readHeaderTimeout
	e.HTTPErrorHandler = httpErrorHandler

	srv := &Server{
		echo:          e,
		config:        cfg,
		messaging:     messaging,
		posts:         posts,
		tokens:        NewTokenVerifier(cfg.JWTSecret),
		streams:       newStreamLimiter(cfg.SSEMaxPerIP, cfg.SSEConnectRate, cfg.SSEConnectBurst),
		eventsHandler: eventsHandler,
		startTime:     time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	e.Server.RegisterOnShutdown(func() { srv.draining.Store(true) })

	srv.registerRoutes()

	return srv
}

// OnShutdown registers f to run when Shutdown begins, before in-flight
// requests have drained. Long-lived streams must be ended from here.
func (s *Server) OnShutdown(f func()) {
	s.echo.Server.RegisterOnShutdown(f)
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// ServeHTTP lets tests and embedders drive the full middleware chain.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
