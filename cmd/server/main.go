package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/httpserver"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/metrics"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/postgres"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/redis"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/adapter/sse"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/app"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/config"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/logging"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/retry"
	"github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/version"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(ctx context.Context, cfg *config.Config, m *metrics.DBMetrics) *pgxpool.Pool {
	pool, err := postgres.ConnectWithRetry(ctx, cfg.DatabaseURL, retry.StartupPolicy,
		postgres.WithTracer(postgres.NewMetricsTracer(m)))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrationsWithLock(migrateCtx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	breaker := redis.NewCircuitBreakerHook(redis.DefaultBreakerSettings, m)

	client, err := redis.NewClient(ctx, cfg.RedisURL, retry.StartupPolicy, redis.NewMetricsHook(m), breaker)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	sseMetrics := metrics.NewSSEMetrics(registry)
	activityMetrics := metrics.NewActivityMetrics(registry)
	redisMetrics := metrics.NewRedisMetrics(registry)
	dbMetrics := metrics.NewDBMetrics(registry)

	pool := setupDB(ctx, cfg, dbMetrics)
	defer pool.Close()

	redisClient := setupRedis(ctx, cfg, redisMetrics)
	defer func() { _ = redisClient.Close() }()

	hub := sse.NewHub(sse.WithMaxClients(cfg.MaxSSEConnections), sse.WithMetrics(sseMetrics))
	events := sse.NewHandler(hub, sse.ClientConfig{
		BufferSize:        cfg.SSEBufferSize,
		WriteTimeout:      cfg.SSEWriteTimeout,
		HeartbeatInterval: cfg.SSEHeartbeatInterval,
	})

	messaging := app.NewMessaging(postgres.NewMessageRepo(pool), hub, activityMetrics)
	posts := app.NewPosts(
		postgres.NewPostRepo(pool),
		redis.NewLikeDebouncer(redisClient, cfg.LikeDebounce),
		hub,
		activityMetrics,
	)

	srv := httpserver.NewServer(cfg, messaging, posts, events,
		httpserver.WithMetrics(httpMetrics, metrics.Handler(registry)),
		httpserver.WithStreamCounter(hub),
		httpserver.WithHealthChecks(
			httpserver.HealthCheck{Name: "postgres", Check: pool.Ping},
			httpserver.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		),
	)
	// Streams never go idle on their own; end them when shutdown begins.
	srv.OnShutdown(hub.Stop)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		hub.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
