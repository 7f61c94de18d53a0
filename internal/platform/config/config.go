package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv         string `env:"APP_ENV" default:"development"`
	Port           string `env:"PORT" default:"5000"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisURL       string `env:"REDIS_URL"`
	JWTSecret      string `env:"JWT_SECRET"`
	FrontendOrigin string `env:"FRONTEND_ORIGIN" default:"http://localhost:3000"`
	LogLevel       string `env:"LOG_LEVEL" default:"info"`
	LogFormat      string `env:"LOG_FORMAT" default:"text"`

	SSEBufferSize        int           `env:"SSE_BUFFER_SIZE" default:"16"`
	SSEWriteTimeout      time.Duration `env:"SSE_WRITE_TIMEOUT" default:"5s"`
	SSEHeartbeatInterval time.Duration `env:"SSE_HEARTBEAT_INTERVAL" default:"30s"`
	MaxSSEConnections    int           `env:"MAX_SSE_CONNECTIONS" default:"10000"`
	SSEMaxPerIP          int           `env:"SSE_MAX_PER_IP" default:"20"`
	SSEConnectRate       float64       `env:"SSE_CONNECT_RATE" default:"1"`
	SSEConnectBurst      int           `env:"SSE_CONNECT_BURST" default:"10"`

	LikeDebounce     time.Duration `env:"LIKE_DEBOUNCE" default:"500ms"`
	MessageRateLimit float64       `env:"MESSAGE_RATE_LIMIT" default:"5"`
	MessageRateBurst int           `env:"MESSAGE_RATE_BURST" default:"10"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := []struct{ name, value string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REDIS_URL", cfg.RedisURL},
		{"JWT_SECRET", cfg.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if cfg.IsProduction() {
		if mode := sslMode(cfg.DatabaseURL); mode == "disable" || mode == "allow" {
			return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
		}
	}

	if len(cfg.JWTSecret) < 8 {
		return errors.New("JWT_SECRET must be at least 8 characters")
	}
	if cfg.SSEBufferSize < 1 || cfg.SSEBufferSize > 1024 {
		return fmt.Errorf("SSE_BUFFER_SIZE must be between 1 and 1024, got %d", cfg.SSEBufferSize)
	}
	if cfg.SSEWriteTimeout <= 0 {
		return errors.New("SSE_WRITE_TIMEOUT must be positive")
	}
	if cfg.SSEHeartbeatInterval <= 0 {
		return errors.New("SSE_HEARTBEAT_INTERVAL must be positive")
	}
	if cfg.MaxSSEConnections < 1 {
		return fmt.Errorf("MAX_SSE_CONNECTIONS must be positive, got %d", cfg.MaxSSEConnections)
	}
	if cfg.SSEMaxPerIP < 1 {
		return fmt.Errorf("SSE_MAX_PER_IP must be positive, got %d", cfg.SSEMaxPerIP)
	}
	if cfg.SSEConnectRate <= 0 || cfg.SSEConnectBurst < 1 {
		return errors.New("SSE_CONNECT_RATE and SSE_CONNECT_BURST must be positive")
	}
	if cfg.MessageRateLimit <= 0 || cfg.MessageRateBurst < 1 {
		return errors.New("MESSAGE_RATE_LIMIT and MESSAGE_RATE_BURST must be positive")
	}

	return nil
}

func sslMode(databaseURL string) string {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Query().Get("sslmode"))
}
