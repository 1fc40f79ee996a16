package config

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv           string `env:"APP_ENV" default:"development"`
	RPCURL           string `env:"RPC_URL"`
	DatabaseURL      string `env:"DATABASE_URL"`
	DatabaseMaxConns int    `env:"DATABASE_MAX_CONNECTIONS" default:"10"`
	RedisURL         string `env:"REDIS_URL" default:"redis://127.0.0.1:6379"`
	WebsocketHost    string `env:"WEBSOCKET_HOST" default:"127.0.0.1"`
	WebsocketPort    string `env:"WEBSOCKET_PORT" default:"8080"`
	LogLevel         string `env:"LOG_LEVEL" default:"info"`
	LogFormat        string `env:"LOG_FORMAT" default:"text"`
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
	required := map[string]string{
		"RPC_URL":      cfg.RPCURL,
		"DATABASE_URL": cfg.DatabaseURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.DatabaseMaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNECTIONS must be positive, got %d", cfg.DatabaseMaxConns)
	}
	if _, err := strconv.Atoi(cfg.WebsocketPort); err != nil {
		return fmt.Errorf("WEBSOCKET_PORT must be numeric, got %q", cfg.WebsocketPort)
	}

	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.WebsocketHost + ":" + c.WebsocketPort
}
