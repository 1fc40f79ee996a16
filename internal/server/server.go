package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pratikbuilds/account-socket/internal/config"
	"github.com/pratikbuilds/account-socket/internal/domain"
	"github.com/pratikbuilds/account-socket/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	hub         *ws.Hub
	resolver    domain.StateResolver
	redisClient *goredis.Client
	pool        *pgxpool.Pool
	startTime   time.Time

	// health check overrides for tests
	redisHealthCheck    redisHealthChecker
	postgresHealthCheck postgresHealthChecker
}

func NewServer(cfg *config.Config, hub *ws.Hub, resolver domain.StateResolver, pool *pgxpool.Pool, redisClient *goredis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestIDContext)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:        e,
		config:      cfg,
		hub:         hub,
		resolver:    resolver,
		redisClient: redisClient,
		pool:        pool,
		startTime:   time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "addr", s.config.ListenAddr())
	return s.echo.Start(s.config.ListenAddr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
