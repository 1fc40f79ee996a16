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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/pratikbuilds/account-socket/internal/app"
	"github.com/pratikbuilds/account-socket/internal/config"
	"github.com/pratikbuilds/account-socket/internal/database"
	"github.com/pratikbuilds/account-socket/internal/decoder"
	"github.com/pratikbuilds/account-socket/internal/logging"
	"github.com/pratikbuilds/account-socket/internal/pipeline"
	"github.com/pratikbuilds/account-socket/internal/redis"
	"github.com/pratikbuilds/account-socket/internal/server"
	"github.com/pratikbuilds/account-socket/internal/ws"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(cfg *config.Config) *goredis.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, cancelPipeline context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		cancelPipeline()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "addr", cfg.ListenAddr())

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(cfg)
	defer func() { _ = redisClient.Close() }()

	accountRepo := database.NewAccountRepo(pool)
	accountCache := redis.NewAccountCache(redisClient)
	resolver := app.NewResolver(accountRepo, accountCache)

	hub := ws.NewHub(resolver, clock)
	processor := app.NewProcessor(accountRepo, accountCache, hub)

	source := pipeline.NewRPCProgramSubscribe(cfg.RPCURL, decoder.ProgramID, decoder.NewAnchorDecoder())
	pipe := pipeline.New(source, processor)

	pipelineCtx, cancelPipeline := context.WithCancel(context.Background())
	defer cancelPipeline()
	go func() {
		slog.Info("Starting pipeline", "program_id", decoder.ProgramID)
		if err := pipe.Run(pipelineCtx); err != nil && !errors.Is(err, context.Canceled) {
			// Active connections stay open; only new realtime updates stop.
			slog.Error("Pipeline stopped", "error", err)
		}
	}()

	srv := server.NewServer(cfg, hub, resolver, pool, redisClient)
	done := runGracefulShutdown(srv, cancelPipeline)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
