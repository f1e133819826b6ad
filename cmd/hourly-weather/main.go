package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	httpapi "github.com/i474232898/hourly-weather/internal/api/http"
	"github.com/i474232898/hourly-weather/internal/config"
	"github.com/i474232898/hourly-weather/internal/dashboard"
	"github.com/i474232898/hourly-weather/internal/scheduler"
	"github.com/i474232898/hourly-weather/internal/store"
	"github.com/i474232898/hourly-weather/internal/weather"
	"github.com/i474232898/hourly-weather/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Snapshot cache.
	var snapshots weather.Store
	switch cfg.Store.Driver {
	case "redis":
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := store.NewRedisClient(pingCtx, cfg.RedisAddr)
		cancel()
		if err != nil {
			logger.Fatalw("redis connection failed", "addr", cfg.RedisAddr, "error", err)
		}
		defer client.Close()
		snapshots = store.NewRedisStore(client, cfg.Store.MaxAge)
	default:
		snapshots = store.NewMemoryStore(cfg.Store.MaxAge)
	}

	// Open-Meteo with resilience (retry + circuit breaker) and a client-side rate limit.
	openMeteo := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoConfig{
		BaseURL:  cfg.OpenMeteo.BaseURL,
		Timezone: cfg.TimezoneName,
		Backoff: providers.BackoffConfig{
			MaxRetries:      cfg.OpenMeteo.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
	}, logger)
	provider := providers.NewRateLimitedProvider(openMeteo, cfg.OpenMeteo.Rate, cfg.OpenMeteo.Burst)

	service := weather.NewService(snapshots, provider, cfg.Locations, weather.Options{
		Timezone:    cfg.Timezone,
		WindowHours: cfg.WindowHours,
	}, logger)

	board := dashboard.NewBoard(service, dashboard.NewRegistry(), logger)
	defer board.Close()

	// Initial load of the default location.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := board.Select(ctx, cfg.DefaultLocation); err != nil {
			logger.Warnw("initial load failed", "location", cfg.DefaultLocation, "error", err)
		}
	}()

	// Scheduler that keeps every preset warm in the cache.
	sched := scheduler.New(cfg.Locations.List(), cfg.FetchInterval, service, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, board, true)

	go func() {
		logger.Infow("http server listening", "port", cfg.Port, "timezone", cfg.TimezoneName)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorw("error during shutdown", "error", err)
	}
}
