package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/redis/go-redis/v9"

	"github.com/meridianhq/meridian-backend/internal/api"
	"github.com/meridianhq/meridian-backend/internal/cache"
	"github.com/meridianhq/meridian-backend/internal/config"
	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/demo"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
	"github.com/meridianhq/meridian-backend/internal/worker"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "demo_mode", cfg.DemoMode)

	// ── Database ──────────────────────────────────────────────────────────────
	pool, queries, err := openDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected")

	// ── Store (atomic multi-step writes) ──────────────────────────────────────
	st := store.New(pool, queries)

	// ── Cache ─────────────────────────────────────────────────────────────────
	var assessmentCache cache.Store
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: parse url: %w", err)
		}
		rdb := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis: ping: %w", err)
		}
		assessmentCache = cache.NewRedis(rdb)
		logger.Info("cache: using redis")
	} else {
		assessmentCache = cache.NewMemory()
		logger.Info("cache: using in-process memory")
	}

	// ── Engine ────────────────────────────────────────────────────────────────
	engCfg := engine.DefaultConfig()
	engCfg.INRPerUSD = cfg.INRPerUSD
	engCfg.EURToUSD = cfg.EURToUSD
	eng, err := engine.New(engCfg)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	// ── Demo context ──────────────────────────────────────────────────────────
	// Only wired when demo mode is on. In production a signal whose company
	// has no stored profile assesses to insufficient_data, as it should.
	var demoContext *engine.CompanyContext
	if cfg.DemoMode {
		demoContext = demo.Context()
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	job := worker.NewJob(queries, st, eng, assessmentCache, demoContext, logger)
	runner := worker.NewRunner(job, st, queries, worker.RunnerConfig{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.PollInterval,
		JobTimeout:   cfg.JobTimeout,
		MaxRetries:   cfg.MaxRetries,
	}, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		queries,
		st,
		job,    // *Job satisfies api.Analyzer for synchronous reads
		runner, // *Runner satisfies worker.Enqueuer
		assessmentCache,
		api.Config{
			Env:      cfg.Env,
			CacheTTL: cfg.CacheTTL,
			DemoMode: cfg.DemoMode,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generous — a cold analysis read evaluates synchronously
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	// Root context cancelled by OS signal. Worker and HTTP server both respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the worker pool in a background goroutine. It blocks until ctx is done.
	go runner.Start(ctx)

	// Start the HTTP server in a background goroutine.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// The worker goroutine will exit when ctx is cancelled (already done).
	// runner.Start blocks until all worker goroutines finish — nothing extra needed.
	logger.Info("shutdown complete")
	return nil
}

// openDB opens the connection pool and verifies it is reachable before the
// rest of the stack is wired.
func openDB(dsn string) (*sql.DB, *db.Queries, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}

	// Tune the connection pool.
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	return pool, db.New(pool), nil
}
