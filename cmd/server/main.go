package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/app"
	"github.com/nekogravitycat/salon-booking-backend/internal/calendar"
	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/config"
	"github.com/nekogravitycat/salon-booking-backend/internal/db"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.IsProduction)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN, log)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer pool.Close()

	// Connect Redis (optional)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	} else {
		log.Warn("REDIS_ADDR empty, drafts are kept in memory")
	}

	breaker := calendar.DefaultBreakerConfig()
	breaker.FailureThreshold = uint32(cfg.CalendarBreakerFailures)
	breaker.Timeout = cfg.CalendarBreakerTimeout

	container := app.NewContainer(app.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          log,
		Clock:           clock.NewSystem(),
		DBPool:          pool,
		Redis:           rdb,
		JWTSecret:       cfg.JWTSecret,
		JWTTTL:          cfg.JWTAccessTokenTTL,
		Location:        cfg.Location,
		SlotGranularity: cfg.SlotGranularity,
		SessionIdleTTL:  cfg.SessionIdleTTL,
		Breaker:         breaker,
	})

	// Close idle booking sessions in the background
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		container.Sessions.Run(ctx, cfg.SessionSweepInterval)
	}()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("timezone", cfg.Location.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		stop()
		<-sweepDone
		return fmt.Errorf("listen: %w", err)
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}
	<-sweepDone

	log.Info("server exited gracefully")
	return nil
}
