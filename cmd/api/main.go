package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mini-bookstore/internal/archive"
	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/cache"
	"mini-bookstore/internal/config"
	"mini-bookstore/internal/database"
	"mini-bookstore/internal/handler"
	"mini-bookstore/internal/payment"
	"mini-bookstore/internal/repository"
	"mini-bookstore/internal/router"
	"mini-bookstore/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting bookstore API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(pool, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info().Str("address", cfg.Redis.Address()).Msg("redis connection established")

	loc, err := time.LoadLocation(cfg.Report.Location)
	if err != nil {
		return fmt.Errorf("failed to load report timezone: %w", err)
	}

	// Payment simulator
	outcome, err := payment.NewOutcome(cfg.Payment.Outcome, cfg.Payment.SuccessProbability)
	if err != nil {
		return fmt.Errorf("failed to configure payment outcome: %w", err)
	}
	sessions := payment.NewRedisSessionStore(redisClient, 24*time.Hour)
	gateway := payment.NewSimulator(sessions, outcome, cfg.Payment, logger)

	// Report archive with S3 and local fallback
	fileStore := archive.NewFileStore(cfg.S3.ArchiveDir, logger)
	var s3Store archive.Store
	if cfg.S3.Enabled {
		s3Store, err = archive.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 store, falling back to local file system only")
			s3Store = nil
		}
	} else {
		logger.Info().Msg("using local file system for report archives (S3 disabled)")
	}
	archiveStore := archive.NewFallbackStore(s3Store, fileStore, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	reportCache := cache.NewRedisReportCache(redisClient, cfg.Report.CacheTTL)

	// Repositories
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	purchaseRepo := repository.NewPurchaseRepository(pool, logger)

	// Services
	reportService := service.NewReportService(purchaseRepo, reportCache, archiveStore, loc, logger)
	cartService := service.NewCartService(cartRepo, logger)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, purchaseRepo, gateway, reportService, logger)
	paymentService := service.NewPaymentService(gateway, cartRepo, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	purchaseService := service.NewPurchaseService(purchaseRepo, loc, logger)

	// Handlers
	handlers := router.Handlers{
		Cart:     handler.NewCartHandler(cartService, checkoutService, orderService, logger),
		Payment:  handler.NewPaymentHandler(paymentService, orderService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Report:   handler.NewReportHandler(reportService, logger),
		Purchase: handler.NewPurchaseHandler(purchaseService, logger),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(pool.Ping),
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}, logger),
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	mux := router.New(handlers, tokens, cfg.Server.AllowedOrigin, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
