package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fusefi/internal/checkout"
	"fusefi/internal/config"
	"fusefi/internal/database"
	"fusefi/internal/handler"
	"fusefi/internal/payment"
	"fusefi/internal/pricing"
	"fusefi/internal/repository"
	"fusefi/internal/router"
	"fusefi/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting fusefi API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize redis client for the guest cart store
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	userCartRepo := repository.NewUserCartRepository(pool, logger)
	guestCartTTL := time.Duration(cfg.Redis.GuestCartTTLHours) * time.Hour
	guestCartRepo := repository.NewGuestCartRepository(redisClient, guestCartTTL, logger)

	// Load the discount tier schedule with S3 and local fallback
	tiers := loadTiers(ctx, cfg.Pricing, logger)
	calculator := pricing.NewCalculator(tiers)

	// Initialize payment client
	if cfg.Payment.EndpointURL == "" {
		logger.Warn().Msg("payment endpoint not configured, order submissions will be rejected")
	}
	paymentClient := payment.NewClient(payment.Config{
		EndpointURL: cfg.Payment.EndpointURL,
		Token:       cfg.Payment.Token,
		ReturnURL:   cfg.Payment.ReturnURL,
		Timeout:     time.Duration(cfg.Payment.TimeoutSeconds) * time.Second,
	}, logger)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, logger)
	cartService := service.NewCartService(guestCartRepo, userCartRepo, catalogRepo, calculator, logger)
	checkoutManager := checkout.NewManager(30*time.Minute, logger)
	checkoutService := service.NewCheckoutService(cartService, checkoutManager, paymentClient, logger)

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)

	// Initialize router
	mux := router.New(catalogHandler, cartHandler, checkoutHandler, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadTiers resolves the discount tier schedule. Any failure falls back
// to the built-in defaults rather than blocking startup.
func loadTiers(ctx context.Context, cfg config.PricingConfig, logger zerolog.Logger) []pricing.Tier {
	if cfg.TiersFile == "" {
		logger.Info().Msg("no discount tier file configured, using built-in defaults")
		return pricing.DefaultTiers()
	}

	fileLoader := pricing.NewFileLoader(logger)
	var loader pricing.Loader = fileLoader

	if cfg.S3Enabled {
		s3Loader, err := pricing.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = pricing.NewFallbackLoader(s3Loader, fileLoader, cfg.S3Prefix, true, logger)
		}
	}

	tiers, err := loader.Load(ctx, cfg.TiersFile)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("file", cfg.TiersFile).
			Msg("failed to load discount tier schedule, using built-in defaults")
		return pricing.DefaultTiers()
	}

	return tiers
}
