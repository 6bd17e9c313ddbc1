package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roofleads/backend/config"
	httpDelivery "github.com/roofleads/backend/internal/delivery/http"
	"github.com/roofleads/backend/internal/infrastructure/auth"
	"github.com/roofleads/backend/internal/infrastructure/cache"
	"github.com/roofleads/backend/internal/infrastructure/companycam"
	"github.com/roofleads/backend/internal/infrastructure/maps"
	"github.com/roofleads/backend/internal/infrastructure/postgres"
	"github.com/roofleads/backend/internal/infrastructure/tenant"
	"github.com/roofleads/backend/internal/infrastructure/timeline"
	"github.com/roofleads/backend/internal/logging"
	"github.com/roofleads/backend/internal/usecase"
)

// shutdownTimeout bounds how long in-flight requests get to finish
const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting RoofLeads backend",
		"version", httpDelivery.Version,
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	// Tenant registry; tokens are read from the environment variables each tenant names
	tenants, err := tenant.LoadFile(cfg.Tenants.File)
	if err != nil {
		return fmt.Errorf("load tenants: %w", err)
	}
	logger.Info("tenants loaded", "file", cfg.Tenants.File, "tenants", tenants.Names())

	// Database
	pool, err := postgres.Connect(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewStore(pool)
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Upstream clients
	companyCam := companycam.NewClient(companycam.Config{
		BaseURL:        cfg.CompanyCam.BaseURL,
		RequestTimeout: cfg.CompanyCam.RequestTimeout,
		RateLimit:      cfg.CompanyCam.RateLimit,
	}, logger)

	mapsClient := maps.NewClient(cfg.Maps.APIKey, cfg.Maps.BaseURL, logger)
	if !mapsClient.Configured() {
		logger.Warn("Google Maps API key not configured, street view lookups will report not_configured")
	}

	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	defer memoryCache.Close()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	// Use cases
	resolver := usecase.NewAddressResolver(companyCam, tenants, usecase.ResolverConfig{
		PageSize:       cfg.CompanyCam.PageSize,
		PhotoLimit:     cfg.CompanyCam.PhotoLimit,
		MaxSearchTime:  cfg.CompanyCam.MaxSearchTime,
		RequestTimeout: cfg.CompanyCam.RequestTimeout,
	}, logger)

	gallery := usecase.NewGalleryService(companyCam, tenants, logger)
	if cfg.CompanyCam.ScrapeTimeline {
		gallery.WithTimelineFallback(timeline.NewScraper(timeline.Config{}, logger))
	}

	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Search: resolver,
		Leads:  usecase.NewLeadService(store, store, logger),
		Auth:   usecase.NewAuthService(store, auth.Passwords{}, tokens, logger),
		Dashboard: usecase.NewDashboardService(usecase.DashboardRepositories{
			Leads:     store,
			Users:     store,
			Prospects: store,
			Projects:  store,
			Stats:     store,
		}, tenants, logger),
		Gallery:    gallery,
		StreetView: usecase.NewStreetViewService(mapsClient, memoryCache, cfg.Maps.CacheTTL, logger),
		Tenants:    tenants,
	}, logger)

	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
