package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roofleads/backend/config"
	"github.com/roofleads/backend/internal/infrastructure/companycam"
	"github.com/roofleads/backend/internal/infrastructure/postgres"
	"github.com/roofleads/backend/internal/infrastructure/tenant"
	"github.com/roofleads/backend/internal/logging"
)

// env is the wiring shared by every subcommand
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	tenants *tenant.Registry
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	tenants, err := tenant.LoadFile(cfg.Tenants.File)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logging.New(cfg.Logging), tenants: tenants}, nil
}

// openStore connects to PostgreSQL. The caller closes the returned func.
func (e *env) openStore(ctx context.Context) (*postgres.Store, func(), error) {
	pool, err := postgres.Connect(ctx, postgres.Config{
		DatabaseURL: e.cfg.Database.URL,
		MaxConns:    e.cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewStore(pool), pool.Close, nil
}

func (e *env) companyCam() *companycam.Client {
	return companycam.NewClient(companycam.Config{
		BaseURL:        e.cfg.CompanyCam.BaseURL,
		RequestTimeout: e.cfg.CompanyCam.RequestTimeout,
		RateLimit:      e.cfg.CompanyCam.RateLimit,
	}, e.logger)
}
