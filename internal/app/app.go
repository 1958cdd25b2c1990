package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockroom/internal/advice"
	"github.com/andresuchdata/stockroom/internal/cache"
	"github.com/andresuchdata/stockroom/internal/config"
	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/drive"
	"github.com/andresuchdata/stockroom/internal/inventory"
	"github.com/andresuchdata/stockroom/internal/merch"
	"github.com/andresuchdata/stockroom/internal/service"
	"github.com/andresuchdata/stockroom/internal/storage"
)

// App holds the wired services shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Store     *inventory.Store
	Catalog   *service.CatalogService
	Dashboard *service.DashboardService
	Advice    *service.AdviceService
}

type options struct {
	seed    []domain.Product
	advisor advice.Advisor
	drive   service.DriveSource
}

type Option func(*options)

// WithProducts seeds the store instead of the demo shop.
func WithProducts(products []domain.Product) Option {
	return func(o *options) {
		o.seed = products
	}
}

// WithAdvisor replaces the Gemini advisor.
func WithAdvisor(a advice.Advisor) Option {
	return func(o *options) {
		o.advisor = a
	}
}

// WithDriveSource replaces the Google Drive client.
func WithDriveSource(d service.DriveSource) Option {
	return func(o *options) {
		o.drive = d
	}
}

// New wires the store, cache, advisor and optional Drive and archive
// backends. Optional backends that fail to start are logged and left off;
// a broken archive configuration is an error because it was asked for.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	seed := o.seed
	if seed == nil && cfg.App.SeedDemoData {
		seed = inventory.DemoProducts()
	}
	store := inventory.NewStore(seed)

	adviceCache, err := cache.NewAdviceCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("advice cache unavailable, continuing without it")
		adviceCache = cache.NewNoopAdviceCache()
	}

	advisor := o.advisor
	if advisor == nil {
		gemini, err := advice.NewGeminiAdvisor(ctx, cfg.Advice.APIKey, cfg.Advice.Model, cfg.Advice.Timeout())
		if err != nil {
			return nil, err
		}
		advisor = gemini
	}

	var catalogOpts []service.CatalogOption
	if cfg.Archive.Enabled {
		archive, err := storage.New(ctx, cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise archive storage: %w", err)
		}
		log.Info().Str("location", archive.Location()).Msg("export archive enabled")
		catalogOpts = append(catalogOpts, service.WithArchive(archive, cfg.Archive.Prefix))
	}

	driveSource := o.drive
	if driveSource == nil && cfg.Drive.CredentialsJSON != "" {
		driveService, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
		if err != nil {
			log.Warn().Err(err).Msg("Google Drive unavailable, Drive imports disabled")
		} else {
			driveSource = driveService
		}
	}
	if driveSource != nil {
		catalogOpts = append(catalogOpts, service.WithDrive(driveSource))
	}

	dashboard := service.NewDashboardService(store, merch.DefaultCalculator)

	return &App{
		Config:    cfg,
		Store:     store,
		Catalog:   service.NewCatalogService(store, catalogOpts...),
		Dashboard: dashboard,
		Advice:    service.NewAdviceService(advisor, adviceCache, dashboard, store, cfg.Advice.Concurrency),
	}, nil
}
