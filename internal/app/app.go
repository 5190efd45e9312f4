// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/archive"
	"github.com/jobrake/jobrake/internal/config"
	"github.com/jobrake/jobrake/internal/discovery"
	"github.com/jobrake/jobrake/internal/fetch"
	"github.com/jobrake/jobrake/internal/logging"
	"github.com/jobrake/jobrake/internal/scraper"
	"github.com/jobrake/jobrake/internal/store"
)

// App holds the shared services built once at startup: the logger, the job
// store, the two-tier fetch client, the company discovery provider, and the
// optional snapshot archiver.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	store    store.Store
	fetcher  *fetch.Client
	heavy    *fetch.Heavy
	serper   *discovery.Serper
	archiver *archive.Archiver
	gcs      *archive.GCSProvider
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store returns the job store.
func (a *App) Store() store.Store { return a.store }

// Fetcher returns the two-tier page fetch client.
func (a *App) Fetcher() *fetch.Client { return a.fetcher }

// Discovery returns the Serper company provider, or nil when no API key was
// configured.
func (a *App) Discovery() *discovery.Serper { return a.serper }

// Archiver returns the snapshot archiver, or nil when archiving is disabled.
func (a *App) Archiver() *archive.Archiver { return a.archiver }

// EngineConfig maps the scraper section of the configuration onto the crawl
// engine's knobs.
func (a *App) EngineConfig() scraper.Config {
	return scraper.Config{
		MaxDepth:        a.cfg.Scraper.MaxDepth,
		MaxCardsPerPage: a.cfg.Scraper.MaxCardsPerPage,
		MaxListingJobs:  a.cfg.Scraper.MaxListingJobs,
		MaxGatewayLinks: a.cfg.Scraper.MaxGatewayLinks,
		RoleMode:        a.cfg.Scraper.RoleMode,
	}
}

// New builds every service the commands need. It fails fast: a bad DSN,
// an unreachable GCS bucket, or a missing required key surfaces here rather
// than mid-scrape.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}

	if cfg.DB.DSN != "" {
		pg, err := store.NewPostgres(ctx, store.PostgresConfig{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		a.store = pg
	} else {
		logger.Warn("no database DSN configured, using in-memory store")
		a.store = store.NewMemory()
	}

	light := fetch.NewLight(fetch.LightConfig{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
	})
	var heavyFetcher fetch.Fetcher
	if cfg.Headless.Enabled {
		heavy, err := fetch.NewHeavy(fetch.HeavyConfig{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Fetch.UserAgent,
			NavigationTimeout: cfg.Headless.NavTimeout,
			ElementWait:       cfg.Headless.ElementWait,
			SettleDelay:       cfg.Fetch.SettleDelay,
			ScrollCycles:      cfg.Headless.ScrollCycles,
			DomainQPS:         cfg.Headless.DomainQPS,
		})
		if err != nil {
			return nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		a.heavy = heavy
		heavyFetcher = heavy
	} else {
		logger.Warn("headless tier disabled, JavaScript-rendered sites will degrade")
	}
	a.fetcher = fetch.NewClient(light, heavyFetcher, fetch.QualityConfig{
		MinWordCount:  cfg.Fetch.MinWordCount,
		MinTextLength: cfg.Fetch.MinTextLength,
	}, logger.Named("fetch"))

	if cfg.Discovery.APIKey != "" {
		serper, err := discovery.NewSerper(discovery.Config{
			APIKey:       cfg.Discovery.APIKey,
			BatchSize:    cfg.Discovery.BatchSize,
			MaxCompanies: cfg.Discovery.MaxCompanies,
		}, logger.Named("discovery"))
		if err != nil {
			return nil, fmt.Errorf("init discovery: %w", err)
		}
		a.serper = serper
	}

	if cfg.Archive.Enabled {
		provider, err := a.buildArchiveProvider(ctx)
		if err != nil {
			return nil, fmt.Errorf("init archive: %w", err)
		}
		a.archiver = archive.NewArchiver(provider, logger.Named("archive"))
	}

	return a, nil
}

func (a *App) buildArchiveProvider(ctx context.Context) (archive.Provider, error) {
	switch a.cfg.Archive.Backend {
	case "gcs":
		gcs, err := archive.NewGCSProvider(ctx, a.cfg.Archive.GCSBucket, a.logger)
		if err != nil {
			return nil, err
		}
		a.gcs = gcs
		return gcs, nil
	case "fs":
		return archive.NewFileSystemProvider(a.cfg.Archive.Dir)
	case "noop":
		return archive.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown archive backend: %s", a.cfg.Archive.Backend)
	}
}

// Close releases every service in reverse dependency order.
func (a *App) Close() {
	if a.gcs != nil {
		if err := a.gcs.Close(); err != nil {
			a.logger.Warn("closing GCS archive provider", zap.Error(err))
		}
	}
	if a.heavy != nil {
		a.heavy.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}
