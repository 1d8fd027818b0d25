// Package app is the composition root shared by the API server and the admin CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mentordex/internal/config"
	"github.com/kailas-cloud/mentordex/internal/db"
	dbRedis "github.com/kailas-cloud/mentordex/internal/db/redis"
	"github.com/kailas-cloud/mentordex/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/mentordex/internal/db/valkey"
	directoryrepo "github.com/kailas-cloud/mentordex/internal/repository/directory"
	searchrepo "github.com/kailas-cloud/mentordex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/mentordex/internal/transport/chi"
	analyticsuc "github.com/kailas-cloud/mentordex/internal/usecase/analytics"
	globaluc "github.com/kailas-cloud/mentordex/internal/usecase/global"
	healthuc "github.com/kailas-cloud/mentordex/internal/usecase/health"
	indexeruc "github.com/kailas-cloud/mentordex/internal/usecase/indexer"
	mentoruc "github.com/kailas-cloud/mentordex/internal/usecase/mentor"
	searchuc "github.com/kailas-cloud/mentordex/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/mentordex/internal/usecase/suggest"
)

// App holds the wired stores and use cases.
type App struct {
	Config config.Config
	Logger *zap.Logger

	DB        *sql.DB
	Directory *directoryrepo.Repo
	// Index is nil when search_index.driver is none.
	Index *searchrepo.Repo

	Probe     *searchuc.CapabilityProbe
	Search    *searchuc.Service
	Suggest   *suggestuc.Service
	Analytics *analyticsuc.Service
	Global    *globaluc.Service
	Mentors   *mentoruc.Service
	// Indexer is nil when there is no advanced index to rebuild.
	Indexer *indexeruc.Service
	Health  *healthuc.Service

	store db.Store
}

// New opens the directory, applies migrations, connects the advanced index
// (waiting up to readiness_timeout_sec) and builds every use case.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := sqlite.Open(cfg.Directory.DSN)
	if err != nil {
		return nil, fmt.Errorf("open directory: %w", err)
	}
	if err := sqlite.Migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate directory: %w", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        sqlDB,
		Directory: directoryrepo.New(sqlDB),
	}

	if cfg.SearchIndex.Enabled() {
		store, err := openStore(ctx, &cfg.SearchIndex)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		a.store = store
		a.Index = searchrepo.New(store, cfg.SearchIndex.KeyPrefix)
	}

	a.wire()
	return a, nil
}

func openStore(ctx context.Context, cfg *config.SearchIndexConfig) (db.Store, error) {
	conn := dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
	}

	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverValkey:
		store, err = dbValkey.NewStore(conn)
	case config.DriverRedis:
		store, err = dbRedis.NewStore(conn)
	default:
		return nil, fmt.Errorf("unknown search index driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("search index not ready: %w", err)
	}
	return store, nil
}

// wire builds the use cases. Interface arguments get an untyped nil when no
// index is configured: a typed nil *searchrepo.Repo would compare non-nil.
func (a *App) wire() {
	cfg := a.Config

	a.Analytics = analyticsuc.New(a.Directory, cfg.Analytics.CacheTTL())

	var (
		prober      searchuc.Prober
		searchIdx   searchuc.Index
		suggestIdx  suggestuc.Index
		mentorIdx   mentoruc.Index
		indexPinger healthuc.Pinger
	)
	if a.Index != nil {
		prober, searchIdx, suggestIdx, mentorIdx = a.Index, a.Index, a.Index, a.Index
		indexPinger = a.store
	}

	a.Probe = searchuc.NewCapabilityProbe(prober,
		cfg.SearchIndex.ProbeTimeout(), cfg.SearchIndex.ProbeCacheTTL(), a.Logger)
	a.Search = searchuc.New(a.Directory, searchIdx, a.Probe, a.Logger)
	a.Suggest = suggestuc.New(suggestIdx, a.Probe, a.Logger)
	a.Global = globaluc.New(a.Search, a.Directory)
	a.Mentors = mentoruc.New(a.Directory, mentorIdx, a.Analytics, a.Logger)
	a.Health = healthuc.New(a.Directory, indexPinger)

	if a.Index != nil {
		a.Indexer = indexeruc.New(a.Directory, a.Index, a.Probe,
			cfg.Indexer.BatchSize, cfg.Indexer.Workers, a.Logger, a.Analytics, a.Probe)
	}
}

// Services exposes the use cases to the HTTP transport.
func (a *App) Services() chiTransport.Services {
	return chiTransport.Services{
		Search:    a.Search,
		Mentors:   a.Mentors,
		Suggest:   a.Suggest,
		Analytics: a.Analytics,
		Global:    a.Global,
		Health:    a.Health,
	}
}

// Close releases the index connection and the directory.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("Failed to close directory", zap.Error(err))
	}
}
