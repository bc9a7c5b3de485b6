// Package app wires the stores, services and collaborators of questmap
// together. Commands and the HTTP server build one App and use its
// services.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/questmap/internal/catalog"
	"github.com/abhisek/questmap/internal/discovery"
	"github.com/abhisek/questmap/internal/knowledgegraph"
	"github.com/abhisek/questmap/internal/llm"
	"github.com/abhisek/questmap/internal/platform/cache"
	"github.com/abhisek/questmap/internal/platform/config"
	"github.com/abhisek/questmap/internal/platform/database"
	"github.com/abhisek/questmap/internal/platform/logger"
	"github.com/abhisek/questmap/internal/progress"
	"github.com/abhisek/questmap/internal/recommend"
	"github.com/abhisek/questmap/internal/store"
)

// progressBackend is what the configured progress store must provide.
type progressBackend interface {
	progress.Store
	catalog.ItemRemover
}

// Options configures New.
type Options struct {
	Config *config.Config
	Logger *logger.Logger

	// DBPath overrides Config.Store.SQLitePath.
	DBPath string

	// Provider overrides the LLM provider built from Config.LLM. Set
	// DisableLLM to run without one.
	Provider   llm.Provider
	DisableLLM bool
}

// App holds the wired services.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Store    *store.Store
	Catalog  *catalog.Service
	Progress *progress.Service
	Provider llm.Provider

	health  []func(context.Context) error
	closers []func() error
}

// New opens the stores and builds the services.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	a := &App{Config: cfg, Log: log}

	path := opts.DBPath
	if path == "" {
		path = cfg.Store.SQLitePath
	}
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, err
		}
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = s
	a.closers = append(a.closers, s.Close)
	a.health = append(a.health, func(ctx context.Context) error { return s.DB().PingContext(ctx) })

	backend, err := a.openProgressBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Provider = opts.Provider
	if a.Provider == nil && !opts.DisableLLM {
		a.Provider = a.buildProvider(ctx)
	}

	var (
		suggester recommend.Suggester = recommend.NewStatic()
		linker    knowledgegraph.Linker
	)
	if a.Provider != nil {
		rcfg := recommend.DefaultConfig()
		suggester = &recommend.Fallback{
			Primary:   recommend.NewLLMSuggester(a.Provider, rcfg),
			Secondary: recommend.NewStatic(),
			Log:       log,
		}
		linker = recommend.NewLinker(a.Provider, rcfg)
	}

	a.Catalog = catalog.New(s, backend, linker, log)
	a.Progress = progress.NewService(backend, discovery.NewMachine(cfg.Discovery),
		progress.WithCatalog(a.Catalog),
		progress.WithEvents(s.EventRepo()),
		progress.WithSuggester(suggester),
		progress.WithLogger(log),
	)
	return a, nil
}

func (a *App) openProgressBackend(ctx context.Context) (progressBackend, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { db.Close(); return nil })
		a.health = append(a.health, db.HealthCheck)
		return database.NewProgressStore(ctx, db)

	case config.BackendRedis:
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, c.Close)
		a.health = append(a.health, c.HealthCheck)
		return cache.NewProgressStore(c, cfg.Cache.KeyPrefix), nil
	}
	return a.Store.Progress(), nil
}

// buildProvider returns nil when no LLM is configured; the static
// suggester is used then.
func (a *App) buildProvider(ctx context.Context) llm.Provider {
	p, err := llm.NewProvider(ctx, a.Config.LLM, a.Store.EventRepo(), a.Log)
	if err == nil {
		return p
	}
	if discovered, ok := llm.DiscoverConfig(); ok {
		if p, err = llm.NewProvider(ctx, discovered, a.Store.EventRepo(), a.Log); err == nil {
			return p
		}
	}
	a.Log.Debug("no LLM provider configured", "error", err)
	return nil
}

// HealthCheck pings every backing store.
func (a *App) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, h := range a.health {
		if err := h(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every store in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
