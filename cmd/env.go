package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/colcmp/internal/catalog"
	"github.com/sells-group/colcmp/internal/dataset"
	"github.com/sells-group/colcmp/internal/fetcher"
	"github.com/sells-group/colcmp/internal/store"
)

// appEnv holds the resolved location index, the optional figures cache, and
// the loader used by the compare/show/serve commands.
type appEnv struct {
	Index  *catalog.Catalog
	Cache  store.Store // nil when caching is off
	Loader *dataset.Loader
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
}

// initIndex loads the location index file into a catalog for name and code
// resolution. Index entries carry no figures; those come from the loader.
func initIndex() (*catalog.Catalog, error) {
	ds, err := dataset.LoadIndex(cfg.Index.Path)
	if err != nil {
		return nil, eris.Wrap(err, "load location index")
	}

	cat, err := catalog.Load(ds)
	if err != nil {
		return nil, eris.Wrap(err, "build catalog")
	}
	for _, w := range cat.Warnings() {
		zap.L().Warn("index entry skipped",
			zap.String("location", w.ID.String()),
			zap.String("reason", w.Message),
		)
	}

	zap.L().Debug("location index loaded",
		zap.String("path", cfg.Index.Path),
		zap.Int("locations", cat.Len()),
	)
	return cat, nil
}

// initCache opens the configured cache backend and runs its migration. A nil
// store with a nil error means caching is off.
func initCache(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Cache.Driver {
	case "off":
		return nil, nil
	case "sqlite":
		s, err := store.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Cache.DatabaseURL, &cfg.Cache.Pool)
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, eris.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate cache")
	}
	return st, nil
}

// initEnv validates config for the given mode and wires index, cache, client,
// and loader. Callers should defer env.Close().
func initEnv(ctx context.Context, mode string, useCache bool) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	index, err := initIndex()
	if err != nil {
		return nil, err
	}

	var cache store.Store
	if useCache {
		cache, err = initCache(ctx)
		if err != nil {
			return nil, err
		}
	}

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
		RatePerSec: cfg.Fetch.RatePerSec,
		Burst:      cfg.Fetch.Burst,
	})
	client := fetcher.NewClient(cfg.Fetch.BaseURL, httpFetcher)

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	loader := dataset.NewLoader(client, cache, ttl, cfg.Fetch.Concurrency)

	return &appEnv{Index: index, Cache: cache, Loader: loader}, nil
}
