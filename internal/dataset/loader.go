package dataset

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/colcmp/internal/model"
)

// Fetcher retrieves one location's figures from the remote source.
type Fetcher interface {
	FetchLocation(ctx context.Context, id model.ID) (*RawLocation, error)
}

// Cache stores fetched figures between runs. A nil result with a nil error
// means a miss.
type Cache interface {
	GetCachedLocation(ctx context.Context, id model.ID) (*RawLocation, error)
	SetCachedLocation(ctx context.Context, raw RawLocation, ttl time.Duration) error
}

// Warning records a non-fatal per-location anomaly during loading.
type Warning struct {
	ID      model.ID `json:"id"`
	Message string   `json:"message"`
}

// Loader assembles a Dataset for a set of resolved locations, going through
// the cache first and fetching the rest concurrently.
type Loader struct {
	fetcher     Fetcher
	cache       Cache // optional
	ttl         time.Duration
	concurrency int
}

// NewLoader creates a Loader. cache may be nil to disable caching.
func NewLoader(fetcher Fetcher, cache Cache, ttl time.Duration, concurrency int) *Loader {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Loader{fetcher: fetcher, cache: cache, ttl: ttl, concurrency: concurrency}
}

// Load fetches figures for each id, preserving input order. Individual
// failures become warnings; the result is an error only when nothing at all
// could be loaded.
func (l *Loader) Load(ctx context.Context, ids []model.ID) (Dataset, []Warning, error) {
	results := make([]*RawLocation, len(ids))

	var mu sync.Mutex
	var warnings []Warning
	warn := func(id model.ID, msg string) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, Warning{ID: id, Message: msg})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			raw, err := l.loadOne(gctx, id)
			if err != nil {
				// Cancellation is fatal; anything else is per-location.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				warn(id, err.Error())
				zap.L().Warn("location load failed",
					zap.String("location", id.String()),
					zap.Error(err),
				)
				return nil
			}
			results[i] = raw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	ds := make(Dataset, 0, len(ids))
	for _, raw := range results {
		if raw != nil {
			ds = append(ds, *raw)
		}
	}

	if len(ids) > 0 && len(ds) == 0 {
		return nil, warnings, ErrDataSource
	}
	return ds, warnings, nil
}

func (l *Loader) loadOne(ctx context.Context, id model.ID) (*RawLocation, error) {
	if l.cache != nil {
		cached, err := l.cache.GetCachedLocation(ctx, id)
		if err != nil {
			zap.L().Warn("cache read failed",
				zap.String("location", id.String()),
				zap.Error(err),
			)
		} else if cached != nil {
			zap.L().Debug("cache hit", zap.String("location", id.String()))
			return cached, nil
		}
	}

	raw, err := l.fetcher.FetchLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SetCachedLocation(ctx, *raw, l.ttl); err != nil {
			zap.L().Warn("cache write failed",
				zap.String("location", id.String()),
				zap.Error(err),
			)
		}
	}
	return raw, nil
}
