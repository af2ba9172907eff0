package dataset

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/colcmp/internal/model"
)

type stubFetcher struct {
	mu      sync.Mutex
	fetched []model.ID
	fail    map[model.ID]error
}

func (f *stubFetcher) FetchLocation(_ context.Context, id model.ID) (*RawLocation, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, id)
	f.mu.Unlock()

	if err, ok := f.fail[id]; ok {
		return nil, err
	}
	return &RawLocation{
		ID:   id,
		Name: "Location " + id.Code,
		Families: map[string]model.Figures{
			"1a0c": {HourlyWage: 20, BeforeTax: 40000, AfterTax: 34000},
		},
	}, nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[model.ID]RawLocation
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[model.ID]RawLocation)}
}

func (c *memCache) GetCachedLocation(_ context.Context, id model.ID) (*RawLocation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw, ok := c.entries[id]; ok {
		return &raw, nil
	}
	return nil, nil
}

func (c *memCache) SetCachedLocation(_ context.Context, raw RawLocation, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[raw.ID] = raw
	return nil
}

func TestLoaderLoadPreservesOrder(t *testing.T) {
	ids := []model.ID{
		{Kind: model.KindMetro, Code: "35620"},
		{Kind: model.KindMetro, Code: "12060"},
		{Kind: model.KindState, Code: "06"},
	}

	l := NewLoader(&stubFetcher{}, nil, time.Hour, 2)
	ds, warnings, err := l.Load(context.Background(), ids)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, ds, 3)
	for i, id := range ids {
		assert.Equal(t, id, ds[i].ID)
	}
}

func TestLoaderPartialFailureIsWarning(t *testing.T) {
	bad := model.ID{Kind: model.KindCounty, Code: "99999"}
	fetcher := &stubFetcher{fail: map[model.ID]error{bad: eris.New("page not found")}}

	ids := []model.ID{
		{Kind: model.KindMetro, Code: "35620"},
		bad,
	}

	l := NewLoader(fetcher, nil, time.Hour, 1)
	ds, warnings, err := l.Load(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, bad, warnings[0].ID)
	assert.Contains(t, warnings[0].Message, "page not found")
}

func TestLoaderAllFailedIsFatal(t *testing.T) {
	bad := model.ID{Kind: model.KindMetro, Code: "00000"}
	fetcher := &stubFetcher{fail: map[model.ID]error{bad: eris.New("boom")}}

	l := NewLoader(fetcher, nil, time.Hour, 1)
	_, warnings, err := l.Load(context.Background(), []model.ID{bad})
	assert.True(t, eris.Is(err, ErrDataSource))
	assert.Len(t, warnings, 1)
}

func TestLoaderUsesCache(t *testing.T) {
	id := model.ID{Kind: model.KindState, Code: "48"}
	cache := newMemCache()
	fetcher := &stubFetcher{}

	l := NewLoader(fetcher, cache, time.Hour, 1)

	// First load fetches and populates the cache.
	ds, _, err := l.Load(context.Background(), []model.ID{id})
	require.NoError(t, err)
	require.Len(t, ds, 1)
	require.Len(t, fetcher.fetched, 1)

	// Second load is served from cache.
	ds, _, err = l.Load(context.Background(), []model.ID{id})
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Len(t, fetcher.fetched, 1)
}

func TestLoaderEmptyInput(t *testing.T) {
	l := NewLoader(&stubFetcher{}, nil, time.Hour, 1)
	ds, warnings, err := l.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ds)
	assert.Empty(t, warnings)
}
