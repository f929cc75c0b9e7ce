package queries

import (
	"context"
	"strconv"
	"sync"
	"time"

	"holocron/application/ports"
	"holocron/domain/character"
	"holocron/pkg/errors"
	"holocron/pkg/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Default stale times for cached results, and the bound on a shared fetch.
const (
	DefaultListStaleTime   = 5 * time.Minute
	DefaultDetailStaleTime = 10 * time.Minute
	DefaultFetchTimeout    = 20 * time.Second
)

// Cache lookup kinds reported to metrics.
const (
	kindInfinite = "infinite"
	kindPage     = "page"
	kindDetail   = "detail"
)

// ClientConfig holds the stale times of a QueryClient. FetchTimeout bounds
// a request shared by concurrent callers, which outlives any one of them.
type ClientConfig struct {
	ListStaleTime   time.Duration
	DetailStaleTime time.Duration
	FetchTimeout    time.Duration
}

// DefaultClientConfig returns the default stale times.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ListStaleTime:   DefaultListStaleTime,
		DetailStaleTime: DefaultDetailStaleTime,
		FetchTimeout:    DefaultFetchTimeout,
	}
}

// QueryClient caches character queries by query key on top of the record
// access layer. Cached values are reused until their stale time passes.
type QueryClient struct {
	api     ports.CharacterAPI
	cache   ports.Cache
	config  ClientConfig
	metrics *observability.Collector
	logger  *zap.Logger

	mu    sync.Mutex
	group singleflight.Group
}

// NewQueryClient creates a query client. metrics may be nil.
func NewQueryClient(
	api ports.CharacterAPI,
	cache ports.Cache,
	config ClientConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) *QueryClient {
	if config.ListStaleTime <= 0 {
		config.ListStaleTime = DefaultListStaleTime
	}
	if config.DetailStaleTime <= 0 {
		config.DetailStaleTime = DefaultDetailStaleTime
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryClient{
		api:     api,
		cache:   cache,
		config:  config,
		metrics: metrics,
		logger:  logger,
	}
}

// Infinite returns the accumulated listing for search, creating an idle one
// when none is cached. The same term always maps to the same query until
// it goes stale or is invalidated.
func (c *QueryClient) Infinite(ctx context.Context, search string) *InfiniteQuery {
	k := InfiniteKey(search)

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache.Get(ctx, k); ok {
		if q, ok := cached.(*InfiniteQuery); ok {
			c.metrics.RecordCacheLookup(kindInfinite, true)
			return q
		}
	}
	c.metrics.RecordCacheLookup(kindInfinite, false)

	q := NewInfiniteQuery(c.api, search, c.logger)
	if err := c.cache.Set(ctx, k, q, c.config.ListStaleTime); err != nil {
		c.logger.Warn("Failed to cache query", zap.String("key", k), zap.Error(err))
	}
	return q
}

// Page fetches a single listing page. Results are cached per page and term.
func (c *QueryClient) Page(ctx context.Context, params character.SearchParams) (*character.Page, error) {
	pageNum := 1
	if params.Page != nil {
		pageNum = *params.Page
	}
	search := ""
	if params.Search != nil {
		search = *params.Search
	}
	k := key(scopeCharacters, scopeList, kindPage, search, strconv.Itoa(pageNum))

	v, err := c.cached(ctx, kindPage, k, c.config.ListStaleTime, func(ctx context.Context) (interface{}, error) {
		return c.api.ListCharacters(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	cachedPage := v.(*character.Page)
	page := *cachedPage
	page.Results = make([]character.Character, len(cachedPage.Results))
	for i, r := range cachedPage.Results {
		page.Results[i] = r.Clone()
	}
	return &page, nil
}

// Person fetches one character by id. An empty id is rejected without a
// request. Concurrent calls for the same id share one request.
func (c *QueryClient) Person(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, errors.NewValidationError("character id is required")
	}

	v, err := c.cached(ctx, kindDetail, DetailKey(id), c.config.DetailStaleTime, func(ctx context.Context) (interface{}, error) {
		return c.api.GetCharacter(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	out := v.(*character.Character).Clone()
	return &out, nil
}

// Invalidate drops the cached result for k. The scope keys CharactersKey and
// ListKey clear the whole cache. Queries already handed out keep their state.
func (c *QueryClient) Invalidate(ctx context.Context, k string) error {
	if k == CharactersKey() || k == ListKey() {
		return c.cache.Clear(ctx)
	}
	return c.cache.Delete(ctx, k)
}

func (c *QueryClient) cached(
	ctx context.Context,
	kind, k string,
	ttl time.Duration,
	fetch func(context.Context) (interface{}, error),
) (interface{}, error) {
	if v, ok := c.cache.Get(ctx, k); ok {
		c.metrics.RecordCacheLookup(kind, true)
		return v, nil
	}
	c.metrics.RecordCacheLookup(kind, false)

	// The request is shared, so it must not die with the caller that
	// happened to start it. A caller that gives up stops waiting.
	ch := c.group.DoChan(k, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.FetchTimeout)
		defer cancel()

		v, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(fetchCtx, k, v, ttl); err != nil {
			c.logger.Warn("Failed to cache query", zap.String("key", k), zap.Error(err))
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("Shared in-flight query", zap.String("key", k))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
