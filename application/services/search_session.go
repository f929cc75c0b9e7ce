package services

import (
	"context"
	"sync"
	"time"

	"holocron/application/queries"
	"holocron/pkg/debounce"

	"go.uber.org/zap"
)

// Defaults for search sessions.
const (
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultRequestTimeout = 20 * time.Second
)

// SessionConfig configures search sessions.
type SessionConfig struct {
	Debounce       time.Duration
	RequestTimeout time.Duration
	Clock          debounce.Clock
	Now            func() time.Time
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.Debounce <= 0 {
		c.Debounce = DefaultSearchDebounce
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Clock == nil {
		c.Clock = debounce.RealClock()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// SearchSession is the logic behind a searchable, endlessly scrolling
// character list. Raw search text is debounced; each debounced term selects
// its own accumulated query, so results of an earlier term never mix into
// the current one.
type SearchSession struct {
	id        string
	client    *queries.QueryClient
	config    SessionConfig
	debouncer *debounce.Debouncer[string]
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	searchQuery string
	active      *queries.InfiniteQuery
	lastUsed    time.Time
}

// NewSearchSession creates a session whose debounced term starts empty.
// Call Start to load the first page.
func NewSearchSession(id string, client *queries.QueryClient, config SessionConfig, logger *zap.Logger) *SearchSession {
	config = config.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &SearchSession{
		id:     id,
		client: client,
		config: config,
		logger: logger.With(zap.String("session_id", id)),
		ctx:    ctx,
		cancel: cancel,
	}
	s.active = client.Infinite(ctx, "")
	s.lastUsed = config.Now()
	s.debouncer = debounce.New("", config.Debounce,
		debounce.WithClock[string](config.Clock),
		debounce.WithOnChange(s.activate),
	)
	return s
}

// ID returns the session id.
func (s *SearchSession) ID() string {
	return s.id
}

// Start loads the first page of the current term.
func (s *SearchSession) Start(ctx context.Context) error {
	s.touch()
	return s.fetch(ctx, s.query().Fetch)
}

// HandleSearchChange records raw search text. The list follows it once the
// text has been stable for the debounce interval.
func (s *SearchSession) HandleSearchChange(text string) {
	s.mu.Lock()
	s.searchQuery = text
	s.lastUsed = s.config.Now()
	s.mu.Unlock()

	s.debouncer.Set(text)
}

// HandleEndReached loads the next page when one exists and none is loading.
func (s *SearchSession) HandleEndReached(ctx context.Context) error {
	s.touch()
	q := s.query()
	snap := q.Snapshot()
	if !snap.HasNextPage || snap.IsFetchingNextPage {
		return nil
	}
	return s.fetch(ctx, q.FetchNextPage)
}

// Refetch reloads the current term from its first page.
func (s *SearchSession) Refetch(ctx context.Context) error {
	s.touch()
	return s.fetch(ctx, s.query().Refetch)
}

// SessionState is what a list view renders.
type SessionState struct {
	ID                 string                      `json:"id"`
	SearchQuery        string                      `json:"searchQuery"`
	DebouncedSearch    string                      `json:"debouncedSearch"`
	Characters         []queries.CharacterListItem `json:"characters"`
	Count              int                         `json:"count"`
	Status             queries.Status              `json:"status"`
	HasNextPage        bool                        `json:"hasNextPage"`
	IsLoading          bool                        `json:"isLoading"`
	IsFetchingNextPage bool                        `json:"isFetchingNextPage"`
	IsError            bool                        `json:"isError"`
	Error              string                      `json:"error,omitempty"`
}

// State returns the current list state.
func (s *SearchSession) State() SessionState {
	s.mu.Lock()
	raw := s.searchQuery
	q := s.active
	s.mu.Unlock()

	snap := q.Snapshot()
	return SessionState{
		ID:                 s.id,
		SearchQuery:        raw,
		DebouncedSearch:    snap.Search,
		Characters:         queries.ListItems(snap.Records),
		Count:              snap.Count,
		Status:             snap.Status,
		HasNextPage:        snap.HasNextPage,
		IsLoading:          snap.IsLoading,
		IsFetchingNextPage: snap.IsFetchingNextPage,
		IsError:            snap.IsError,
		Error:              snap.Error,
	}
}

// LastUsed returns when the session was last touched by a caller.
func (s *SearchSession) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close cancels pending debounced changes and any background fetch.
func (s *SearchSession) Close() {
	s.debouncer.Stop()
	s.cancel()
}

// activate switches to the query of a newly debounced term and loads it.
// It runs on the debounce timer.
func (s *SearchSession) activate(term string) {
	q := s.client.Infinite(s.ctx, term)

	s.mu.Lock()
	if s.debouncer.Value() != term {
		s.mu.Unlock()
		return
	}
	s.active = q
	s.mu.Unlock()

	s.logger.Debug("Search term changed", zap.String("search", term))
	if err := s.fetch(s.ctx, q.Fetch); err != nil {
		s.logger.Warn("Initial page fetch failed",
			zap.String("search", term),
			zap.Error(err),
		)
	}
}

func (s *SearchSession) fetch(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()
	return fn(ctx)
}

func (s *SearchSession) query() *queries.InfiniteQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *SearchSession) touch() {
	s.mu.Lock()
	s.lastUsed = s.config.Now()
	s.mu.Unlock()
}
