package queries

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"holocron/application/ports"
	"holocron/domain/character"
	"holocron/pkg/errors"

	"go.uber.org/zap"
)

// Status is the lifecycle state of an InfiniteQuery.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// InfiniteQuery accumulates the pages of one search term in order. At most
// one request is in flight at a time; calls made while one is outstanding
// are no-ops, except Refetch, which supersedes a next-page load.
// A query is shared by every caller searching the same term, so a fetch
// abandoned by its caller's context leaves the previous state in place.
type InfiniteQuery struct {
	api    ports.CharacterAPI
	search string
	key    string
	logger *zap.Logger

	mu           sync.Mutex
	status       Status
	pages        []character.Page
	err          error
	inFlight     bool
	fetchingNext bool
	generation   uint64
	updatedAt    time.Time

	// restored when the in-flight request is cancelled
	prevStatus Status
	prevPages  []character.Page
	prevErr    error
}

// NewInfiniteQuery creates an idle query for search. Nothing is fetched
// until Fetch is called.
func NewInfiniteQuery(api ports.CharacterAPI, search string, logger *zap.Logger) *InfiniteQuery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InfiniteQuery{
		api:    api,
		search: search,
		key:    InfiniteKey(search),
		logger: logger,
		status: StatusIdle,
	}
}

// Key returns the query key.
func (q *InfiniteQuery) Key() string {
	return q.key
}

// Search returns the term every page is requested with.
func (q *InfiniteQuery) Search() string {
	return q.search
}

// Fetch loads the first page unless data is already present.
func (q *InfiniteQuery) Fetch(ctx context.Context) error {
	q.mu.Lock()
	if q.inFlight || len(q.pages) > 0 {
		q.mu.Unlock()
		return nil
	}
	gen := q.begin(false)
	q.mu.Unlock()

	return q.load(ctx, 1, gen)
}

// FetchNextPage requests page N+1 and appends its records. It does nothing
// when a request is already in flight or the last page had no next cursor.
func (q *InfiniteQuery) FetchNextPage(ctx context.Context) error {
	q.mu.Lock()
	if q.inFlight || !q.hasNextPage() {
		q.mu.Unlock()
		return nil
	}
	pageNum := len(q.pages) + 1
	gen := q.begin(true)
	q.mu.Unlock()

	return q.load(ctx, pageNum, gen)
}

// Refetch discards every accumulated page and loads page 1 again. A
// next-page load still in flight is superseded and its result discarded;
// a first-page load in flight makes Refetch a no-op.
func (q *InfiniteQuery) Refetch(ctx context.Context) error {
	q.mu.Lock()
	if q.inFlight && !q.fetchingNext {
		q.mu.Unlock()
		return nil
	}
	if q.inFlight {
		q.logger.Debug("Refetch supersedes next page load", zap.String("key", q.key))
	}
	gen := q.begin(false)
	q.pages = nil
	q.mu.Unlock()

	return q.load(ctx, 1, gen)
}

// Invalidate drops accumulated state. A request still in flight completes
// but its result is discarded.
func (q *InfiniteQuery) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.generation++
	q.pages = nil
	q.err = nil
	q.inFlight = false
	q.fetchingNext = false
	q.status = StatusIdle
}

// begin marks a request as started and remembers the settled state to
// fall back to if it is cancelled. Callers hold q.mu.
func (q *InfiniteQuery) begin(next bool) uint64 {
	if !q.inFlight {
		q.prevStatus = q.status
		q.prevPages = q.pages
		q.prevErr = q.err
	}
	q.generation++
	q.inFlight = true
	q.fetchingNext = next
	if !next {
		q.status = StatusLoading
		q.err = nil
	}
	return q.generation
}

func (q *InfiniteQuery) load(ctx context.Context, pageNum int, gen uint64) error {
	page, err := q.api.ListCharacters(ctx, character.NewSearchParams(pageNum, q.search))

	q.mu.Lock()
	defer q.mu.Unlock()

	if gen != q.generation {
		q.logger.Debug("Discarding stale page",
			zap.String("key", q.key),
			zap.Int("page", pageNum),
		)
		return nil
	}

	q.inFlight = false
	q.fetchingNext = false

	if err != nil && cancelled(ctx, err) {
		q.status = q.prevStatus
		q.pages = q.prevPages
		q.err = q.prevErr
		q.logger.Debug("Character page fetch abandoned",
			zap.String("key", q.key),
			zap.Int("page", pageNum),
			zap.Error(err),
		)
		return err
	}

	if err != nil {
		q.status = StatusError
		q.err = err
		q.logger.Warn("Character page fetch failed",
			zap.String("key", q.key),
			zap.Int("page", pageNum),
			zap.Error(err),
		)
		return err
	}

	if page == nil {
		page = &character.Page{}
	}
	q.pages = append(q.pages, *page)
	q.status = StatusSuccess
	q.err = nil
	q.updatedAt = time.Now()

	q.logger.Debug("Fetched character page",
		zap.String("key", q.key),
		zap.Int("page", pageNum),
		zap.Int("results", len(page.Results)),
	)
	return nil
}

// cancelled reports whether err comes from the caller giving up rather than
// from the catalog.
func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded)
}

func (q *InfiniteQuery) hasNextPage() bool {
	if len(q.pages) == 0 {
		return false
	}
	return q.pages[len(q.pages)-1].HasNext()
}

// Snapshot is a consistent, caller-owned view of an InfiniteQuery.
type Snapshot struct {
	Key                string                `json:"key"`
	Search             string                `json:"search"`
	Status             Status                `json:"status"`
	Records            []character.Character `json:"records"`
	Count              int                   `json:"count"`
	PagesLoaded        int                   `json:"pagesLoaded"`
	HasNextPage        bool                  `json:"hasNextPage"`
	IsLoading          bool                  `json:"isLoading"`
	IsFetchingNextPage bool                  `json:"isFetchingNextPage"`
	IsError            bool                  `json:"isError"`
	Error              string                `json:"error,omitempty"`
	UpdatedAt          time.Time             `json:"updatedAt,omitempty"`
}

// Snapshot returns the current state. Records is the concatenation of every
// fetched page in page order and is never nil.
func (q *InfiniteQuery) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	records := make([]character.Character, 0)
	for _, p := range q.pages {
		for _, c := range p.Results {
			records = append(records, c.Clone())
		}
	}

	s := Snapshot{
		Key:                q.key,
		Search:             q.search,
		Status:             q.status,
		Records:            records,
		PagesLoaded:        len(q.pages),
		HasNextPage:        q.hasNextPage(),
		IsLoading:          q.status == StatusLoading,
		IsFetchingNextPage: q.fetchingNext,
		IsError:            q.status == StatusError,
		UpdatedAt:          q.updatedAt,
	}
	if len(q.pages) > 0 {
		s.Count = q.pages[len(q.pages)-1].Count
	}
	if s.IsError {
		s.Error = errors.ErrorMessage(q.err, "")
	}
	return s
}
