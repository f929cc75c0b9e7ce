package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"holocron/application/ports/mocks"
	"holocron/pkg/debounce/debouncetest"
	"holocron/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type wallClock struct {
	mu  sync.Mutex
	now time.Time
}

func (w *wallClock) Now() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

func (w *wallClock) Advance(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = w.now.Add(d)
}

func newManager(api *mocks.MockCharacterAPI, wall *wallClock) *SessionManager {
	return NewSessionManager(newQueryClient(api), SessionConfig{
		Clock: debouncetest.NewClock(),
		Now:   wall.Now,
	}, time.Minute, zap.NewNop())
}

func TestSessionManager_CreateGetDelete(t *testing.T) {
	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mocks.Params(1, "")).Return(resultPage(nil, "Luke"), nil).Once()
	m := newManager(api, &wallClock{now: time.Now()})
	defer m.Close()

	session := m.Create(context.Background())

	require.NotEmpty(t, session.ID())
	got, err := m.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Len(t, got.State().Characters, 1)

	require.NoError(t, m.Delete(session.ID()))
	_, err = m.Get(session.ID())
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsNotFound(m.Delete(session.ID())))
}

func TestSessionManager_SessionsShareCachedQueries(t *testing.T) {
	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mocks.Params(1, "")).Return(resultPage(nil, "Luke"), nil).Once()
	m := newManager(api, &wallClock{now: time.Now()})
	defer m.Close()

	a := m.Create(context.Background())
	b := m.Create(context.Background())

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, m.Len())
	api.AssertNumberOfCalls(t, "ListCharacters", 1)
}

func TestSessionManager_CreateSurvivesFetchError(t *testing.T) {
	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mock.Anything).Return(nil, errors.NewHTTPError(503)).Once()
	m := newManager(api, &wallClock{now: time.Now()})
	defer m.Close()

	session := m.Create(context.Background())

	state := session.State()
	assert.True(t, state.IsError)
	assert.Equal(t, "HTTP error! status: 503", state.Error)
}

func TestSessionManager_ExpireIdle(t *testing.T) {
	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mock.Anything).Return(resultPage(nil, "Luke"), nil)
	wall := &wallClock{now: time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)}
	m := newManager(api, wall)
	defer m.Close()

	idle := m.Create(context.Background())
	wall.Advance(45 * time.Second)
	active := m.Create(context.Background())
	wall.Advance(30 * time.Second)
	active.HandleSearchChange("Luke")

	assert.Equal(t, 1, m.ExpireIdle())

	_, err := m.Get(idle.ID())
	assert.True(t, errors.IsNotFound(err))
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

func TestSessionManager_PollingKeepsSessionAlive(t *testing.T) {
	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mocks.Params(1, "")).Return(resultPage(nil, "Luke"), nil).Once()
	wall := &wallClock{now: time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)}
	m := newManager(api, wall)
	defer m.Close()

	session := m.Create(context.Background())

	for poll := 1; poll <= 8; poll++ {
		wall.Advance(15 * time.Second)
		got, err := m.Get(session.ID())
		require.NoError(t, err, "poll %d", poll)
		assert.Len(t, got.State().Characters, 1)
		assert.Zero(t, m.ExpireIdle(), "poll %d", poll)
	}

	wall.Advance(2 * time.Minute)
	assert.Equal(t, 1, m.ExpireIdle())
	_, err := m.Get(session.ID())
	assert.True(t, errors.IsNotFound(err))
}

func TestSessionManager_CancelledRequestDoesNotLeakIntoOtherSessions(t *testing.T) {
	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mocks.Params(1, "")).Return(resultPage(strPtr("p2"), "Luke"), nil).Once()
	api.On("ListCharacters", mock.Anything, mocks.Params(2, "")).Return(nil, context.Canceled).Once()
	m := newManager(api, &wallClock{now: time.Now()})
	defer m.Close()

	a := m.Create(context.Background())
	b := m.Create(context.Background())

	gone, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, a.HandleEndReached(gone))

	for _, state := range []SessionState{a.State(), b.State()} {
		assert.False(t, state.IsError)
		assert.Empty(t, state.Error)
		assert.Len(t, state.Characters, 1)
		assert.True(t, state.HasNextPage)
	}
	api.AssertExpectations(t)
}

func TestSessionManager_RunStopsWithContext(t *testing.T) {
	m := newManager(new(mocks.MockCharacterAPI), &wallClock{now: time.Now()})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
