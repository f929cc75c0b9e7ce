package services

import (
	"context"
	"sync"
	"time"

	"holocron/application/queries"
	"holocron/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultIdleTimeout is how long an untouched session survives.
const DefaultIdleTimeout = 30 * time.Minute

// SessionManager owns the search sessions of remote clients, keyed by a
// generated id. Sessions not used within the idle timeout are closed.
type SessionManager struct {
	client      *queries.QueryClient
	config      SessionConfig
	idleTimeout time.Duration
	logger      *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*SearchSession
}

// NewSessionManager creates an empty manager.
func NewSessionManager(client *queries.QueryClient, config SessionConfig, idleTimeout time.Duration, logger *zap.Logger) *SessionManager {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &SessionManager{
		client:      client,
		config:      config.withDefaults(),
		idleTimeout: idleTimeout,
		logger:      logger,
		sessions:    make(map[string]*SearchSession),
	}
}

// Create starts a new session and loads its first page. A failed first load
// is reported through the session state, not as an error.
func (m *SessionManager) Create(ctx context.Context) *SearchSession {
	id := uuid.NewString()
	session := NewSearchSession(id, m.client, m.config, m.logger)

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	if err := session.Start(ctx); err != nil {
		m.logger.Warn("Search session started with an error",
			zap.String("session_id", id),
			zap.Error(err),
		)
	}
	m.logger.Debug("Created search session", zap.String("session_id", id))
	return session
}

// Get returns the session with id and marks it used, so a client that only
// polls its state is not expired.
func (m *SessionManager) Get(id string) (*SearchSession, error) {
	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError("session")
	}
	session.touch()
	return session, nil
}

// Delete closes and removes the session with id.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return errors.NewNotFoundError("session")
	}
	session.Close()
	return nil
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle closes every session unused for longer than the idle timeout
// and returns how many were removed.
func (m *SessionManager) ExpireIdle() int {
	cutoff := m.config.Now().Add(-m.idleTimeout)

	var expired []*SearchSession
	m.mu.Lock()
	for id, session := range m.sessions {
		if session.LastUsed().Before(cutoff) {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}
	if len(expired) > 0 {
		m.logger.Info("Expired idle search sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run expires idle sessions every interval until ctx is done.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.ExpireIdle()
		case <-ctx.Done():
			return
		}
	}
}

// Close closes every session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*SearchSession)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
