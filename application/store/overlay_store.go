// Package store holds the in-process edit overlay: locally saved,
// validated versions of catalog characters keyed by their identity URL.
package store

import (
	"sort"
	"sync"

	"holocron/domain/character"
	"holocron/pkg/errors"
	"holocron/pkg/observability"

	"go.uber.org/zap"
)

// OverlayStore maps a character URL to its locally edited version. Entries
// live for the lifetime of the process only. All methods are safe for
// concurrent use and every write is visible to the next read.
type OverlayStore struct {
	mu      sync.RWMutex
	edits   map[string]character.Character
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewOverlayStore creates an empty store. metrics may be nil.
func NewOverlayStore(metrics *observability.Collector, logger *zap.Logger) *OverlayStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverlayStore{
		edits:   make(map[string]character.Character),
		metrics: metrics,
		logger:  logger,
	}
}

// Update inserts or fully replaces the entry for c.URL. It only checks that
// the URL is set; validation and completeness are the caller's job, which
// CharacterForm.Save does. Empty fields of an entry fall back to the
// original in Resolve.
func (s *OverlayStore) Update(c character.ValidatedCharacter) error {
	if c.URL == "" {
		return errors.NewValidationError("character url is required")
	}

	s.mu.Lock()
	s.edits[c.URL] = c.Character.Clone()
	n := len(s.edits)
	s.mu.Unlock()

	s.metrics.SetPendingEdits(n)
	s.logger.Debug("Stored local edit", zap.String("url", c.URL), zap.Int("pending", n))
	return nil
}

// Resolve returns what should be displayed for url. Without an overlay entry
// it returns original unchanged, which may be nil. With one it returns a
// fresh merge of original and the overlay, overlay fields taking precedence.
func (s *OverlayStore) Resolve(url string, original *character.Character) *character.Character {
	s.mu.RLock()
	overlay, ok := s.edits[url]
	s.mu.RUnlock()

	if !ok {
		return original
	}

	var base character.Character
	if original != nil {
		base = *original
	}
	merged := character.Merge(base, overlay)
	return &merged
}

// Reset drops the entry for url. Absent keys are ignored.
func (s *OverlayStore) Reset(url string) {
	s.mu.Lock()
	_, existed := s.edits[url]
	delete(s.edits, url)
	n := len(s.edits)
	s.mu.Unlock()

	if existed {
		s.metrics.SetPendingEdits(n)
		s.logger.Debug("Reset local edit", zap.String("url", url))
	}
}

// HasPendingEdit reports whether url has an overlay entry.
func (s *OverlayStore) HasPendingEdit(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.edits[url]
	return ok
}

// ClearAll empties the store.
func (s *OverlayStore) ClearAll() {
	s.mu.Lock()
	n := len(s.edits)
	s.edits = make(map[string]character.Character)
	s.mu.Unlock()

	s.metrics.SetPendingEdits(0)
	s.logger.Debug("Cleared local edits", zap.Int("dropped", n))
}

// Keys returns the URLs with pending edits, sorted.
func (s *OverlayStore) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.edits))
	for k := range s.edits {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Len returns the number of pending edits.
func (s *OverlayStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edits)
}
