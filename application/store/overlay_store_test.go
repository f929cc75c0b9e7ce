package store

import (
	"sync"
	"testing"

	"holocron/domain/character"
	"holocron/pkg/errors"
	"holocron/pkg/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lukeURL = "https://swapi.py4e.com/api/people/1/"

func luke() character.Character {
	return character.Character{
		Name:      "Luke Skywalker",
		Height:    "172",
		Mass:      "77",
		HairColor: "blond",
		SkinColor: "fair",
		EyeColor:  "blue",
		BirthYear: "19BBY",
		Gender:    "male",
		Homeworld: "https://swapi.py4e.com/api/planets/1/",
		Films:     []string{"https://swapi.py4e.com/api/films/1/"},
		Created:   "2014-12-09T13:50:51.644000Z",
		Edited:    "2014-12-20T21:17:56.891000Z",
		URL:       lukeURL,
	}
}

func edited(c character.Character) character.ValidatedCharacter {
	c.Name = "Luke Skywalker (Jedi)"
	c.Mass = "80"
	return character.ValidatedCharacter{Character: c}
}

func newStore() *OverlayStore {
	return NewOverlayStore(nil, zap.NewNop())
}

func TestOverlayStore_ResolveWithoutEntryReturnsOriginal(t *testing.T) {
	s := newStore()
	original := luke()

	got := s.Resolve(lukeURL, &original)

	assert.Same(t, &original, got)
	assert.Nil(t, s.Resolve(lukeURL, nil))
}

func TestOverlayStore_UpdateThenResolve(t *testing.T) {
	// Arrange
	s := newStore()
	original := luke()
	edit := edited(original)

	// Act
	require.NoError(t, s.Update(edit))
	got := s.Resolve(lukeURL, &original)

	// Assert
	require.NotNil(t, got)
	assert.Equal(t, edit.Character, *got)
	assert.Equal(t, "Luke Skywalker", original.Name, "original must not be mutated")
	assert.True(t, s.HasPendingEdit(lukeURL))
}

func TestOverlayStore_ResolveWithoutOriginalReturnsOverlay(t *testing.T) {
	s := newStore()
	edit := edited(luke())
	require.NoError(t, s.Update(edit))

	got := s.Resolve(lukeURL, nil)

	require.NotNil(t, got)
	assert.Equal(t, edit.Character, *got)
}

func TestOverlayStore_ResolveReturnsFreshValues(t *testing.T) {
	s := newStore()
	original := luke()
	require.NoError(t, s.Update(edited(original)))

	first := s.Resolve(lukeURL, &original)
	first.Name = "Vader"
	first.Films[0] = "tampered"

	second := s.Resolve(lukeURL, &original)
	assert.Equal(t, "Luke Skywalker (Jedi)", second.Name)
	assert.Equal(t, "https://swapi.py4e.com/api/films/1/", second.Films[0])
	assert.NotSame(t, first, second)
}

func TestOverlayStore_UpdateCopiesInput(t *testing.T) {
	s := newStore()
	edit := edited(luke())
	require.NoError(t, s.Update(edit))

	edit.Name = "changed after save"
	edit.Films[0] = "changed after save"

	got := s.Resolve(lukeURL, nil)
	assert.Equal(t, "Luke Skywalker (Jedi)", got.Name)
	assert.Equal(t, "https://swapi.py4e.com/api/films/1/", got.Films[0])
}

func TestOverlayStore_UpdateReplacesInFull(t *testing.T) {
	s := newStore()
	first := edited(luke())
	require.NoError(t, s.Update(first))

	second := character.ValidatedCharacter{Character: luke()}
	second.Gender = "n/a"
	require.NoError(t, s.Update(second))

	got := s.Resolve(lukeURL, nil)
	assert.Equal(t, "Luke Skywalker", got.Name)
	assert.Equal(t, "n/a", got.Gender)
	assert.Equal(t, 1, s.Len())
}

func TestOverlayStore_UpdateRejectsMissingURL(t *testing.T) {
	s := newStore()

	err := s.Update(character.ValidatedCharacter{Character: character.Character{Name: "Nobody"}})

	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 0, s.Len())
}

func TestOverlayStore_IncompleteEntryFallsBackToOriginal(t *testing.T) {
	s := newStore()
	original := luke()

	require.NoError(t, s.Update(character.ValidatedCharacter{Character: character.Character{
		Name: "Luke (partial)",
		URL:  lukeURL,
	}}))
	got := s.Resolve(lukeURL, &original)

	require.NotNil(t, got)
	assert.Equal(t, "Luke (partial)", got.Name)
	assert.Equal(t, "172", got.Height)
	assert.Equal(t, original.Films, got.Films)
	assert.Equal(t, lukeURL, got.URL)
}

func TestOverlayStore_Reset(t *testing.T) {
	s := newStore()
	original := luke()
	require.NoError(t, s.Update(edited(original)))

	s.Reset(lukeURL)

	assert.False(t, s.HasPendingEdit(lukeURL))
	assert.Same(t, &original, s.Resolve(lukeURL, &original))

	assert.NotPanics(t, func() { s.Reset("https://swapi.py4e.com/api/people/999/") })
}

func TestOverlayStore_ClearAllAndKeys(t *testing.T) {
	metrics := observability.NewCollector("store_test")
	s := NewOverlayStore(metrics, zap.NewNop())

	a := luke()
	b := luke()
	b.URL = "https://swapi.py4e.com/api/people/2/"
	require.NoError(t, s.Update(character.ValidatedCharacter{Character: b}))
	require.NoError(t, s.Update(character.ValidatedCharacter{Character: a}))

	assert.Equal(t, []string{lukeURL, b.URL}, s.Keys())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PendingEdits))

	s.ClearAll()

	assert.Empty(t, s.Keys())
	assert.False(t, s.HasPendingEdit(lukeURL))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PendingEdits))
}

func TestOverlayStore_ConcurrentAccess(t *testing.T) {
	s := newStore()
	original := luke()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.Update(edited(luke()))
				return
			}
			_ = s.Resolve(lukeURL, &original)
			_ = s.HasPendingEdit(lukeURL)
		}(i)
	}
	wg.Wait()

	assert.True(t, s.HasPendingEdit(lukeURL))
}
