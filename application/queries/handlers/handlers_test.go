package handlers

import (
	"context"
	"testing"

	"holocron/application/ports/mocks"
	"holocron/application/queries"
	"holocron/application/store"
	"holocron/domain/character"
	"holocron/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lukeURL = "https://swapi.py4e.com/api/people/1/"

func luke() *character.Character {
	return &character.Character{
		Name:      "Luke Skywalker",
		Height:    "172",
		Mass:      "77",
		HairColor: "blond",
		SkinColor: "fair",
		EyeColor:  "blue",
		BirthYear: "19BBY",
		Gender:    "male",
		URL:       lukeURL,
	}
}

func newClient(api *mocks.MockCharacterAPI) *queries.QueryClient {
	return queries.NewQueryClient(api, cache.NewInMemoryCache(0), queries.DefaultClientConfig(), nil, zap.NewNop())
}

func TestGetCharacterHandler_ResolvesLocalEdit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	api := new(mocks.MockCharacterAPI)
	api.On("GetCharacter", mock.Anything, "1").Return(luke(), nil)

	overlay := store.NewOverlayStore(nil, zap.NewNop())
	handler := NewGetCharacterHandler(newClient(api), overlay, zap.NewNop())

	// Act
	before, err := handler.Handle(ctx, queries.GetCharacterQuery{ID: "1"})
	require.NoError(t, err)

	edit := *luke()
	edit.Name = "Luke (edited)"
	require.NoError(t, overlay.Update(character.ValidatedCharacter{Character: edit}))

	after, err := handler.Handle(ctx, queries.GetCharacterQuery{ID: "1"})
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "Luke Skywalker", before.Character.Name)
	assert.False(t, before.HasLocalChanges)
	assert.Equal(t, "1", before.ID)

	assert.Equal(t, "Luke (edited)", after.Character.Name)
	assert.Equal(t, "Luke (edited)", after.Form.Name)
	assert.True(t, after.HasLocalChanges)
}

func TestListCharactersHandler_ReturnsRawRecordsWithIDs(t *testing.T) {
	ctx := context.Background()
	page := 1
	search := "Luke"
	next := "https://swapi.py4e.com/api/people/?search=Luke&page=2"

	api := new(mocks.MockCharacterAPI)
	api.On("ListCharacters", mock.Anything, mocks.Params(1, "Luke")).Return(&character.Page{
		Count:   1,
		Next:    &next,
		Results: []character.Character{*luke()},
	}, nil)

	overlay := store.NewOverlayStore(nil, zap.NewNop())
	edit := *luke()
	edit.Name = "Luke (edited)"
	require.NoError(t, overlay.Update(character.ValidatedCharacter{Character: edit}))

	handler := NewListCharactersHandler(newClient(api), zap.NewNop())

	result, err := handler.Handle(ctx, queries.ListCharactersQuery{Page: &page, Search: &search})

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "1", result.Results[0].ID)
	assert.Equal(t, "Luke Skywalker", result.Results[0].Name)
	assert.Equal(t, &next, result.Next)
	assert.Equal(t, 1, result.Count)
}

func TestListPendingEditsHandler(t *testing.T) {
	overlay := store.NewOverlayStore(nil, zap.NewNop())
	handler := NewListPendingEditsHandler(overlay)

	empty, err := handler.Handle(context.Background(), queries.ListPendingEditsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Edits)

	require.NoError(t, overlay.Update(character.ValidatedCharacter{Character: *luke()}))

	result, err := handler.Handle(context.Background(), queries.ListPendingEditsQuery{})
	require.NoError(t, err)
	require.Len(t, result.Edits, 1)
	assert.Equal(t, queries.PendingEdit{ID: "1", URL: lukeURL, Name: "Luke Skywalker"}, result.Edits[0])
}
