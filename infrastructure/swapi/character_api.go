package swapi

import (
	"context"
	"fmt"

	"holocron/application/ports"
	"holocron/domain/character"
	"holocron/pkg/utils"
)

// DefaultCollection is the catalog collection holding characters.
const DefaultCollection = "people"

// CharacterAPI reads characters from one catalog collection.
type CharacterAPI struct {
	client     *HTTPClient
	collection string
}

var _ ports.CharacterAPI = (*CharacterAPI)(nil)

// NewCharacterAPI creates a record access layer over client.
func NewCharacterAPI(client *HTTPClient, collection string) *CharacterAPI {
	if collection == "" {
		collection = DefaultCollection
	}
	return &CharacterAPI{
		client:     client,
		collection: collection,
	}
}

// ListCharacters requests /<collection> with page and search appended when set.
func (a *CharacterAPI) ListCharacters(ctx context.Context, params character.SearchParams) (*character.Page, error) {
	query := utils.BuildQueryString(
		utils.Param("page", utils.OptionalInt(params.Page)),
		utils.Param("search", utils.OptionalString(params.Search)),
	)

	page, err := Get[character.Page](ctx, a.client, "/"+a.collection+query)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCharacter requests /<collection>/<id>/. The trailing slash is required by the catalog.
func (a *CharacterAPI) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	c, err := Get[character.Character](ctx, a.client, fmt.Sprintf("/%s/%s/", a.collection, id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}
