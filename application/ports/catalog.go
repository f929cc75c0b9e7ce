package ports

import (
	"context"
	"time"

	"holocron/domain/character"
)

// CharacterAPI is the record access layer over the remote catalog.
// Errors from the transport (HTTP, network, parse) are returned unchanged.
type CharacterAPI interface {
	// ListCharacters returns one page of the collection, optionally filtered by a search term.
	ListCharacters(ctx context.Context, params character.SearchParams) (*character.Page, error)

	// GetCharacter returns a single record by its numeric id.
	GetCharacter(ctx context.Context, id string) (*character.Character, error)
}

// Cache stores query state by key with a per-entry time to live.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
