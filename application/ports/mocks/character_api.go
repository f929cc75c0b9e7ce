// Package mocks provides testify mocks of the application ports.
package mocks

import (
	"context"

	"holocron/application/ports"
	"holocron/domain/character"

	"github.com/stretchr/testify/mock"
)

// MockCharacterAPI is a mock of ports.CharacterAPI.
type MockCharacterAPI struct {
	mock.Mock
}

var _ ports.CharacterAPI = (*MockCharacterAPI)(nil)

// ListCharacters implements ports.CharacterAPI
func (m *MockCharacterAPI) ListCharacters(ctx context.Context, params character.SearchParams) (*character.Page, error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*character.Page)
	return page, args.Error(1)
}

// GetCharacter implements ports.CharacterAPI
func (m *MockCharacterAPI) GetCharacter(ctx context.Context, id string) (*character.Character, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*character.Character)
	return c, args.Error(1)
}

// Params matches SearchParams by value for use in On.
func Params(page int, search string) interface{} {
	return mock.MatchedBy(func(p character.SearchParams) bool {
		return p.Page != nil && *p.Page == page &&
			p.Search != nil && *p.Search == search
	})
}
