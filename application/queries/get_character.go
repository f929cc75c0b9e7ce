package queries

import (
	"holocron/domain/character"
	"holocron/pkg/errors"
)

// GetCharacterQuery represents a query to get a single character
type GetCharacterQuery struct {
	ID string
}

// Validate validates the GetCharacterQuery
func (q GetCharacterQuery) Validate() error {
	if q.ID == "" {
		return errors.NewValidationError("character id is required")
	}
	return nil
}

// GetCharacterResult is what the detail view shows: the character with any
// local edit applied, and the current form values.
type GetCharacterResult struct {
	ID              string              `json:"id"`
	Character       character.Character `json:"character"`
	HasLocalChanges bool                `json:"hasLocalChanges"`
	Form            character.FormData  `json:"form"`
}
