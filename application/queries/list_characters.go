package queries

import (
	"holocron/domain/character"
	"holocron/pkg/errors"
	"holocron/pkg/utils"
)

// ListCharactersQuery requests one page of the character listing. Nil
// fields are left out of the catalog request.
type ListCharactersQuery struct {
	Page   *int
	Search *string
}

// Validate validates the ListCharactersQuery
func (q ListCharactersQuery) Validate() error {
	if q.Page != nil && *q.Page < 1 {
		return errors.NewValidationError("page must be a positive integer")
	}
	return nil
}

// CharacterListItem is a listed character plus the id used to open it.
type CharacterListItem struct {
	ID string `json:"id"`
	character.Character
}

// NewCharacterListItem derives the navigation id from c.URL.
func NewCharacterListItem(c character.Character) CharacterListItem {
	return CharacterListItem{
		ID:        utils.ExtractIDFromURL(c.URL),
		Character: c,
	}
}

// ListItems converts records into list items, preserving order.
func ListItems(records []character.Character) []CharacterListItem {
	items := make([]CharacterListItem, len(records))
	for i, c := range records {
		items[i] = NewCharacterListItem(c)
	}
	return items
}

// ListCharactersResult represents one listing page
type ListCharactersResult struct {
	Count    int                 `json:"count"`
	Next     *string             `json:"next"`
	Previous *string             `json:"previous"`
	Results  []CharacterListItem `json:"results"`
}
