package commands

import (
	"holocron/domain/character"
	"holocron/pkg/errors"
)

// SaveCharacterEditCommand stores a validated local edit of a character
type SaveCharacterEditCommand struct {
	Original character.Character
	Form     character.FormData
}

// Validate validates the SaveCharacterEditCommand. Form rules are checked by
// the handler so that failures come back keyed by field.
func (c SaveCharacterEditCommand) Validate() error {
	if c.Original.URL == "" {
		return errors.NewValidationError("character url is required")
	}
	return nil
}

// ResetCharacterEditCommand drops the local edit of one character
type ResetCharacterEditCommand struct {
	URL string
}

// Validate validates the ResetCharacterEditCommand
func (c ResetCharacterEditCommand) Validate() error {
	if c.URL == "" {
		return errors.NewValidationError("character url is required")
	}
	return nil
}

// ClearCharacterEditsCommand drops every local edit
type ClearCharacterEditsCommand struct{}

// Validate validates the ClearCharacterEditsCommand
func (ClearCharacterEditsCommand) Validate() error {
	return nil
}
