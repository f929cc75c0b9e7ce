package services

import (
	"holocron/application/store"
	"holocron/domain/character"
	"holocron/domain/core/validators"
	"holocron/pkg/errors"

	"go.uber.org/zap"
)

// SavedMessage is reported after a successful local save.
const SavedMessage = "Character information saved locally!"

// CharacterForm is the edit logic behind a character detail view. It
// validates submissions and keeps the edit overlay in sync. Nothing it does
// touches the catalog.
type CharacterForm struct {
	validator *validators.CharacterValidator
	store     *store.OverlayStore
	logger    *zap.Logger
}

// NewCharacterForm creates a form service over overlay.
func NewCharacterForm(validator *validators.CharacterValidator, overlay *store.OverlayStore, logger *zap.Logger) *CharacterForm {
	return &CharacterForm{
		validator: validator,
		store:     overlay,
		logger:    logger,
	}
}

// Resolve returns original with any local edit applied.
func (f *CharacterForm) Resolve(original *character.Character) *character.Character {
	if original == nil {
		return nil
	}
	return f.store.Resolve(original.URL, original)
}

// FormValues returns the editable fields as they should be prefilled.
func (f *CharacterForm) FormValues(original *character.Character) character.FormData {
	resolved := f.Resolve(original)
	if resolved == nil {
		return character.FormData{}
	}
	return character.FormValues(*resolved)
}

// Save validates form and stores the resolved character with the form
// applied. Either every field is saved or none is; on failure the error is a
// *errors.ValidationErrors.
func (f *CharacterForm) Save(original character.Character, form character.FormData) (*character.Character, error) {
	if original.URL == "" {
		return nil, errors.NewValidationError("character url is required")
	}

	base := f.store.Resolve(original.URL, &original)
	validated, err := f.validator.Validate(*base, form)
	if err != nil {
		f.logger.Debug("Rejected character edit",
			zap.String("url", original.URL),
			zap.Error(err),
		)
		return nil, err
	}

	if err := f.store.Update(validated); err != nil {
		return nil, err
	}

	f.logger.Info(SavedMessage, zap.String("url", original.URL))
	return f.store.Resolve(original.URL, &original), nil
}

// Reset drops the local edit for url.
func (f *CharacterForm) Reset(url string) {
	f.store.Reset(url)
}

// ClearAll drops every local edit.
func (f *CharacterForm) ClearAll() {
	f.store.ClearAll()
}

// HasLocalChanges reports whether url has a saved local edit.
func (f *CharacterForm) HasLocalChanges(url string) bool {
	return f.store.HasPendingEdit(url)
}

// PendingEdits lists the URLs with local edits.
func (f *CharacterForm) PendingEdits() []string {
	return f.store.Keys()
}
