package handlers

import (
	"context"

	"holocron/application/commands"
	"holocron/application/services"

	"go.uber.org/zap"
)

// SaveCharacterEditHandler handles SaveCharacterEditCommand
type SaveCharacterEditHandler struct {
	form   *services.CharacterForm
	logger *zap.Logger
}

// NewSaveCharacterEditHandler creates a new handler instance
func NewSaveCharacterEditHandler(form *services.CharacterForm, logger *zap.Logger) *SaveCharacterEditHandler {
	return &SaveCharacterEditHandler{form: form, logger: logger}
}

// Handle validates the form and stores the edit. Validation failures are
// returned as *errors.ValidationErrors and leave the overlay untouched.
func (h *SaveCharacterEditHandler) Handle(ctx context.Context, cmd commands.SaveCharacterEditCommand) error {
	_, err := h.form.Save(cmd.Original, cmd.Form)
	return err
}

// ResetCharacterEditHandler handles ResetCharacterEditCommand
type ResetCharacterEditHandler struct {
	form   *services.CharacterForm
	logger *zap.Logger
}

// NewResetCharacterEditHandler creates a new handler instance
func NewResetCharacterEditHandler(form *services.CharacterForm, logger *zap.Logger) *ResetCharacterEditHandler {
	return &ResetCharacterEditHandler{form: form, logger: logger}
}

// Handle drops the edit. Resetting a character without an edit succeeds.
func (h *ResetCharacterEditHandler) Handle(ctx context.Context, cmd commands.ResetCharacterEditCommand) error {
	if !h.form.HasLocalChanges(cmd.URL) {
		h.logger.Debug("No local edit to reset", zap.String("url", cmd.URL))
	}
	h.form.Reset(cmd.URL)
	return nil
}

// ClearCharacterEditsHandler handles ClearCharacterEditsCommand
type ClearCharacterEditsHandler struct {
	form   *services.CharacterForm
	logger *zap.Logger
}

// NewClearCharacterEditsHandler creates a new handler instance
func NewClearCharacterEditsHandler(form *services.CharacterForm, logger *zap.Logger) *ClearCharacterEditsHandler {
	return &ClearCharacterEditsHandler{form: form, logger: logger}
}

// Handle drops every local edit
func (h *ClearCharacterEditsHandler) Handle(ctx context.Context, cmd commands.ClearCharacterEditsCommand) error {
	dropped := len(h.form.PendingEdits())
	h.form.ClearAll()
	h.logger.Info("Cleared local edits", zap.Int("count", dropped))
	return nil
}
