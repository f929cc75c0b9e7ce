package handlers

import (
	"context"
	"testing"

	"holocron/application/commands"
	"holocron/application/services"
	"holocron/application/store"
	"holocron/domain/character"
	"holocron/domain/core/validators"
	"holocron/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup() (*services.CharacterForm, *store.OverlayStore) {
	overlay := store.NewOverlayStore(nil, zap.NewNop())
	return services.NewCharacterForm(validators.NewCharacterValidator(), overlay, zap.NewNop()), overlay
}

func leia() character.Character {
	return character.Character{
		Name:      "Leia Organa",
		Height:    "150",
		Mass:      "49",
		HairColor: "brown",
		SkinColor: "light",
		EyeColor:  "brown",
		BirthYear: "19BBY",
		Gender:    "female",
		URL:       "https://swapi.py4e.com/api/people/5/",
	}
}

func TestSaveCharacterEditHandler(t *testing.T) {
	ctx := context.Background()
	form, overlay := setup()
	handler := NewSaveCharacterEditHandler(form, zap.NewNop())

	values := character.FormValues(leia())
	values.Name = "General Organa"
	require.NoError(t, handler.Handle(ctx, commands.SaveCharacterEditCommand{Original: leia(), Form: values}))

	original := leia()
	assert.Equal(t, "General Organa", overlay.Resolve(original.URL, &original).Name)

	values.Mass = "heavy"
	err := handler.Handle(ctx, commands.SaveCharacterEditCommand{Original: leia(), Form: values})
	var verrs *errors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(character.FieldMass))
}

func TestResetAndClearHandlers(t *testing.T) {
	ctx := context.Background()
	form, overlay := setup()
	_, err := form.Save(leia(), character.FormValues(leia()))
	require.NoError(t, err)

	reset := NewResetCharacterEditHandler(form, zap.NewNop())
	require.NoError(t, reset.Handle(ctx, commands.ResetCharacterEditCommand{URL: leia().URL}))
	assert.False(t, overlay.HasPendingEdit(leia().URL))
	require.NoError(t, reset.Handle(ctx, commands.ResetCharacterEditCommand{URL: leia().URL}))

	_, err = form.Save(leia(), character.FormValues(leia()))
	require.NoError(t, err)

	clearHandler := NewClearCharacterEditsHandler(form, zap.NewNop())
	require.NoError(t, clearHandler.Handle(ctx, commands.ClearCharacterEditsCommand{}))
	assert.Equal(t, 0, overlay.Len())
}

func TestCommandValidation(t *testing.T) {
	assert.True(t, errors.IsValidation(commands.SaveCharacterEditCommand{}.Validate()))
	assert.True(t, errors.IsValidation(commands.ResetCharacterEditCommand{}.Validate()))
	assert.NoError(t, commands.ClearCharacterEditsCommand{}.Validate())
}
