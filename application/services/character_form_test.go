package services

import (
	"testing"

	"holocron/application/store"
	"holocron/domain/character"
	"holocron/domain/core/validators"
	"holocron/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lukeURL = "https://swapi.py4e.com/api/people/1/"

func luke() character.Character {
	return character.Character{
		Name:      "Luke Skywalker",
		Height:    "172",
		Mass:      "77",
		HairColor: "blond",
		SkinColor: "fair",
		EyeColor:  "blue",
		BirthYear: "19BBY",
		Gender:    "male",
		Homeworld: "https://swapi.py4e.com/api/planets/1/",
		Films:     []string{"https://swapi.py4e.com/api/films/1/"},
		URL:       lukeURL,
	}
}

func newForm() (*CharacterForm, *store.OverlayStore) {
	overlay := store.NewOverlayStore(nil, zap.NewNop())
	return NewCharacterForm(validators.NewCharacterValidator(), overlay, zap.NewNop()), overlay
}

func TestCharacterForm_SaveValidEdit(t *testing.T) {
	// Arrange
	form, overlay := newForm()
	original := luke()
	values := form.FormValues(&original)
	values.Name = "  Luke Skywalker (Jedi)  "
	values.Mass = "80.5"

	// Act
	saved, err := form.Save(original, values)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Luke Skywalker (Jedi)", saved.Name)
	assert.Equal(t, "80.5", saved.Mass)
	assert.Equal(t, original.Homeworld, saved.Homeworld)
	assert.Equal(t, original.Films, saved.Films)
	assert.True(t, form.HasLocalChanges(lukeURL))
	assert.True(t, overlay.HasPendingEdit(lukeURL))
	assert.Equal(t, "Luke Skywalker", original.Name)

	assert.Equal(t, "Luke Skywalker (Jedi)", form.Resolve(&original).Name)
	assert.Equal(t, "Luke Skywalker (Jedi)", form.FormValues(&original).Name)
	assert.Equal(t, []string{lukeURL}, form.PendingEdits())
}

func TestCharacterForm_SaveRejectsInvalidFormAtomically(t *testing.T) {
	form, _ := newForm()
	original := luke()
	values := character.FormValues(original)
	values.Name = "Changed"
	values.Height = "500"
	values.BirthYear = "yesterday"

	saved, err := form.Save(original, values)

	assert.Nil(t, saved)
	var verrs *errors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{character.FieldBirthYear, character.FieldHeight}, verrs.Fields())
	assert.Equal(t, `Height must be between 1-500 cm or "unknown"`, verrs.First(character.FieldHeight))
	assert.False(t, form.HasLocalChanges(lukeURL))
	assert.Same(t, &original, form.Resolve(&original))
}

func TestCharacterForm_SecondSaveBuildsOnFirst(t *testing.T) {
	form, _ := newForm()
	original := luke()

	first := character.FormValues(original)
	first.Name = "Luke (1)"
	_, err := form.Save(original, first)
	require.NoError(t, err)

	second := form.FormValues(&original)
	second.Gender = "n/a"
	saved, err := form.Save(original, second)
	require.NoError(t, err)

	assert.Equal(t, "Luke (1)", saved.Name)
	assert.Equal(t, "n/a", saved.Gender)
}

func TestCharacterForm_ResetAndClear(t *testing.T) {
	form, _ := newForm()
	original := luke()
	other := luke()
	other.URL = "https://swapi.py4e.com/api/people/2/"

	_, err := form.Save(original, character.FormValues(original))
	require.NoError(t, err)
	_, err = form.Save(other, character.FormValues(other))
	require.NoError(t, err)

	form.Reset(lukeURL)
	assert.False(t, form.HasLocalChanges(lukeURL))
	assert.True(t, form.HasLocalChanges(other.URL))

	form.ClearAll()
	assert.Empty(t, form.PendingEdits())
}

func TestCharacterForm_SaveRequiresIdentity(t *testing.T) {
	form, _ := newForm()
	original := luke()
	original.URL = ""

	_, err := form.Save(original, character.FormValues(luke()))

	assert.True(t, errors.IsValidation(err))
	assert.Nil(t, form.Resolve(nil))
	assert.Equal(t, character.FormData{}, form.FormValues(nil))
}
