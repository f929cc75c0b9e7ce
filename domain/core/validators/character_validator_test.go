package validators

import (
	"strings"
	"testing"

	"holocron/domain/character"
	"holocron/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() character.FormData {
	return character.FormData{
		Name:      "Luke Skywalker",
		BirthYear: "19BBY",
		Height:    "172",
		Mass:      "77",
		HairColor: "blond",
		SkinColor: "fair",
		EyeColor:  "blue",
		Gender:    "male",
	}
}

func validateField(t *testing.T, field, value string) *errors.ValidationErrors {
	t.Helper()
	form := validForm()
	require.True(t, form.Set(field, value))

	_, err := NewCharacterValidator().ValidateForm(form)
	if err == nil {
		return nil
	}
	var verrs *errors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs
}

func TestValidateForm_Valid(t *testing.T) {
	clean, err := NewCharacterValidator().ValidateForm(validForm())

	require.NoError(t, err)
	assert.Equal(t, validForm(), clean)
}

func TestValidateForm_TrimsValues(t *testing.T) {
	form := validForm()
	form.Name = "  Leia Organa  "
	form.Height = " 150 "

	clean, err := NewCharacterValidator().ValidateForm(form)

	require.NoError(t, err)
	assert.Equal(t, "Leia Organa", clean.Name)
	assert.Equal(t, "150", clean.Height)
}

func TestValidateForm_Height(t *testing.T) {
	tests := []struct {
		value   string
		wantMsg string
	}{
		{"1", ""},
		{"499", ""},
		{"unknown", ""},
		{"0", `Height must be between 1-500 cm or "unknown"`},
		{"500", `Height must be between 1-500 cm or "unknown"`},
		{"", "Height is required"},
		{"   ", "Height is required"},
		{"12.5", `Height must be a number or "unknown"`},
		{"tall", `Height must be a number or "unknown"`},
		{"99999999999999999999", `Height must be between 1-500 cm or "unknown"`},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			verrs := validateField(t, character.FieldHeight, tt.value)
			if tt.wantMsg == "" {
				assert.Nil(t, verrs)
				return
			}
			require.NotNil(t, verrs)
			assert.Equal(t, tt.wantMsg, verrs.First(character.FieldHeight))
		})
	}
}

func TestValidateForm_Mass(t *testing.T) {
	tests := []struct {
		value   string
		wantMsg string
	}{
		{"77", ""},
		{"78.2", ""},
		{"999.9", ""},
		{"unknown", ""},
		{"0", `Mass must be between 0-1000 kg or "unknown"`},
		{"1000", `Mass must be between 0-1000 kg or "unknown"`},
		{"1,358", `Mass must be a number or "unknown"`},
		{"", "Mass is required"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			verrs := validateField(t, character.FieldMass, tt.value)
			if tt.wantMsg == "" {
				assert.Nil(t, verrs)
				return
			}
			require.NotNil(t, verrs)
			assert.Equal(t, tt.wantMsg, verrs.First(character.FieldMass))
		})
	}
}

func TestValidateForm_BirthYear(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"19BBY", true},
		{"41.9BBY", true},
		{"4ABY", true},
		{"4aby", true},
		{"112unknown", true},
		{"BBY", false},
		{"19", false},
		{"19 BBY", false},
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			verrs := validateField(t, character.FieldBirthYear, tt.value)
			if tt.valid {
				assert.Nil(t, verrs)
			} else {
				require.NotNil(t, verrs)
				assert.True(t, verrs.Has(character.FieldBirthYear))
			}
		})
	}
}

func TestValidateForm_TextLengths(t *testing.T) {
	assert.Nil(t, validateField(t, character.FieldName, strings.Repeat("a", 100)))
	assert.Equal(t, "Name must be less than 100 characters",
		validateField(t, character.FieldName, strings.Repeat("a", 101)).First(character.FieldName))

	assert.Nil(t, validateField(t, character.FieldHairColor, strings.Repeat("b", 50)))
	assert.Equal(t, "Hair color must be less than 50 characters",
		validateField(t, character.FieldHairColor, strings.Repeat("b", 51)).First(character.FieldHairColor))

	assert.Nil(t, validateField(t, character.FieldGender, strings.Repeat("g", 20)))
	assert.Equal(t, "Gender must be less than 20 characters",
		validateField(t, character.FieldGender, strings.Repeat("g", 21)).First(character.FieldGender))

	assert.Equal(t, "Eye color is required", validateField(t, character.FieldEyeColor, "").First(character.FieldEyeColor))
	assert.Equal(t, "Skin color is required", validateField(t, character.FieldSkinColor, " ").First(character.FieldSkinColor))
}

func TestValidateForm_ReportsEveryFailingField(t *testing.T) {
	_, err := NewCharacterValidator().ValidateForm(character.FormData{Height: "0"})

	var verrs *errors.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{
		character.FieldBirthYear,
		character.FieldEyeColor,
		character.FieldGender,
		character.FieldHairColor,
		character.FieldHeight,
		character.FieldMass,
		character.FieldName,
		character.FieldSkinColor,
	}, verrs.Fields())
	assert.Len(t, verrs.ToMap()[character.FieldHeight], 1)
}

func TestValidate_AppliesFormToBase(t *testing.T) {
	base := character.Character{
		Name:  "Luke Skywalker",
		URL:   "https://swapi.py4e.com/api/people/1/",
		Films: []string{"https://swapi.py4e.com/api/films/1/"},
	}
	form := validForm()
	form.Name = "Luke"

	validated, err := NewCharacterValidator().Validate(base, form)

	require.NoError(t, err)
	assert.Equal(t, "Luke", validated.Name)
	assert.Equal(t, base.URL, validated.URL)
	assert.Equal(t, base.Films, validated.Films)
	assert.Equal(t, "Luke Skywalker", base.Name)
}

func TestValidate_NothingProducedOnFailure(t *testing.T) {
	form := validForm()
	form.Height = "500"

	validated, err := NewCharacterValidator().Validate(character.Character{URL: "x"}, form)

	require.Error(t, err)
	assert.Equal(t, character.ValidatedCharacter{}, validated)
}
