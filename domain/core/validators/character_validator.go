package validators

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"holocron/domain/character"
	"holocron/pkg/errors"

	"github.com/go-playground/validator/v10"
)

const unknownValue = "unknown"

var (
	birthYearPattern = regexp.MustCompile(`(?i)^\d+(\.\d+)?(BBY|ABY|unknown)$`)
	heightPattern    = regexp.MustCompile(`^(\d+|unknown)$`)
	massPattern      = regexp.MustCompile(`^(\d+(\.\d+)?|unknown)$`)
)

// fieldMessages maps field -> failing tag -> message shown to the user.
var fieldMessages = map[string]map[string]string{
	character.FieldName: {
		"required": "Name is required",
		"max":      "Name must be less than 100 characters",
	},
	character.FieldBirthYear: {
		"required":  "Birth year is required",
		"birthyear": `Birth year must be in format like "19BBY", "4ABY", or "unknown"`,
	},
	character.FieldHeight: {
		"required":    "Height is required",
		"height":      `Height must be a number or "unknown"`,
		"heightrange": `Height must be between 1-500 cm or "unknown"`,
	},
	character.FieldMass: {
		"required":  "Mass is required",
		"mass":      `Mass must be a number or "unknown"`,
		"massrange": `Mass must be between 0-1000 kg or "unknown"`,
	},
	character.FieldHairColor: {
		"required": "Hair color is required",
		"max":      "Hair color must be less than 50 characters",
	},
	character.FieldSkinColor: {
		"required": "Skin color is required",
		"max":      "Skin color must be less than 50 characters",
	},
	character.FieldEyeColor: {
		"required": "Eye color is required",
		"max":      "Eye color must be less than 50 characters",
	},
	character.FieldGender: {
		"required": "Gender is required",
		"max":      "Gender must be less than 20 characters",
	},
}

// CharacterValidator checks character form submissions. Fields are validated
// independently and only the first failing rule of each field is reported.
type CharacterValidator struct {
	validate *validator.Validate
}

// NewCharacterValidator creates a validator with the character format rules registered
func NewCharacterValidator() *CharacterValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("birthyear", matches(birthYearPattern))
	_ = v.RegisterValidation("height", matches(heightPattern))
	_ = v.RegisterValidation("heightrange", validHeightRange)
	_ = v.RegisterValidation("mass", matches(massPattern))
	_ = v.RegisterValidation("massrange", validMassRange)

	return &CharacterValidator{validate: v}
}

// ValidateForm trims and validates form. On success the trimmed values are
// returned; on failure the error is a *errors.ValidationErrors keyed by field.
func (v *CharacterValidator) ValidateForm(form character.FormData) (character.FormData, error) {
	trimmed := form.Trimmed()

	err := v.validate.Struct(trimmed)
	if err == nil {
		return trimmed, nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return character.FormData{}, errors.NewInternalError("form validation failed").WithCause(err)
	}

	result := errors.NewValidationErrors()
	for _, fe := range fieldErrs {
		result.Add(fe.Field(), fe.Tag(), messageFor(fe.Field(), fe.Tag()))
	}
	return character.FormData{}, result
}

// Validate applies a valid form to base and returns the resulting record.
// Nothing is produced when any field fails.
func (v *CharacterValidator) Validate(base character.Character, form character.FormData) (character.ValidatedCharacter, error) {
	clean, err := v.ValidateForm(form)
	if err != nil {
		return character.ValidatedCharacter{}, err
	}
	return character.ValidatedCharacter{Character: character.Apply(base, clean)}, nil
}

func messageFor(field, tag string) string {
	if msg, ok := fieldMessages[field][tag]; ok {
		return msg
	}
	return field + " is invalid"
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func validHeightRange(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == unknownValue {
		return true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return n > 0 && n < 500
}

func validMassRange(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == unknownValue {
		return true
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	return n > 0 && n < 1000
}
