package character

import "strings"

// Editable field names, in form order.
const (
	FieldName      = "name"
	FieldBirthYear = "birth_year"
	FieldHeight    = "height"
	FieldMass      = "mass"
	FieldHairColor = "hair_color"
	FieldSkinColor = "skin_color"
	FieldEyeColor  = "eye_color"
	FieldGender    = "gender"
)

// EditableFields lists every field a user may change.
var EditableFields = []string{
	FieldName,
	FieldBirthYear,
	FieldHeight,
	FieldMass,
	FieldHairColor,
	FieldSkinColor,
	FieldEyeColor,
	FieldGender,
}

// FormData holds the user-submitted values for the editable fields.
type FormData struct {
	Name      string `json:"name" validate:"required,max=100"`
	BirthYear string `json:"birth_year" validate:"required,birthyear"`
	Height    string `json:"height" validate:"required,height,heightrange"`
	Mass      string `json:"mass" validate:"required,mass,massrange"`
	HairColor string `json:"hair_color" validate:"required,max=50"`
	SkinColor string `json:"skin_color" validate:"required,max=50"`
	EyeColor  string `json:"eye_color" validate:"required,max=50"`
	Gender    string `json:"gender" validate:"required,max=20"`
}

// FormValues extracts the editable fields of c.
func FormValues(c Character) FormData {
	return FormData{
		Name:      c.Name,
		BirthYear: c.BirthYear,
		Height:    c.Height,
		Mass:      c.Mass,
		HairColor: c.HairColor,
		SkinColor: c.SkinColor,
		EyeColor:  c.EyeColor,
		Gender:    c.Gender,
	}
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (f FormData) Trimmed() FormData {
	return FormData{
		Name:      strings.TrimSpace(f.Name),
		BirthYear: strings.TrimSpace(f.BirthYear),
		Height:    strings.TrimSpace(f.Height),
		Mass:      strings.TrimSpace(f.Mass),
		HairColor: strings.TrimSpace(f.HairColor),
		SkinColor: strings.TrimSpace(f.SkinColor),
		EyeColor:  strings.TrimSpace(f.EyeColor),
		Gender:    strings.TrimSpace(f.Gender),
	}
}

// Set assigns value to the named editable field. It reports false for an
// unknown field name.
func (f *FormData) Set(field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldBirthYear:
		f.BirthYear = value
	case FieldHeight:
		f.Height = value
	case FieldMass:
		f.Mass = value
	case FieldHairColor:
		f.HairColor = value
	case FieldSkinColor:
		f.SkinColor = value
	case FieldEyeColor:
		f.EyeColor = value
	case FieldGender:
		f.Gender = value
	default:
		return false
	}
	return true
}

// Apply returns a copy of c with the form values written over its editable fields.
func Apply(c Character, f FormData) Character {
	out := c.Clone()
	out.Name = f.Name
	out.BirthYear = f.BirthYear
	out.Height = f.Height
	out.Mass = f.Mass
	out.HairColor = f.HairColor
	out.SkinColor = f.SkinColor
	out.EyeColor = f.EyeColor
	out.Gender = f.Gender
	return out
}
