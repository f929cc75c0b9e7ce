// Package character models catalog characters, the pages they are listed in,
// and the editable subset of their fields.
package character

import "slices"

// Character is one catalog record. URL is its identity and never changes;
// every other field may only change through the edit overlay.
type Character struct {
	Name      string   `json:"name"`
	Height    string   `json:"height"`
	Mass      string   `json:"mass"`
	HairColor string   `json:"hair_color"`
	SkinColor string   `json:"skin_color"`
	EyeColor  string   `json:"eye_color"`
	BirthYear string   `json:"birth_year"`
	Gender    string   `json:"gender"`
	Homeworld string   `json:"homeworld"`
	Films     []string `json:"films"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	Starships []string `json:"starships"`
	Created   string   `json:"created"`
	Edited    string   `json:"edited"`
	URL       string   `json:"url"`
}

// ValidatedCharacter marks a Character whose editable fields are meant to
// have passed form validation. validators.CharacterValidator produces them;
// the type itself enforces nothing.
type ValidatedCharacter struct {
	Character
}

// Clone returns a deep copy so callers cannot share slice backing arrays.
func (c Character) Clone() Character {
	out := c
	out.Films = slices.Clone(c.Films)
	out.Species = slices.Clone(c.Species)
	out.Vehicles = slices.Clone(c.Vehicles)
	out.Starships = slices.Clone(c.Starships)
	return out
}

// Merge combines original and overlay field by field. A non-empty overlay
// field wins; an empty one falls back to original. Neither argument is
// modified and the result shares no slices with them.
func Merge(original, overlay Character) Character {
	return Character{
		Name:      pickString(overlay.Name, original.Name),
		Height:    pickString(overlay.Height, original.Height),
		Mass:      pickString(overlay.Mass, original.Mass),
		HairColor: pickString(overlay.HairColor, original.HairColor),
		SkinColor: pickString(overlay.SkinColor, original.SkinColor),
		EyeColor:  pickString(overlay.EyeColor, original.EyeColor),
		BirthYear: pickString(overlay.BirthYear, original.BirthYear),
		Gender:    pickString(overlay.Gender, original.Gender),
		Homeworld: pickString(overlay.Homeworld, original.Homeworld),
		Films:     pickSlice(overlay.Films, original.Films),
		Species:   pickSlice(overlay.Species, original.Species),
		Vehicles:  pickSlice(overlay.Vehicles, original.Vehicles),
		Starships: pickSlice(overlay.Starships, original.Starships),
		Created:   pickString(overlay.Created, original.Created),
		Edited:    pickString(overlay.Edited, original.Edited),
		URL:       pickString(overlay.URL, original.URL),
	}
}

func pickString(overlay, original string) string {
	if overlay != "" {
		return overlay
	}
	return original
}

func pickSlice(overlay, original []string) []string {
	if overlay != nil {
		return slices.Clone(overlay)
	}
	return slices.Clone(original)
}
