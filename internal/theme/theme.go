// Package theme defines the multi-sensory themes: cohesive background,
// palette, and extension pairings that the rotation engine swaps between.
package theme

// RGB is a color in the theme palette.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Theme is one themed experience.
type Theme struct {
	Name            string
	DisplayName     string
	Description     string
	BackgroundColor RGB
	BackgroundImage string
	ColorPalette    []RGB
	// Extensions lists extension ids that pair well with this theme.
	Extensions []string
	Enabled    bool
}

// Builtins returns the built-in themes in their canonical order.
func Builtins() []Theme {
	return []Theme{
		{
			Name:            "default",
			DisplayName:     "Default",
			Description:     "Classic keyboard-mash experience",
			BackgroundColor: RGB{250, 250, 250},
			ColorPalette: []RGB{
				{0, 0, 255}, {255, 0, 0}, {255, 255, 0},
				{255, 0, 128}, {0, 0, 128}, {0, 255, 0},
				{255, 128, 0}, {255, 0, 255}, {0, 255, 255},
			},
			Enabled: true,
		},
		{
			Name:            "dark",
			DisplayName:     "Dark Mode",
			Description:     "Easy on the eyes, dark background",
			BackgroundColor: RGB{0, 0, 0},
			ColorPalette: []RGB{
				{100, 100, 255}, {255, 100, 100}, {255, 255, 100},
				{255, 100, 200}, {100, 100, 200}, {100, 255, 100},
				{255, 180, 100}, {255, 100, 255}, {100, 255, 255},
			},
			Enabled: true,
		},
		{
			Name:            "farm",
			DisplayName:     "Farm Friends",
			Description:     "Barn animals and farm sounds",
			BackgroundColor: RGB{200, 230, 200},
			ColorPalette: []RGB{
				{139, 69, 19}, {34, 139, 34}, {255, 215, 0},
				{255, 99, 71}, {255, 182, 193}, {144, 238, 144},
			},
			Extensions: []string{"animals", "farm"},
			Enabled:    true,
		},
		{
			Name:            "ocean",
			DisplayName:     "Ocean Adventure",
			Description:     "Sea creatures and wave sounds",
			BackgroundColor: RGB{200, 220, 255},
			ColorPalette: []RGB{
				{0, 105, 148}, {64, 224, 208}, {0, 191, 255},
				{255, 127, 80}, {255, 218, 185}, {147, 112, 219},
			},
			Extensions: []string{"ocean", "sea-animals"},
			Enabled:    true,
		},
		{
			Name:            "space",
			DisplayName:     "Space Explorer",
			Description:     "Planets, rockets, and cosmic sounds",
			BackgroundColor: RGB{10, 10, 30},
			ColorPalette: []RGB{
				{255, 255, 255}, {255, 215, 0}, {192, 192, 192},
				{255, 100, 100}, {100, 200, 255}, {200, 100, 255},
			},
			Extensions: []string{"space", "sci-fi"},
			Enabled:    true,
		},
		{
			Name:            "music",
			DisplayName:     "Music Class",
			Description:     "Musical instruments and notes",
			BackgroundColor: RGB{255, 250, 240},
			ColorPalette: []RGB{
				{255, 0, 0}, {255, 127, 0}, {255, 255, 0},
				{0, 255, 0}, {0, 0, 255}, {75, 0, 130}, {148, 0, 211},
			},
			Extensions: []string{"instruments", "music"},
			Enabled:    true,
		},
		{
			Name:            "nature",
			DisplayName:     "Nature Walk",
			Description:     "Birds, insects, and outdoor sounds",
			BackgroundColor: RGB{230, 245, 220},
			ColorPalette: []RGB{
				{34, 139, 34}, {107, 142, 35}, {85, 107, 47},
				{255, 228, 181}, {210, 180, 140}, {139, 90, 43},
			},
			Extensions: []string{"nature", "animals"},
			Enabled:    true,
		},
	}
}
