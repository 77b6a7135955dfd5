package preferences

import "github.com/absolutecinema/absolutecinema/internal/validation"

// Theme selects the client color scheme.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Setting keys
const (
	KeyTheme         = "ui_theme"
	KeyAccentColor   = "ui_accent_color"
	KeySearchHistory = "search_history"
)

// DefaultAccentColor is the brand orange.
const DefaultAccentColor = "#FF8000"

// DefaultHistoryLimit caps search history when no limit is configured.
const DefaultHistoryLimit = 10

// Preferences contains all user preferences
type Preferences struct {
	Theme         Theme    `json:"theme"`
	AccentColor   string   `json:"accentColor"`
	SearchHistory []string `json:"searchHistory"`
}

// UpdateInput is the body of a preferences update. Empty fields are left unchanged.
type UpdateInput struct {
	Theme       Theme  `json:"theme"`
	AccentColor string `json:"accentColor"`
}

// DefaultPreferences returns the values used before anything is saved
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		AccentColor:   DefaultAccentColor,
		SearchHistory: []string{},
	}
}

// ValidTheme checks if a value is a valid Theme option
func ValidTheme(s string) bool {
	switch Theme(s) {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// ValidAccentColor checks for a #RRGGBB color. Short and alpha forms are rejected.
func ValidAccentColor(s string) bool {
	return validation.Var(s, "hexcolor,len=7") == nil
}
