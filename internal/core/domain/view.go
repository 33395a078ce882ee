package domain

// Theme selects the base map style and accent colors.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps a string to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ViewMode selects the flat or pitched camera.
type ViewMode string

const (
	View2D ViewMode = "2D"
	View3D ViewMode = "3D"
)

// ParseViewMode maps a string to a ViewMode, defaulting to 2D.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == View3D {
		return View3D
	}
	return View2D
}

// ViewInputs is what the dashboard hands the map view on every change.
type ViewInputs struct {
	Projects  []Project
	IsPitched bool
	Theme     Theme
}
