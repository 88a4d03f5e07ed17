package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view. Starboard and Port are the green and red
// buoy colors.
type Theme struct {
	Name      string
	Header    lipgloss.Color
	Water     lipgloss.Color
	Starboard lipgloss.Color
	Port      lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:      "ocean",
		Header:    lipgloss.Color("#00a8cc"),
		Water:     lipgloss.Color("#7fb8e0"),
		Starboard: lipgloss.Color("#00ff88"),
		Port:      lipgloss.Color("#ff4444"),
		Muted:     lipgloss.Color("#4488aa"),
	}

	// night watch: no bright whites or blues
	ThemeNight = Theme{
		Name:      "night",
		Header:    lipgloss.Color("#cc6655"),
		Water:     lipgloss.Color("#774433"),
		Starboard: lipgloss.Color("#559955"),
		Port:      lipgloss.Color("#dd3322"),
		Muted:     lipgloss.Color("#553333"),
	}

	ThemeChart = Theme{
		Name:      "chart",
		Header:    lipgloss.Color("#d8c690"),
		Water:     lipgloss.Color("#a0c4d8"),
		Starboard: lipgloss.Color("#2e8b57"),
		Port:      lipgloss.Color("#c0392b"),
		Muted:     lipgloss.Color("#8a8070"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Header:    lipgloss.Color("#ffffff"),
		Water:     lipgloss.Color("#bbbbbb"),
		Starboard: lipgloss.Color("#ffffff"),
		Port:      lipgloss.Color("#777777"),
		Muted:     lipgloss.Color("#555555"),
	}

	CurrentTheme = ThemeOcean

	Themes = []Theme{ThemeOcean, ThemeNight, ThemeChart, ThemeMono}
)

// GetTheme falls back to ocean for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme cycles through Themes in order.
func nextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}
