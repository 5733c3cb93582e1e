package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the dashboard palette.
type Theme struct {
	Name        string
	Title       lipgloss.Color
	Rotor       lipgloss.Color
	Field       lipgloss.Color
	Friction    lipgloss.Color
	Energy      lipgloss.Color
	Temperature lipgloss.Color
	Stress      lipgloss.Color
	Text        lipgloss.Color
	Muted       lipgloss.Color
	Warning     lipgloss.Color
}

var (
	// ThemeLab uses the bench display colours.
	ThemeLab = Theme{
		Name:        "lab",
		Title:       lipgloss.Color("#00ffff"),
		Rotor:       lipgloss.Color("#ff5555"),
		Field:       lipgloss.Color("#aa00ff"),
		Friction:    lipgloss.Color("#ff5555"),
		Energy:      lipgloss.Color("#00ff00"),
		Temperature: lipgloss.Color("#00bfff"),
		Stress:      lipgloss.Color("#ffaa00"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666688"),
		Warning:     lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:        "retro",
		Title:       lipgloss.Color("#88ff88"),
		Rotor:       lipgloss.Color("#00ff00"),
		Field:       lipgloss.Color("#00cc00"),
		Friction:    lipgloss.Color("#00ff00"),
		Energy:      lipgloss.Color("#88ff88"),
		Temperature: lipgloss.Color("#00cc00"),
		Stress:      lipgloss.Color("#ffff00"),
		Text:        lipgloss.Color("#00ff00"),
		Muted:       lipgloss.Color("#005500"),
		Warning:     lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:        "minimal",
		Title:       lipgloss.Color("#ffffff"),
		Rotor:       lipgloss.Color("#ffffff"),
		Field:       lipgloss.Color("#0088ff"),
		Friction:    lipgloss.Color("#cccccc"),
		Energy:      lipgloss.Color("#cccccc"),
		Temperature: lipgloss.Color("#cccccc"),
		Stress:      lipgloss.Color("#cccccc"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888888"),
		Warning:     lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeLab, ThemeRetro, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to ThemeLab.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLab
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
