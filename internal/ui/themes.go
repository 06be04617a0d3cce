package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name string

	Subtle    lipgloss.Color
	Highlight lipgloss.Color
	Special   lipgloss.Color
	Error     lipgloss.Color
	StatusBar lipgloss.Color
	Border    lipgloss.Color

	// Kolory pól formularza
	LabelColor lipgloss.Color
	InputColor lipgloss.Color
	HostColor  lipgloss.Color
	KindColor  lipgloss.Color
}

var (
	currentThemeIndex = 0

	themes = []Theme{
		{
			Name:      "default",
			Subtle:    lipgloss.Color("#6C7086"),
			Highlight: lipgloss.Color("#7DC4E4"),
			Special:   lipgloss.Color("#A6E3A1"),
			Error:     lipgloss.Color("#F38BA8"),
			StatusBar: lipgloss.Color("#E7E7E7"),
			Border:    lipgloss.Color("#33B2FF"),

			LabelColor: lipgloss.Color("#A6ADC8"),
			InputColor: lipgloss.Color("#FFFFFF"),
			HostColor:  lipgloss.Color("#2DAFFF"),
			KindColor:  lipgloss.Color("#FF3A99"),
		},
		{
			// Dracula
			Name:      "dracula",
			Subtle:    lipgloss.Color("#6272A4"),
			Highlight: lipgloss.Color("#8BE9FD"),
			Special:   lipgloss.Color("#50FA7B"),
			Error:     lipgloss.Color("#FF5555"),
			StatusBar: lipgloss.Color("#44475A"),
			Border:    lipgloss.Color("#BD93F9"),

			LabelColor: lipgloss.Color("#F8F8F2"),
			InputColor: lipgloss.Color("#F8F8F2"),
			HostColor:  lipgloss.Color("#8BE9FD"),
			KindColor:  lipgloss.Color("#FF79C6"),
		},
		{
			// Wysoki kontrast, także na jasnym tle
			Name:      "contrast",
			Subtle:    lipgloss.Color("#808080"),
			Highlight: lipgloss.Color("#00FFFF"),
			Special:   lipgloss.Color("#00FF00"),
			Error:     lipgloss.Color("#FF0000"),
			StatusBar: lipgloss.Color("#000000"),
			Border:    lipgloss.Color("#FFFF00"),

			LabelColor: lipgloss.Color("#E8E8E8"),
			InputColor: lipgloss.Color("#FFFFFF"),
			HostColor:  lipgloss.Color("#1E90FF"),
			KindColor:  lipgloss.Color("#FFA07A"),
		},
	}
)

func init() {
	updateStyles(themes[currentThemeIndex])
}

// SwitchTheme przełącza na następny motyw i aktualizuje wszystkie style
func SwitchTheme() {
	currentThemeIndex = (currentThemeIndex + 1) % len(themes)
	updateStyles(themes[currentThemeIndex])
}

// SetTheme selects a theme by name. Unknown names leave the theme unchanged.
func SetTheme(name string) bool {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			currentThemeIndex = i
			updateStyles(t)
			return true
		}
	}
	return false
}

func CurrentTheme() Theme {
	return themes[currentThemeIndex]
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

func updateStyles(theme Theme) {
	Subtle = theme.Subtle
	Highlight = theme.Highlight
	Special = theme.Special
	Error = theme.Error
	StatusBar = theme.StatusBar
	Border = theme.Border

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight).
		MarginLeft(2)

	DescriptionStyle = lipgloss.NewStyle().
		Foreground(Subtle).
		MarginLeft(2)

	LabelStyle = lipgloss.NewStyle().
		Foreground(theme.LabelColor).
		Width(14)

	FocusedLabelStyle = LabelStyle.
		Foreground(Highlight).
		Bold(true)

	HostStyle = lipgloss.NewStyle().
		Foreground(theme.HostColor)

	InputStyle = lipgloss.NewStyle().
		Foreground(theme.InputColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	FocusedInputStyle = InputStyle.
		BorderForeground(Highlight)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(theme.KindColor).
		Bold(true)

	ItemStyle = lipgloss.NewStyle().
		Foreground(Subtle)

	ButtonStyle = lipgloss.NewStyle().
		Foreground(Special).
		Bold(true)

	ButtonDisabledStyle = lipgloss.NewStyle().
		Foreground(Subtle).
		Bold(true)

	StatusWorkingStyle = lipgloss.NewStyle().
		Foreground(Highlight).
		Bold(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(Special).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	WindowStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	DialogStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(theme.InputColor).
		Background(StatusBar).
		Padding(0, 1)
}
