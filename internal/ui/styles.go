// internal/ui/styles.go

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Kolory bieżącego motywu, ustawiane przez updateStyles
var (
	Subtle    lipgloss.Color
	Highlight lipgloss.Color
	Special   lipgloss.Color
	Error     lipgloss.Color
	StatusBar lipgloss.Color
	Border    lipgloss.Color
)

var (
	TitleStyle       lipgloss.Style
	DescriptionStyle lipgloss.Style

	// Formularze
	LabelStyle        lipgloss.Style
	FocusedLabelStyle lipgloss.Style
	HostStyle         lipgloss.Style
	InputStyle        lipgloss.Style
	FocusedInputStyle lipgloss.Style

	// Wybór typu treści
	SelectedItemStyle lipgloss.Style
	ItemStyle         lipgloss.Style

	ButtonStyle         lipgloss.Style
	ButtonDisabledStyle lipgloss.Style

	// Statusy
	StatusWorkingStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Kontenery
	WindowStyle    lipgloss.Style
	DialogStyle    lipgloss.Style
	StatusBarStyle lipgloss.Style
)

// StatusStyle picks the style for a status line.
func StatusStyle(s Status) lipgloss.Style {
	switch {
	case s.Working:
		return StatusWorkingStyle
	case s.IsError:
		return ErrorStyle
	}
	return SuccessStyle
}
