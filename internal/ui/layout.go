// internal/ui/layout.go

package ui

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

const (
	minFormWidth = 60
	maxFormWidth = 100
)

// BaseLayout zawiera podstawowe wymiary dla layoutu
type BaseLayout struct {
	Width  int
	Height int
}

func NewBaseLayout(width, height int) BaseLayout {
	return BaseLayout{Width: width, Height: height}
}

// FormWidth is the inner width of a form window for this terminal.
func (l BaseLayout) FormWidth() int {
	w := l.Width - 8
	if w > maxFormWidth {
		w = maxFormWidth
	}
	if w < minFormWidth {
		w = minFormWidth
	}
	return w
}

// InputWidth is the character width given to text inputs.
func (l BaseLayout) InputWidth() int {
	return l.FormWidth() - LabelStyle.GetWidth() - 6
}

// Window renders content in the themed window, centred on screen when the
// terminal size is known.
func (l BaseLayout) Window(content string) string {
	box := WindowStyle.Width(l.FormWidth()).Render(content)
	if l.Width == 0 || l.Height == 0 {
		return box
	}
	return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, box)
}

// Header renders the title line with an optional right-aligned detail.
func (l BaseLayout) Header(title, detail string) string {
	left := TitleStyle.Render(title)
	if detail == "" {
		return left
	}
	gap := l.FormWidth() - lipgloss.Width(left) - lipgloss.Width(detail) - 4
	if gap < 1 {
		return left + "\n" + DescriptionStyle.Render(detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, lipgloss.NewStyle().Width(gap).Render(""), HostStyle.Render(detail))
}

// ShortcutTable renders key bindings as a one-row table.
func ShortcutTable(keys, actions []string) string {
	tableStyle := func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(Highlight).
				Bold(true)
		}
		return lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(Subtle)
	}

	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		StyleFunc(tableStyle).
		Headers(keys...).
		Row(actions...).
		Render()
}
