package tui

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/taskflow/pkg/tag"
)

// Theme centralizes Lip Gloss styles for the task UI.
type Theme struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Section   lipgloss.Style
	Sidebar   lipgloss.Style
	Cursor    lipgloss.Style
	Done      lipgloss.Style
	Due       lipgloss.Style
	Missed    lipgloss.Style
	Help      lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Day       lipgloss.Style
	BusyDay   lipgloss.Style
	Selected  lipgloss.Style
	Today     lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	tab := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	return Theme{
		Tab:       tab,
		ActiveTab: tab.Foreground(lipgloss.Color("212")).Bold(true).Underline(true),
		Section:   lipgloss.NewStyle().Bold(true).Underline(true),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(sidebarWidth),
		Cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Due:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Missed:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Day:      lipgloss.NewStyle().Faint(true),
		BusyDay:  lipgloss.NewStyle().Bold(true),
		Selected: lipgloss.NewStyle().Reverse(true).Bold(true),
		Today:    lipgloss.NewStyle().Underline(true).Bold(true),
	}
}

var tagColors = map[string]string{
	"tag-red":    "1",
	"tag-green":  "2",
	"tag-yellow": "3",
	"tag-blue":   "4",
	"tag-purple": "5",
	"tag-teal":   "6",
	"tag-gray":   "8",
	"tag-orange": "11",
	"tag-pink":   "13",
}

// TagStyle renders text in the tag's palette color.
func (th Theme) TagStyle(t tag.Tag) lipgloss.Style {
	if c, ok := tagColors[tag.Token(t.Color)]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return lipgloss.NewStyle()
}
