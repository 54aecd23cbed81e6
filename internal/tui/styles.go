package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	NotFound lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")).MarginTop(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50FA7B")),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")),
		Label:    lipgloss.NewStyle().Bold(true).Width(10).Foreground(lipgloss.Color("#8BE9FD")),
		NotFound: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555")),
	}
}
