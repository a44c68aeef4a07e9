// Package tui is the terminal rendition of the lookup screen.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/sikabut/internal/portal"
)

// Styles holds the lipgloss styles derived from a branding theme.
type Styles struct {
	Title   lipgloss.Style
	Tagline lipgloss.Style
	Prompt  lipgloss.Style
	Label   lipgloss.Style
	Card    lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles builds Styles from theme colors.
func NewStyles(theme portal.Theme) Styles {
	accent := lipgloss.Color(theme.Accent)
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		Tagline: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(theme.Muted)),
		Prompt:  lipgloss.NewStyle().Foreground(accent),
		Label:   lipgloss.NewStyle().Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		OK:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.OK)),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Warn)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Error)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)),
		Spinner: lipgloss.NewStyle().Foreground(accent),
	}
}
