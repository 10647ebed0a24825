package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the pre-computed picker styles.
type Styles struct {
	Prompt   lipgloss.Style
	Input    lipgloss.Style
	Hint     lipgloss.Style
	Context  lipgloss.Style // inert ancestor rows
	Leaf     lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Status   lipgloss.Style
	Border   lipgloss.Style
}

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#BD93F9"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6272A4"}
	colorText    = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#F8F8F2"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#1A7F37", Dark: "#50FA7B"}
)

// DefaultStyles returns the picker styles.
func DefaultStyles() Styles {
	return Styles{
		Prompt:   lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		Input:    lipgloss.NewStyle().Foreground(colorText),
		Hint:     lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Context:  lipgloss.NewStyle().Foreground(colorMuted).Bold(true),
		Leaf:     lipgloss.NewStyle().Foreground(colorText),
		Cursor:   lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(colorMuted),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
	}
}
