package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Green)
	Warn  = lipgloss.NewStyle().Foreground(Yellow)

	Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text)
)

// Insight picks the accent for an insight type.
func Insight(kind string) lipgloss.Style {
	switch kind {
	case "positive":
		return Good.Bold(true)
	case "warning":
		return lipgloss.NewStyle().Foreground(Red).Bold(true)
	case "goal":
		return Hot
	default:
		return Title
	}
}

// Bar renders a fixed-width meter for percent in [0,100].
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(percent, 0), 100) * width / 100
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}
