package report

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	// Section headers carry an underline
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#444466"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Good = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	Fair = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	Poor = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

// Verdict styles a reduced chi-squared by its distance from 1.
func Verdict(reduced float64) string {
	switch {
	case reduced > 0.5 && reduced < 2:
		return Good.Render("good fit")
	case reduced > 0.2 && reduced < 5:
		return Fair.Render("fair fit")
	default:
		return Poor.Render("poor fit")
	}
}
