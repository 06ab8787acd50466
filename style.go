package main

import "github.com/charmbracelet/lipgloss"

var (
	keywordStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})
	paragraphStyle = lipgloss.NewStyle().Width(78).Padding(0, 0, 0, 2)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#847A85", Dark: "#979797"})
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D81B60", Dark: "#FF5F87"})
)

func keyword(s string) string {
	return keywordStyle.Render(s)
}

func paragraph(s string) string {
	return paragraphStyle.Render(s)
}

func subtle(s string) string {
	return subtleStyle.Render(s)
}
