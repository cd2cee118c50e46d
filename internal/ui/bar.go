package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UsageBar renders a ████░░░░ bar of width cells colored by how full pct is.
func UsageBar(pct float64, width int) string {
	pct = max(0, min(100, pct))
	filled := min(width, int(pct/100*float64(width)))

	var color lipgloss.TerminalColor = ColorSuccess
	switch {
	case pct >= 90:
		color = ColorError
	case pct >= 75:
		color = ColorCoral
	case pct >= 50:
		color = ColorWarning
	}

	full := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	empty := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-filled))
	return full + empty
}
