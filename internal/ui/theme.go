package ui

import "github.com/charmbracelet/lipgloss"

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorCoral     = lipgloss.AdaptiveColor{Light: "#ea580c", Dark: "#fb923c"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	ColorTextDim   = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconCheck   = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconBullet  = "•"
	IconDiamond = "◆"
	IconChevron = "›"
	IconPipe    = "│"
	IconTrash   = "♻"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	HintBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	TagWarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	TagErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	TagSuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	TextStyle = lipgloss.NewStyle().Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// RiskStyle colors a risk tier label.
func RiskStyle(risk string) lipgloss.Style {
	switch risk {
	case "low":
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case "medium":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorError)
	}
}
