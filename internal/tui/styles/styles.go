package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/deck/internal/core"
)

// Colors. Each has a light and a dark variant; lipgloss picks one from the
// terminal background unless a theme forces it.
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#7C3AED"} // Purple
	Secondary = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"} // Green
	Warning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"} // Amber
	Error     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"} // Red

	Border    = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#4B5563"}
	Text      = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	TextMuted = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextDim   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	Selection = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Highlight = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Playing = lipgloss.NewStyle().
		Foreground(Secondary)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
		Foreground(Error)

	Selected = lipgloss.NewStyle().
		Background(Selection)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary)
)

// ApplyTheme forces the light or dark palette. "auto" leaves the choice to
// terminal detection.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

// Panel creates a styled panel with optional focus
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle creates a styled panel title
func PanelTitle(title string, focused bool) string {
	style := Label
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// SeekBar renders fraction (0 to 1) as a bar. A disabled bar is drawn dim.
func SeekBar(fraction float64, width int, enabled bool) string {
	if width < 1 {
		return ""
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	if !enabled {
		return Dim.Render(strings.Repeat("─", width))
	}

	filledStyle := lipgloss.NewStyle().Foreground(Primary)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}

// StatusIcon returns an icon for the play state
func StatusIcon(state core.PlayState) string {
	switch state {
	case core.Playing:
		return Playing.Render("▶")
	case core.Paused:
		return Paused.Render("⏸")
	default:
		return Dim.Render("■")
	}
}

// VolumeIcon returns the icon for a volume tier.
func VolumeIcon(tier core.VolumeTier) string {
	switch tier {
	case core.VolumeMuted:
		return "🔇"
	case core.VolumeLow:
		return "🔈"
	case core.VolumeMedium:
		return "🔉"
	case core.VolumeHigh:
		return "🔊"
	case core.VolumeOveramplified:
		return ErrorText.Render("📢")
	default:
		return "🔈"
	}
}
