package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PhaseStyle returns the accent used for a phase: orange while focusing,
// green on a short break and blue on a long one.
func PhaseStyle(p domain.Phase) lipgloss.Style {
	switch p {
	case domain.PhaseWork:
		return StyleHeader
	case domain.PhaseShortBreak:
		return StyleGreen
	case domain.PhaseLongBreak:
		return StyleBlue
	default:
		return StyleDim
	}
}

// PhaseIcon returns the emoji shown next to a phase label.
func PhaseIcon(p domain.Phase) string {
	if p.IsBreak() {
		return "☕"
	}
	return "🎯"
}

// PhaseBadge renders a phase as "🎯 Focus Time" in its accent color.
func PhaseBadge(p domain.Phase) string {
	return PhaseStyle(p).Render(PhaseIcon(p) + " " + p.Label())
}

// RunningIndicator renders "● RUNNING" or "○ PAUSED".
func RunningIndicator(running bool) string {
	if running {
		return StyleGreen.Render("● RUNNING")
	}
	return StyleYellow.Render("○ PAUSED")
}

// OnOff renders a boolean setting.
func OnOff(on bool) string {
	if on {
		return StyleGreen.Render("on")
	}
	return StyleDim.Render("off")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
