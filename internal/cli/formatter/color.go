package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
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

// StateStyle returns the style used for a progress state.
func StateStyle(s domain.ProgressState) lipgloss.Style {
	switch s {
	case domain.StateDone:
		return StyleDim
	case domain.StateActive:
		return StyleGreen
	case domain.StateNew:
		return StyleBlue
	default:
		return StyleFg
	}
}

// StatePill renders a state as "● Active" style text.
func StatePill(s domain.ProgressState) string {
	switch s {
	case domain.StateDone:
		return StyleDim.Render("✔ Done")
	case domain.StateActive:
		return StyleGreen.Render("● Active")
	case domain.StateNew:
		return StyleBlue.Render("○ New")
	default:
		return StyleDim.Render(string(s))
	}
}

// CategoryBadge renders a category label in its own color.
func CategoryBadge(c domain.Category) string {
	switch c {
	case domain.CategoryActivityLog:
		return StylePurple.Render(c.Label())
	case domain.CategorySearch:
		return StyleYellow.Render(c.Label())
	case domain.CategoryOrphan:
		return StyleFg.Render(c.Label())
	default:
		return StyleDim.Render("--")
	}
}

// BlackoutMark flags items whose interval was stretched by the blackout.
func BlackoutMark(impacted bool) string {
	if impacted {
		return StyleRed.Render("⛔")
	}
	return ""
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
