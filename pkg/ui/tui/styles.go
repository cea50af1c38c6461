package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	darkBg      = lipgloss.Color("#0A0E27")
	dimWhite    = lipgloss.Color("#B0B0B0")
	brightWhite = lipgloss.Color("#FFFFFF")
	faintGrey   = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Background(neonMagenta).
			Foreground(darkBg).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(neonGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(faintGrey)

	cardBorderStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	cardHoverStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(brightWhite)

	cardAspectStyle = lipgloss.NewStyle().
			Foreground(faintGrey).
			Italic(true)

	tooltipStyle = lipgloss.NewStyle().
			Background(neonYellow).
			Foreground(darkBg).
			Bold(true)

	plainStyle = lipgloss.NewStyle()
)

func paintStyle(p paint) lipgloss.Style {
	switch p {
	case paintBorder:
		return cardBorderStyle
	case paintHoverBorder:
		return cardHoverStyle
	case paintTitle:
		return cardTitleStyle
	case paintAspect:
		return cardAspectStyle
	case paintTooltip:
		return tooltipStyle
	default:
		return plainStyle
	}
}
