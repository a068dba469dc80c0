package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Palette
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	gammaBlue   = lipgloss.Color("#0066FF")
	darkBg2     = lipgloss.Color("#1A1E37")
	dimWhite    = lipgloss.Color("#B0B0B0")

	titleStyle = lipgloss.NewStyle().
			Background(neonMagenta).
			Foreground(lipgloss.Color("#0A0E27")).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonMagenta).
			Padding(0, 2)

	searchStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonCyan).
			Background(darkBg2).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(neonCyan).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(neonYellow)

	favoriteStyle = lipgloss.NewStyle().
			Foreground(neonYellow).
			Bold(true)

	greenBarStyle = lipgloss.NewStyle().Foreground(neonGreen)
	blueBarStyle  = lipgloss.NewStyle().Foreground(gammaBlue)
	emptyBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))

	missingStyle = lipgloss.NewStyle().
			Foreground(neonOrange).
			Bold(true).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	modeActiveStyle = lipgloss.NewStyle().
			Foreground(neonGreen).
			Bold(true)

	modeStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(1, 0, 0, 0)
)
