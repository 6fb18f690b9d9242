package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.Color("#cdd6f4")
	colorSubtext = lipgloss.Color("#a6adc8")
	colorSurface = lipgloss.Color("#45475a")
	colorAccent  = lipgloss.Color("#74c7ec")
	colorGreen   = lipgloss.Color("#a6e3a1")
	colorPeach   = lipgloss.Color("#fab387")
	colorRed     = lipgloss.Color("#f38ba8")

	appStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(1, 2)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Padding(1, 2)

	titleStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	clockStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorSubtext)
	hotStyle    = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	tabStyle       = lipgloss.NewStyle().Foreground(colorSubtext).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true).Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(colorGreen).
			Foreground(colorGreen).
			Padding(0, 2)
)
