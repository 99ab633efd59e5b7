package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorAccent = lipgloss.Color("#7AA2F7") // blue for accents and selection
	ColorDim    = lipgloss.Color("#565F89") // secondary text
	ColorDark   = lipgloss.Color("#1A1B26") // dark background elements
	ColorText   = lipgloss.Color("#C0CAF5") // primary text
	ColorAlert  = lipgloss.Color("#F7768E") // red for errors
	ColorGood   = lipgloss.Color("#9ECE6A") // green for success
	ColorWarn   = lipgloss.Color("#E0AF68") // yellow for warnings
	ColorMuted  = lipgloss.Color("#6c757d") // muted text
)

// Styles
var (
	StyleBase = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDim).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Italic(true)

	// Status indicators
	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
	StyleStatusWarn = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	// Panel/card styles
	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1).
			Margin(0, 1)

	StyleActiveCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1).
			Margin(0, 1)

	// Tree styles
	StyleTreeKey      = lipgloss.NewStyle().Foreground(ColorText)
	StyleTreeValue    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleTreeSelected = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Background(ColorDark).
				Bold(true)

	// App container
	StyleApp = lipgloss.NewStyle().Margin(1, 2)

	// Top bar / menu styles
	StyleTopBar = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDim).
			Padding(0, 1).
			MarginBottom(1)

	StyleMenuItem = lipgloss.NewStyle().
			Foreground(ColorDim).
			Padding(0, 1)

	StyleMenuItemActive = lipgloss.NewStyle().
				Foreground(ColorDark).
				Background(ColorAccent).
				Bold(true).
				Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true)
)
