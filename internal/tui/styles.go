package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/popsearch/popsearch/internal/models"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim   = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
)

// theme holds the styles derived from the appearance settings.
type theme struct {
	input       lipgloss.Style
	activeTab   lipgloss.Style
	inactiveTab lipgloss.Style
	cell        lipgloss.Style
	focusedCell lipgloss.Style
	footer      lipgloss.Style
	category    lipgloss.Style
	menu        lipgloss.Style
	menuItem    lipgloss.Style
	menuCursor  lipgloss.Style
	err         lipgloss.Style
}

func newTheme(a models.AppearanceConfig) theme {
	accent := lipgloss.Color(a.AccentColor)
	text := lipgloss.Color(a.TextColor)
	return theme{
		input: lipgloss.NewStyle().
			Foreground(text),
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(accent),
		inactiveTab: lipgloss.NewStyle().
			Foreground(colorDim),
		cell: lipgloss.NewStyle().
			Foreground(colorWhite),
		focusedCell: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(accent),
		footer: lipgloss.NewStyle().
			Foreground(colorDim),
		category: lipgloss.NewStyle().
			Bold(true).
			Foreground(text),
		menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		menuItem: lipgloss.NewStyle().
			Foreground(colorWhite),
		menuCursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		err: lipgloss.NewStyle().
			Foreground(colorRed),
	}
}

// Settings view styles.
var (
	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	settingsSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	settingsLabelStyle = lipgloss.NewStyle().
				Width(20).
				Foreground(colorDim)

	settingsValueStyle = lipgloss.NewStyle().
				Foreground(colorWhite)

	settingsToggleOn = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true)

	settingsToggleOff = lipgloss.NewStyle().
				Foreground(colorRed)

	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)
