package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  []helpKey
}

type helpKey struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Overlay",
		keys: []helpKey{
			{"(type)", "Filter destinations"},
			{"←/→ ↑/↓", "Move focus"},
			{"Enter / click", "Search with focused destination"},
			{"Alt+Enter", "Copy query, then search"},
			{"Middle click", "Copy query, then search"},
			{"Tab / wheel", "Switch category"},
			{"Esc", "Close"},
			{"F10 / right click", "Menu"},
			{"Ctrl+s", "Open settings"},
		},
	},
	{
		title: "Settings",
		keys: []helpKey{
			{"j/k ↑/↓", "Scroll"},
			{"PgUp/PgDn", "Scroll page"},
			{"r", "Reload configuration"},
			{"m", "Minimize"},
			{"q / Esc", "Close"},
		},
	},
}

// renderHelp renders the keyboard reference.
func renderHelp() string {
	sections := make([]string, 0, len(helpSections)*(len(helpSections[0].keys)+2))

	for i, sec := range helpSections {
		if i > 0 {
			sections = append(sections, "")
		}
		sections = append(sections, "  "+lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render(sec.title))

		for _, k := range sec.keys {
			keyCol := lipgloss.NewStyle().
				Width(20).
				Foreground(colorWhite).
				Bold(true).
				Render(k.key)
			descCol := lipgloss.NewStyle().
				Foreground(colorDim).
				Render(k.desc)
			sections = append(sections, "    "+keyCol+descCol)
		}
	}
	return strings.Join(sections, "\n")
}
