package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/popsearch/popsearch/internal/models"
)

// SettingsModel is the settings window content: a read-only view of the
// current settings and the destination catalog.
type SettingsModel struct {
	ch       Channel
	settings *models.Settings
	catalog  *models.Catalog
	viewport viewport.Model
	theme    theme
	menu     *contextMenu

	width  int
	height int
	err    error
}

// NewSettingsModel creates the settings model.
func NewSettingsModel(ch Channel, settings *models.Settings, catalog *models.Catalog) SettingsModel {
	m := SettingsModel{
		ch:       ch,
		settings: settings,
		catalog:  catalog,
		viewport: viewport.New(80, 24),
		theme:    newTheme(settings.Appearance),
	}
	m.viewport.SetContent(m.content())
	return m
}

// Init returns the initial commands.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update processes messages and returns an updated model and commands.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadMsg:
		return m, loadConfigCmd()

	case ConfigLoadedMsg:
		m.settings = msg.Settings
		m.catalog = msg.Catalog
		m.theme = newTheme(msg.Settings.Appearance)
		m.err = nil
		m.viewport.SetContent(m.content())

	case MenuMsg:
		m.menu = newContextMenu(msg.Menu)

	case StreamEndedMsg:
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-1, 1)

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonRight {
			return m, send(m.ch.RequestContextMenu)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *SettingsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.menu != nil {
		switch {
		case key.Matches(msg, menuKeys.Up):
			m.menu.up()
		case key.Matches(msg, menuKeys.Down):
			m.menu.down()
		case key.Matches(msg, menuKeys.Select):
			id := m.menu.selected()
			m.menu = nil
			return menuActionCmd(m.ch, id)
		case key.Matches(msg, menuKeys.Close):
			m.menu = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, settingsKeys.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, settingsKeys.Down):
		m.viewport.ScrollDown(1)
	case key.Matches(msg, settingsKeys.PageUp):
		m.viewport.PageUp()
	case key.Matches(msg, settingsKeys.PageDown):
		m.viewport.PageDown()
	case key.Matches(msg, settingsKeys.Reload):
		return send(m.ch.RequestReload)
	case key.Matches(msg, settingsKeys.Minimize):
		return send(m.ch.RequestMinimize)
	case key.Matches(msg, settingsKeys.Close):
		return send(m.ch.RequestClose)
	case key.Matches(msg, settingsKeys.Menu):
		return send(m.ch.RequestContextMenu)
	}
	return nil
}

func (m SettingsModel) content() string {
	s := m.settings
	var b strings.Builder

	b.WriteString(settingsTitleStyle.Render("PopSearch Settings"))
	b.WriteString("\n")

	section := func(title string) {
		b.WriteString(settingsSectionStyle.Render(title))
		b.WriteString("\n")
	}
	row := func(label, value string) {
		b.WriteString("  ")
		b.WriteString(settingsLabelStyle.Render(label))
		b.WriteString(settingsValueStyle.Render(value))
		b.WriteString("\n")
	}
	toggle := func(label string, on bool) {
		v := settingsToggleOff.Render("off")
		if on {
			v = settingsToggleOn.Render("on")
		}
		b.WriteString("  ")
		b.WriteString(settingsLabelStyle.Render(label))
		b.WriteString(v)
		b.WriteString("\n")
	}

	section("Trigger")
	row("Port", fmt.Sprintf("%d", s.Trigger.Port))
	row("Cursor gap", fmt.Sprintf("%d px", s.Trigger.CursorGap))
	b.WriteString("\n")

	section("Overlay")
	row("Initial size", fmt.Sprintf("%d×%d px", s.Overlay.Width, s.Overlay.Height))
	row("Offset", fmt.Sprintf("%d px", s.Overlay.OffsetY))
	row("Icons per row", fmt.Sprintf("%d", s.Appearance.IconsPerRow))
	toggle("Show unsorted", s.Appearance.ShowUnsorted)
	row("Accent", m.theme.category.Foreground(lipgloss.Color(s.Appearance.AccentColor)).Render(s.Appearance.AccentColor))
	row("Terminal", strings.Join(s.Terminal.Command, " "))
	b.WriteString("\n")

	section("Destinations")
	for _, group := range groupByCategory(m.catalog) {
		b.WriteString("  ")
		b.WriteString(m.theme.category.Render(m.catalog.Icon(group.name) + " " + group.name))
		b.WriteString("\n")
		for _, d := range group.items {
			state := settingsToggleOn.Render("●")
			if !d.Enabled {
				state = settingsToggleOff.Render("○")
			}
			b.WriteString(fmt.Sprintf("    %s %s %s\n",
				state,
				settingsLabelStyle.Render(d.Name),
				hintStyle.Render(d.Kind.String()+"  "+d.Target)))
		}
	}
	b.WriteString("\n")

	section("Keys")
	b.WriteString(renderHelp())
	b.WriteString("\n")
	return b.String()
}

type categoryGroup struct {
	name  string
	items []models.Destination
}

// groupByCategory groups destinations in catalog order of first appearance.
func groupByCategory(catalog *models.Catalog) []categoryGroup {
	var groups []categoryGroup
	index := make(map[string]int)
	for _, d := range catalog.Destinations {
		name := d.CategoryName()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, categoryGroup{name: name})
		}
		groups[i].items = append(groups[i].items, d)
	}
	return groups
}

// View renders the settings window.
func (m SettingsModel) View() string {
	body := m.viewport.View()
	if m.menu != nil {
		body = lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.menu.view(m.theme))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m SettingsModel) statusLine() string {
	if m.err != nil {
		return m.theme.err.Render(m.err.Error())
	}
	hints := []key.Binding{settingsKeys.Down, settingsKeys.Reload, settingsKeys.Minimize, settingsKeys.Close, settingsKeys.Menu}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Help().Key)+" "+hintStyle.Render(h.Help().Desc))
	}
	return strings.Join(parts, "  ")
}
