package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/models"
)

func newTestSettings() (SettingsModel, *fakeChannel) {
	ch := &fakeChannel{}
	disabled := testDest("hidden", "Social")
	disabled.Enabled = false
	catalog := testCatalog(
		testDest("alpha", "Search"),
		testDest("bravo", ""),
		disabled,
		testDest("charlie", "Search"),
	)
	return NewSettingsModel(ch, models.NewSettings(), catalog), ch
}

func updateSettings(t *testing.T, m SettingsModel, msg tea.Msg) SettingsModel {
	t.Helper()
	next, cmd := m.Update(msg)
	runCmd(cmd)
	out, ok := next.(SettingsModel)
	require.True(t, ok)
	return out
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSettingsKeys(t *testing.T) {
	m, ch := newTestSettings()

	m = updateSettings(t, m, runeKey("r"))
	m = updateSettings(t, m, runeKey("m"))
	_ = updateSettings(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, 1, ch.reloads)
	assert.Equal(t, 1, ch.minimizes)
	assert.Equal(t, 1, ch.closes)
}

func TestSettingsMenu(t *testing.T) {
	m, ch := newTestSettings()
	m = updateSettings(t, m, tea.KeyMsg{Type: tea.KeyF10})
	assert.Equal(t, 1, ch.menus)

	m = updateSettings(t, m, MenuMsg{Menu: channel.Menu{Items: []channel.MenuItem{{ID: "reload", Label: "Reload"}}}})
	// Keys go to the menu while it is open.
	m = updateSettings(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.menu)
	assert.Equal(t, 0, ch.closes)
}

func TestSettingsViewListsDestinations(t *testing.T) {
	m, _ := newTestSettings()
	m = updateSettings(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})

	view := m.View()
	assert.Contains(t, view, "Destinations")
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "hidden")
	assert.Contains(t, view, models.UnsortedCategory)
	assert.Contains(t, view, "49152")
}

func TestSettingsReloadRefreshesContent(t *testing.T) {
	m, _ := newTestSettings()
	m = updateSettings(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})

	m = updateSettings(t, m, ConfigLoadedMsg{
		Settings: models.NewSettings(),
		Catalog:  testCatalog(testDest("zulu", "Search")),
	})
	view := m.View()
	assert.Contains(t, view, "zulu")
	assert.NotContains(t, view, "alpha")
}

func TestGroupByCategory(t *testing.T) {
	catalog := testCatalog(
		testDest("a", "Search"),
		testDest("b", "AI"),
		testDest("c", ""),
		testDest("d", "Search"),
	)
	groups := groupByCategory(catalog)
	require.Len(t, groups, 3)
	assert.Equal(t, "Search", groups[0].name)
	assert.Len(t, groups[0].items, 2)
	assert.Equal(t, "AI", groups[1].name)
	assert.Equal(t, models.UnsortedCategory, groups[2].name)
}

func TestSettingsViewListsKeys(t *testing.T) {
	m, _ := newTestSettings()
	m = updateSettings(t, m, tea.WindowSizeMsg{Width: 100, Height: 80})

	view := m.View()
	assert.Contains(t, view, "Keys")
	assert.Contains(t, view, "Alt+Enter")
}
