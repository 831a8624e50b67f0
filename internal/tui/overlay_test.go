package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/models"
)

type dispatchCall struct {
	dest  *models.Destination
	query string
	copy  bool
}

type fakeChannel struct {
	mu          sync.Mutex
	resizes     [][2]float64
	dispatches  []dispatchCall
	closes      int
	menus       int
	menuActions []string
	reloads     int
	minimizes   int
	settings    int
}

func (f *fakeChannel) RequestResize(w, h float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, [2]float64{w, h})
	return nil
}

func (f *fakeChannel) RequestDispatch(dest *models.Destination, query string, copyToClipboard bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatches = append(f.dispatches, dispatchCall{dest, query, copyToClipboard})
	return nil
}

func (f *fakeChannel) RequestClose() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}

func (f *fakeChannel) RequestContextMenu() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menus++
	return nil
}

func (f *fakeChannel) RequestMenuAction(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.menuActions = append(f.menuActions, id)
	return nil
}

func (f *fakeChannel) RequestReload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func (f *fakeChannel) RequestMinimize() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minimizes++
	return nil
}

func (f *fakeChannel) RequestSettings() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings++
	return nil
}

// runCmd executes cmd and any batched commands it yields.
func runCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(c)
		}
	}
}

func testCatalog(dests ...models.Destination) *models.Catalog {
	return &models.Catalog{Version: 1, Destinations: dests}
}

func testDest(name, category string) models.Destination {
	return models.Destination{
		ID:       name,
		Name:     name,
		Target:   "https://" + name + ".example/?q={query}",
		Kind:     models.KindURL,
		Enabled:  true,
		Category: category,
	}
}

func threeSearch() *models.Catalog {
	return testCatalog(
		testDest("alpha", "Search"),
		testDest("bravo", "Search"),
		testDest("charlie", "Search"),
	)
}

func newTestOverlay(catalog *models.Catalog) (OverlayModel, *fakeChannel) {
	ch := &fakeChannel{}
	return NewOverlayModel(ch, models.NewSettings(), catalog), ch
}

func update(t *testing.T, m OverlayModel, msg tea.Msg) OverlayModel {
	t.Helper()
	next, cmd := m.Update(msg)
	runCmd(cmd)
	out, ok := next.(OverlayModel)
	require.True(t, ok)
	return out
}

func TestOverlaySelectedTextSetsQuery(t *testing.T) {
	m, _ := newTestOverlay(threeSearch())
	m = update(t, m, SelectedTextMsg{Text: "golang"})

	assert.Equal(t, "golang", m.input.Value())
	assert.Equal(t, "golang", m.sel.Query())
	assert.Equal(t, -1, m.sel.Focused())
}

func TestOverlayEnterDispatchesFocused(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	m = update(t, m, SelectedTextMsg{Text: "golang"})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, ch.dispatches, 1)
	require.NotNil(t, ch.dispatches[0].dest)
	assert.Equal(t, "bravo", ch.dispatches[0].dest.Name)
	assert.Equal(t, "golang", ch.dispatches[0].query)
	assert.False(t, ch.dispatches[0].copy)
}

func TestOverlayEnterWithoutFocusUsesFirst(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, ch.dispatches, 1)
	assert.Equal(t, "alpha", ch.dispatches[0].dest.Name)
}

func TestOverlayEnterInEmptyCategoryDoesNothing(t *testing.T) {
	m, ch := newTestOverlay(testCatalog())
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, ch.dispatches)
	assert.Contains(t, m.View(), "No destinations")
}

func TestOverlayAltEnterCopies(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	require.Len(t, ch.dispatches, 1)
	assert.True(t, ch.dispatches[0].copy)
	assert.Equal(t, "alpha", ch.dispatches[0].dest.Name)
}

func TestOverlayEscapeDispatchesNothing(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	require.Len(t, ch.dispatches, 1)
	assert.Nil(t, ch.dispatches[0].dest)
}

func TestOverlayRequestsResizeOnlyOnChange(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 4})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	_ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	require.Len(t, ch.resizes, 1)
	// 3 cells of 10 columns at 9px, 4 lines at 18px.
	assert.Equal(t, [2]float64{270, 72}, ch.resizes[0])
}

func TestOverlayClickCommitsCell(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 4})
	_ = update(t, m, tea.MouseMsg{X: 15, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	require.Len(t, ch.dispatches, 1)
	assert.Equal(t, "bravo", ch.dispatches[0].dest.Name)
}

func TestOverlayHoverMovesFocus(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 4})
	m = update(t, m, tea.MouseMsg{X: 25, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})

	assert.Equal(t, 2, m.sel.Focused())
	assert.Empty(t, ch.dispatches)
}

func TestOverlayTabClickSwitchesCategory(t *testing.T) {
	m, _ := newTestOverlay(testCatalog(
		testDest("alpha", "Search"),
		testDest("bravo", "Social"),
	))
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 6})
	require.Equal(t, "Search", m.sel.ActiveCategory())

	// Tabs are " ? " with one column between them.
	m = update(t, m, tea.MouseMsg{X: 5, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "Social", m.sel.ActiveCategory())
}

func TestOverlayTabKeyCyclesCategory(t *testing.T) {
	m, _ := newTestOverlay(testCatalog(
		testDest("alpha", "Search"),
		testDest("bravo", "Social"),
	))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Social", m.sel.ActiveCategory())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "Search", m.sel.ActiveCategory())
}

func TestOverlayTypingFilters(t *testing.T) {
	m, _ := newTestOverlay(threeSearch())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("chr")})
	m = next.(OverlayModel)

	assert.Equal(t, "chr", m.sel.Query())
	require.Len(t, m.sel.Items(), 1)
	assert.Equal(t, "charlie", m.sel.Items()[0].Name)
}

func TestOverlayContextMenu(t *testing.T) {
	m, ch := newTestOverlay(threeSearch())
	m = update(t, m, tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Equal(t, 1, ch.menus)

	m = update(t, m, MenuMsg{Menu: channel.Menu{Items: []channel.MenuItem{
		{ID: "reload", Label: "Reload"},
		{ID: "quit", Label: "Quit"},
	}}})
	require.NotNil(t, m.menu)
	assert.Contains(t, m.View(), "Quit")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.menu)
	assert.Equal(t, []string{"quit"}, ch.menuActions)
	assert.Empty(t, ch.dispatches)
}

func TestOverlayStreamEndedQuits(t *testing.T) {
	m, _ := newTestOverlay(threeSearch())
	_, cmd := m.Update(StreamEndedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestOverlayConfigReloadKeepsQuery(t *testing.T) {
	m, _ := newTestOverlay(threeSearch())
	m = update(t, m, SelectedTextMsg{Text: "golang"})

	m = update(t, m, ConfigLoadedMsg{
		Settings: models.NewSettings(),
		Catalog:  testCatalog(testDest("delta", "Search")),
	})
	assert.Equal(t, "golang", m.sel.Query())
	require.Len(t, m.sel.Items(), 1)
	assert.Equal(t, "delta", m.sel.Items()[0].Name)
}

func TestOverlayViewShowsNames(t *testing.T) {
	m, _ := newTestOverlay(threeSearch())
	m = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 4})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "charlie")
	assert.Contains(t, view, "Search")
}

func TestFrameMsg(t *testing.T) {
	env, err := channel.NewEnvelope(channel.OpSelectedText, "w1", channel.SelectedText{Text: "hello"})
	require.NoError(t, err)
	msg, ok := frameMsg(env)
	require.True(t, ok)
	assert.Equal(t, SelectedTextMsg{Text: "hello"}, msg)

	env, err = channel.NewEnvelope(channel.OpReload, "w1", nil)
	require.NoError(t, err)
	msg, ok = frameMsg(env)
	require.True(t, ok)
	assert.Equal(t, ReloadMsg{}, msg)

	env, err = channel.NewEnvelope(channel.OpMenu, "w1", channel.Menu{Items: []channel.MenuItem{{ID: "quit", Label: "Quit"}}})
	require.NoError(t, err)
	msg, ok = frameMsg(env)
	require.True(t, ok)
	assert.Equal(t, "quit", msg.(MenuMsg).Menu.Items[0].ID)

	_, ok = frameMsg(&channel.Envelope{Op: channel.OpSelectedText})
	assert.False(t, ok)

	_, ok = frameMsg(&channel.Envelope{Op: channel.OpDispatch})
	assert.False(t, ok)
}

func TestDestinationIcon(t *testing.T) {
	assert.Equal(t, "★", destinationIcon(models.Destination{Name: "x", Icon: "★"}))
	assert.Equal(t, "G", destinationIcon(models.Destination{Name: "google"}))
	assert.Equal(t, "?", destinationIcon(models.Destination{}))
}
