package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/popsearch/popsearch/internal/models"
	"github.com/popsearch/popsearch/internal/selection"
)

// wheelStep is the delta reported for one terminal wheel notch.
const wheelStep = 40

// OverlayModel is the quick-search overlay content.
type OverlayModel struct {
	ch       Channel
	settings *models.Settings
	catalog  *models.Catalog
	sel      *selection.Controller
	input    textinput.Model
	theme    theme
	menu     *contextMenu

	width  int
	height int

	// Last size requested from the daemon, in pixels.
	sentW, sentH float64

	err error
}

// NewOverlayModel creates the overlay model.
func NewOverlayModel(ch Channel, settings *models.Settings, catalog *models.Catalog) OverlayModel {
	input := textinput.New()
	input.Prompt = "⌕ "
	input.Placeholder = "Pop Search..."
	input.Focus()

	m := OverlayModel{
		ch:       ch,
		settings: settings,
		catalog:  catalog,
		input:    input,
		theme:    newTheme(settings.Appearance),
	}
	m.sel = m.newController()
	return m
}

func (m OverlayModel) newController() *selection.Controller {
	return selection.New(visibleDestinations(m.catalog), selection.Options{
		ShowUnsorted: m.settings.Appearance.ShowUnsorted,
		RowLength:    m.settings.Appearance.IconsPerRow,
	})
}

// Init returns the initial commands.
func (m OverlayModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes messages and returns an updated model and commands.
func (m OverlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case SelectedTextMsg:
		m.sel.Reset(msg.Text)
		m.input.SetValue(msg.Text)
		m.input.CursorEnd()

	case ReloadMsg:
		return m, loadConfigCmd()

	case ConfigLoadedMsg:
		m.applyConfig(msg.Settings, msg.Catalog)

	case MenuMsg:
		m.menu = newContextMenu(msg.Menu)

	case wheelSettleMsg:
		m.sel.SettleWheel(msg.seq)

	case StreamEndedMsg:
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-ansi.StringWidth(m.input.Prompt)-1, 1)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.sel.SetRowLength(m.layout().rowLen)
	cmds = append(cmds, m.syncSize())
	return m, tea.Batch(cmds...)
}

func (m *OverlayModel) applyConfig(settings *models.Settings, catalog *models.Catalog) {
	query, category := m.sel.Query(), m.sel.ActiveCategory()
	m.settings = settings
	m.catalog = catalog
	m.theme = newTheme(settings.Appearance)
	m.sel = m.newController()
	m.sel.Reset(query)
	m.sel.SetCategory(category)
}

func (m *OverlayModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.menu != nil {
		return m.handleMenuKey(msg)
	}

	switch {
	case key.Matches(msg, overlayKeys.Cancel):
		return dispatchCmd(m.ch, m.sel.Cancel())
	case key.Matches(msg, overlayKeys.Enter):
		return m.commit(false)
	case key.Matches(msg, overlayKeys.Copy):
		return m.commit(true)
	case key.Matches(msg, overlayKeys.Left):
		m.sel.MoveLeft()
	case key.Matches(msg, overlayKeys.Right):
		m.sel.MoveRight()
	case key.Matches(msg, overlayKeys.Up):
		m.sel.MoveUp()
	case key.Matches(msg, overlayKeys.Down):
		m.sel.MoveDown()
	case key.Matches(msg, overlayKeys.NextTab):
		m.sel.CycleCategory(1)
	case key.Matches(msg, overlayKeys.PrevTab):
		m.sel.CycleCategory(-1)
	case key.Matches(msg, overlayKeys.Menu):
		return send(m.ch.RequestContextMenu)
	case key.Matches(msg, overlayKeys.Settings):
		return send(m.ch.RequestSettings)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != m.sel.Query() {
			m.sel.SetQuery(v)
		}
		return cmd
	}
	return nil
}

func (m *OverlayModel) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
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

func (m *OverlayModel) commit(copyToClipboard bool) tea.Cmd {
	d, ok := m.sel.Commit(copyToClipboard)
	if !ok {
		return nil
	}
	return dispatchCmd(m.ch, d)
}

func (m *OverlayModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	l := m.layout()

	if m.menu != nil {
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		if msg.Button == tea.MouseButtonLeft {
			if i := m.menu.itemAt(msg.Y - l.gridTop); i >= 0 {
				id := m.menu.items[i].ID
				m.menu = nil
				return menuActionCmd(m.ch, id)
			}
		}
		m.menu = nil
		return nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if i := l.cellAt(msg.X, msg.Y); i >= 0 {
			m.sel.Hover(i)
		}
		return nil
	case tea.MouseActionPress:
	default:
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.wheel(0, -wheelStep)
	case tea.MouseButtonWheelDown:
		return m.wheel(0, wheelStep)
	case tea.MouseButtonWheelLeft:
		return m.wheel(-wheelStep, 0)
	case tea.MouseButtonWheelRight:
		return m.wheel(wheelStep, 0)
	case tea.MouseButtonLeft:
		if t := l.tabAt(msg.X, msg.Y); t >= 0 {
			m.sel.SetCategory(m.sel.Categories()[t])
			return nil
		}
		if i := l.cellAt(msg.X, msg.Y); i >= 0 {
			m.sel.Hover(i)
			return m.commit(false)
		}
	case tea.MouseButtonMiddle:
		if i := l.cellAt(msg.X, msg.Y); i >= 0 {
			m.sel.Hover(i)
			return m.commit(true)
		}
	case tea.MouseButtonRight:
		return send(m.ch.RequestContextMenu)
	}
	return nil
}

func (m *OverlayModel) wheel(dx, dy float64) tea.Cmd {
	seq, ok := m.sel.Wheel(dx, dy)
	if !ok {
		return nil
	}
	return wheelSettleCmd(seq)
}

func (m OverlayModel) tabLabels() []string {
	cats := m.sel.Categories()
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = " " + m.catalog.Icon(c) + " "
	}
	return labels
}

func (m OverlayModel) layout() layout {
	return newLayout(m.width, m.settings.Appearance.IconsPerRow, m.tabLabels(), len(m.sel.Items()))
}

// desiredSize returns the pixel size the content needs.
func (m OverlayModel) desiredSize() (float64, float64) {
	a := m.settings.Appearance
	items := len(m.sel.Items())
	cols := preferredCols(a.IconsPerRow, items)
	l := newLayout(cols, a.IconsPerRow, m.tabLabels(), items)
	lines := l.lines()
	if m.menu != nil {
		lines = max(lines, l.gridTop+m.menu.height()+1)
	}
	return float64(cols * a.CellWidth), float64(lines * a.CellHeight)
}

// syncSize asks the daemon for a new window size when the content's
// footprint changed.
func (m *OverlayModel) syncSize() tea.Cmd {
	w, h := m.desiredSize()
	if w == m.sentW && h == m.sentH {
		return nil
	}
	m.sentW, m.sentH = w, h
	return resizeCmd(m.ch, w, h)
}

// View renders the overlay.
func (m OverlayModel) View() string {
	l := m.layout()
	var sections []string

	sections = append(sections, m.theme.input.Render(m.input.View()))

	if l.tabsY >= 0 {
		active := m.sel.ActiveCategory()
		var tabs []string
		for i, label := range m.tabLabels() {
			style := m.theme.inactiveTab
			if m.sel.Categories()[i] == active {
				style = m.theme.activeTab
			}
			tabs = append(tabs, style.Render(label))
		}
		sections = append(sections, strings.Join(tabs, strings.Repeat(" ", tabGap)))
	}

	if m.menu != nil {
		sections = append(sections, m.menu.view(m.theme))
	} else {
		sections = append(sections, m.gridView(l))
	}

	sections = append(sections, m.footerView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m OverlayModel) gridView(l layout) string {
	items := m.sel.Items()
	if len(items) == 0 {
		return m.theme.footer.Render("No destinations") + "\n"
	}

	focused := m.sel.Focused()
	var rows []string
	for start := 0; start < len(items); start += l.rowLen {
		end := min(start+l.rowLen, len(items))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			style := m.theme.cell
			if i == focused {
				style = m.theme.focusedCell
			}
			cells = append(cells, style.
				Width(cellCols).
				Height(cellLines).
				Align(lipgloss.Center).
				Render(destinationIcon(items[i])+"\n"+ansi.Truncate(items[i].Name, cellCols-1, "…")))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m OverlayModel) footerView() string {
	if m.err != nil {
		return m.theme.err.Render(m.err.Error())
	}
	footer := m.theme.category.Render(m.sel.ActiveCategory())
	items := m.sel.Items()
	if i := m.sel.Focused(); i >= 0 && i < len(items) {
		footer += m.theme.footer.Render(" · " + items[i].Name)
	}
	return footer
}

// destinationIcon returns a destination's icon, or its initial.
func destinationIcon(d models.Destination) string {
	if d.Icon != "" {
		return d.Icon
	}
	r, _ := utf8.DecodeRuneInString(d.Name)
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}
