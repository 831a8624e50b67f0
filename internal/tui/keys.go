package tui

import "github.com/charmbracelet/bubbles/key"

// OverlayKeys are active in the quick-search overlay.
type OverlayKeys struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Copy     key.Binding
	Cancel   key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Menu     key.Binding
	Settings key.Binding
}

var overlayKeys = OverlayKeys{
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←/→", "move"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("←/→", "move"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑/↓", "row"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↑/↓", "row"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "search"),
	),
	Copy: key.NewBinding(
		key.WithKeys("alt+enter"),
		key.WithHelp("Alt+Enter", "copy and search"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("Esc", "close"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next category"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("Shift+Tab", "previous category"),
	),
	Menu: key.NewBinding(
		key.WithKeys("f10"),
		key.WithHelp("F10", "menu"),
	),
	Settings: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("Ctrl+s", "settings"),
	),
}

// MenuKeys are active while a context menu is open.
type MenuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

var menuKeys = MenuKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Close:  key.NewBinding(key.WithKeys("esc")),
}

// SettingsKeys are active in the settings window.
type SettingsKeys struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Reload   key.Binding
	Minimize key.Binding
	Close    key.Binding
	Menu     key.Binding
}

var settingsKeys = SettingsKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("j/k", "scroll"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/k", "scroll"),
	),
	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", " ")),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Minimize: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "minimize"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("q", "close"),
	),
	Menu: key.NewBinding(
		key.WithKeys("f10"),
		key.WithHelp("F10", "menu"),
	),
}
