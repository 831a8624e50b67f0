package tui

import (
	"github.com/popsearch/popsearch/internal/channel"
	"github.com/popsearch/popsearch/internal/models"
)

// SelectedTextMsg carries the text the overlay was opened for.
type SelectedTextMsg struct {
	Text string
}

// ReloadMsg asks content to reread configuration.
type ReloadMsg struct{}

// MenuMsg asks content to show a context menu.
type MenuMsg struct {
	Menu channel.Menu
}

// ConfigLoadedMsg carries reloaded configuration.
type ConfigLoadedMsg struct {
	Settings *models.Settings
	Catalog  *models.Catalog
}

// StreamEndedMsg signals the daemon channel closed.
type StreamEndedMsg struct {
	Err error
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// wheelSettleMsg fires after the wheel debounce.
type wheelSettleMsg struct {
	seq int
}
