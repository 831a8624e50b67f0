package tui

import (
	"strings"

	"github.com/popsearch/popsearch/internal/channel"
)

// contextMenu is a small list of daemon-provided actions.
type contextMenu struct {
	items  []channel.MenuItem
	cursor int
}

func newContextMenu(m channel.Menu) *contextMenu {
	if len(m.Items) == 0 {
		return nil
	}
	return &contextMenu{items: m.Items}
}

func (c *contextMenu) up() {
	c.cursor = (c.cursor - 1 + len(c.items)) % len(c.items)
}

func (c *contextMenu) down() {
	c.cursor = (c.cursor + 1) % len(c.items)
}

func (c *contextMenu) selected() string {
	return c.items[c.cursor].ID
}

// height is the rendered height including the border.
func (c *contextMenu) height() int {
	return len(c.items) + 2
}

// itemAt returns the item index at row y relative to the menu top.
func (c *contextMenu) itemAt(y int) int {
	i := y - 1
	if i < 0 || i >= len(c.items) {
		return -1
	}
	return i
}

func (c *contextMenu) view(t theme) string {
	var b strings.Builder
	for i, item := range c.items {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == c.cursor {
			b.WriteString(t.menuCursor.Render("› " + item.Label))
		} else {
			b.WriteString(t.menuItem.Render("  " + item.Label))
		}
	}
	return t.menu.Render(b.String())
}
