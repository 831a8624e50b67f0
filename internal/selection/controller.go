// Package selection implements keyboard and mouse navigation over the
// destinations shown in an overlay.
package selection

import (
	"github.com/popsearch/popsearch/internal/models"
)

// Options configures a Controller.
type Options struct {
	ShowUnsorted bool
	RowLength    int // initial row length until the layout reports one
}

// Dispatch is a committed selection. A nil Destination means close
// without running anything.
type Dispatch struct {
	Destination *models.Destination
	Query       string
	Copy        bool
}

// Controller holds the selection state for one overlay lifetime.
type Controller struct {
	all  []models.Destination
	opts Options

	query      string
	categories []string
	category   string
	filtered   []models.Destination
	focused    int
	rowLength  int

	wheel wheelState
}

// New creates a controller over destinations in catalog order.
func New(destinations []models.Destination, opts Options) *Controller {
	c := &Controller{opts: opts, focused: -1, rowLength: max(opts.RowLength, 1)}
	c.SetDestinations(destinations)
	return c
}

// SetDestinations replaces the destination list, keeping the active
// category when it still has visible destinations.
func (c *Controller) SetDestinations(destinations []models.Destination) {
	c.all = append([]models.Destination(nil), destinations...)
	c.categories = c.activeCategories()
	if !c.hasCategory(c.category) {
		c.category = c.firstCategory()
	}
	c.refilter()
}

// Reset starts a new selection for query, returning to the first
// category when the current one is gone.
func (c *Controller) Reset(query string) {
	c.query = query
	c.wheel = wheelState{}
	c.categories = c.activeCategories()
	if !c.hasCategory(c.category) {
		c.category = c.firstCategory()
	}
	c.refilter()
}

// Query returns the current query text.
func (c *Controller) Query() string { return c.query }

// SetQuery replaces the query text and recomputes the visible list.
func (c *Controller) SetQuery(query string) {
	c.query = query
	c.refilter()
}

// Categories returns the categories that have visible destinations, in
// catalog order.
func (c *Controller) Categories() []string {
	return append([]string(nil), c.categories...)
}

// ActiveCategory returns the selected category name.
func (c *Controller) ActiveCategory() string { return c.category }

// SetCategory selects a category by name. It returns false when name is
// unknown or already active.
func (c *Controller) SetCategory(name string) bool {
	if name == c.category || !c.hasCategory(name) {
		return false
	}
	c.category = name
	c.refilter()
	return true
}

// CycleCategory moves step categories forward or backward, wrapping.
func (c *Controller) CycleCategory(step int) bool {
	n := len(c.categories)
	if n <= 1 {
		return false
	}
	idx := (c.categoryIndex() + step%n + n) % n
	return c.SetCategory(c.categories[idx])
}

// shiftCategory moves one category toward step without wrapping.
func (c *Controller) shiftCategory(step int) bool {
	idx := c.categoryIndex() + step
	if idx < 0 || idx >= len(c.categories) {
		return false
	}
	return c.SetCategory(c.categories[idx])
}

// Items returns the visible destinations.
func (c *Controller) Items() []models.Destination {
	return append([]models.Destination(nil), c.filtered...)
}

// Focused returns the focused index into Items, or -1.
func (c *Controller) Focused() int { return c.focused }

// RowLength returns the number of items per rendered row.
func (c *Controller) RowLength() int { return c.rowLength }

// SetRowLength records how many items the layout placed on one row.
func (c *Controller) SetRowLength(n int) {
	c.rowLength = max(n, 1)
}

// Hover focuses item i.
func (c *Controller) Hover(i int) bool {
	if i < 0 || i >= len(c.filtered) || i == c.focused {
		return false
	}
	c.focused = i
	return true
}

// Commit returns the dispatch for the focused item, or the first item of
// the active category when nothing is focused. It returns false when the
// category is empty.
func (c *Controller) Commit(copyToClipboard bool) (Dispatch, bool) {
	if len(c.filtered) == 0 {
		return Dispatch{}, false
	}
	idx := c.focused
	if idx < 0 || idx >= len(c.filtered) {
		idx = 0
	}
	dest := c.filtered[idx]
	return Dispatch{Destination: &dest, Query: c.query, Copy: copyToClipboard}, true
}

// Cancel returns the empty dispatch.
func (c *Controller) Cancel() Dispatch {
	return Dispatch{}
}

func (c *Controller) refilter() {
	c.filtered = filterDestinations(c.inCategory(), c.query)
	c.focused = -1
}

func (c *Controller) visible(d *models.Destination) bool {
	if !d.Enabled {
		return false
	}
	return c.opts.ShowUnsorted || d.CategoryName() != models.UnsortedCategory
}

func (c *Controller) inCategory() []models.Destination {
	var out []models.Destination
	for i := range c.all {
		d := &c.all[i]
		if c.visible(d) && d.CategoryName() == c.category {
			out = append(out, *d)
		}
	}
	return out
}

func (c *Controller) activeCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for i := range c.all {
		d := &c.all[i]
		if !c.visible(d) {
			continue
		}
		name := d.CategoryName()
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func (c *Controller) firstCategory() string {
	if len(c.categories) == 0 {
		return models.UnsortedCategory
	}
	return c.categories[0]
}

func (c *Controller) hasCategory(name string) bool {
	for _, cat := range c.categories {
		if cat == name {
			return true
		}
	}
	return false
}

func (c *Controller) categoryIndex() int {
	for i, cat := range c.categories {
		if cat == c.category {
			return i
		}
	}
	return 0
}
