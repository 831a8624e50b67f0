package tui

import "github.com/charmbracelet/x/ansi"

// Grid cell geometry in terminal cells.
const (
	cellCols  = 10
	cellLines = 2
	minRowLen = 3
	tabGap    = 1
)

type span struct {
	start, end int
}

// layout maps overlay screen coordinates to tabs and grid cells.
//
//	line 0          query input
//	line 1          category tabs, only with more than one category
//	gridTop...      grid rows, cellLines each
//	last line       footer
type layout struct {
	rowLen  int
	tabsY   int
	tabs    []span
	gridTop int
	items   int
}

// newLayout lays out items for a terminal width columns wide. A zero
// width means the size is not known yet.
func newLayout(width, iconsPerRow int, tabLabels []string, items int) layout {
	rowLen := max(iconsPerRow, 1)
	if width > 0 {
		rowLen = max(min(rowLen, width/cellCols), 1)
	}
	l := layout{rowLen: rowLen, tabsY: -1, gridTop: 1, items: items}
	if len(tabLabels) > 1 {
		l.tabsY = 1
		l.gridTop = 2
		x := 0
		for _, label := range tabLabels {
			w := ansi.StringWidth(label)
			l.tabs = append(l.tabs, span{start: x, end: x + w})
			x += w + tabGap
		}
	}
	return l
}

func (l layout) rows() int {
	if l.items == 0 {
		return 1
	}
	return (l.items + l.rowLen - 1) / l.rowLen
}

func (l layout) footerY() int {
	return l.gridTop + l.rows()*cellLines
}

// lines is the total height of the overlay.
func (l layout) lines() int {
	return l.footerY() + 1
}

// cellAt returns the grid index under x, y or -1.
func (l layout) cellAt(x, y int) int {
	if x < 0 || y < l.gridTop || y >= l.footerY() {
		return -1
	}
	col := x / cellCols
	if col >= l.rowLen {
		return -1
	}
	i := ((y-l.gridTop)/cellLines)*l.rowLen + col
	if i >= l.items {
		return -1
	}
	return i
}

// tabAt returns the tab index under x, y or -1.
func (l layout) tabAt(x, y int) int {
	if y != l.tabsY {
		return -1
	}
	for i, s := range l.tabs {
		if x >= s.start && x < s.end {
			return i
		}
	}
	return -1
}

// preferredCols is the width the overlay asks for: one cell per item up
// to iconsPerRow, and never narrower than minRowLen cells.
func preferredCols(iconsPerRow, items int) int {
	return max(min(iconsPerRow, items), minRowLen) * cellCols
}
