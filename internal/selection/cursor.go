package selection

// MoveRight focuses the next item, wrapping to the first.
func (c *Controller) MoveRight() bool {
	return c.step(1)
}

// MoveLeft focuses the previous item, wrapping to the last.
func (c *Controller) MoveLeft() bool {
	return c.step(-1)
}

func (c *Controller) step(delta int) bool {
	n := len(c.filtered)
	if n == 0 {
		return false
	}
	old := c.focused
	switch {
	case c.focused < 0 && delta > 0:
		c.focused = 0
	case c.focused < 0:
		c.focused = n - 1
	default:
		c.focused = ((c.focused+delta)%n + n) % n
	}
	return c.focused != old
}

// MoveDown focuses the item one rendered row below. It does not wrap;
// from a row above a shorter last row it lands on the last item.
func (c *Controller) MoveDown() bool {
	n := len(c.filtered)
	if n == 0 {
		return false
	}
	if c.focused < 0 {
		c.focused = 0
		return true
	}
	row := c.rowLength
	if c.focused/row >= (n-1)/row {
		return false
	}
	c.focused = min(c.focused+row, n-1)
	return true
}

// MoveUp focuses the item one rendered row above. It does not wrap.
func (c *Controller) MoveUp() bool {
	n := len(c.filtered)
	if n == 0 {
		return false
	}
	if c.focused < 0 {
		c.focused = 0
		return true
	}
	if c.focused-c.rowLength < 0 {
		return false
	}
	c.focused -= c.rowLength
	return true
}
