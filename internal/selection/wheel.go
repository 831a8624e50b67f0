package selection

import (
	"math"
	"time"
)

const (
	// WheelDeadzone is the smallest wheel delta that switches category.
	WheelDeadzone = 5
	// WheelDebounce is how long the wheel must settle before switching.
	WheelDebounce = 40 * time.Millisecond
)

type wheelState struct {
	seq     int
	pending bool
	delta   float64
}

// Wheel records a wheel event. Every event cancels the pending switch.
// When the event is outside the deadzone it returns a token; the caller
// passes it to SettleWheel after WheelDebounce.
func (c *Controller) Wheel(dx, dy float64) (int, bool) {
	if len(c.categories) <= 1 {
		return 0, false
	}
	c.wheel.seq++
	c.wheel.pending = false
	if math.Abs(dy) < WheelDeadzone && math.Abs(dx) < WheelDeadzone {
		return c.wheel.seq, false
	}
	delta := dy
	if math.Abs(dx) > math.Abs(dy) {
		delta = dx
	}
	c.wheel.pending = true
	c.wheel.delta = delta
	return c.wheel.seq, true
}

// SettleWheel applies the wheel event identified by seq if no later
// event superseded it. Scrolling stops at the first and last category.
func (c *Controller) SettleWheel(seq int) bool {
	if !c.wheel.pending || seq != c.wheel.seq {
		return false
	}
	c.wheel.pending = false
	switch {
	case c.wheel.delta > 0:
		return c.shiftCategory(1)
	case c.wheel.delta < 0:
		return c.shiftCategory(-1)
	}
	return false
}
