package desktop

import "math"

// Point is a screen position in pixels.
type Point struct {
	X, Y int
}

// Add returns p offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Size is a window footprint in pixels.
type Size struct {
	W, H int
}

// CeilSize rounds fractional dimensions up to whole pixels.
func CeilSize(w, h float64) Size {
	return Size{W: int(math.Ceil(w)), H: int(math.Ceil(h))}
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// distance2 is the squared distance from p to the nearest point of r.
func (r Rect) distance2(p Point) int {
	dx := max(r.X-p.X, 0, p.X-(r.X+r.W-1))
	dy := max(r.Y-p.Y, 0, p.Y-(r.Y+r.H-1))
	return dx*dx + dy*dy
}

// Monitor is one physical display.
type Monitor struct {
	Name     string
	Bounds   Rect
	WorkArea Rect // Bounds minus panels and docks
}

// NearestMonitor returns the monitor whose work area contains p, or the
// one whose bounds are closest to p. The second result is false when
// monitors is empty.
func NearestMonitor(monitors []Monitor, p Point) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	for _, m := range monitors {
		if m.WorkArea.Contains(p) {
			return m, true
		}
	}
	best := monitors[0]
	bestDist := best.Bounds.distance2(p)
	for _, m := range monitors[1:] {
		if d := m.Bounds.distance2(p); d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, true
}

// Clamp positions a window of the given size at origin, pulled back so
// that its footprint stays inside area. When the window is larger than
// the area it is pinned to the area's top-left corner.
func Clamp(origin Point, size Size, area Rect) Point {
	return Point{
		X: max(area.X, min(origin.X, area.X+area.W-size.W)),
		Y: max(area.Y, min(origin.Y, area.Y+area.H-size.H)),
	}
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}
