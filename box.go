package kiosk

import "math"

// Box is an axis-aligned placement rectangle. Positions and sizes are
// float64 so that logical coordinates can accumulate exactly and be
// scaled to physical pixels in one step.
type Box struct {
	X, Y, W, H float64
}

// Scale returns the box with position and size multiplied by s.
func (b Box) Scale(s float64) Box {
	return Box{X: b.X * s, Y: b.Y * s, W: b.W * s, H: b.H * s}
}

// Round returns the box snapped to integer pixel coordinates. The origin
// rounds to nearest; the far edge is preserved so adjacent boxes stay
// adjacent after rounding.
func (b Box) Round() (x, y, w, h int) {
	x = int(math.Round(b.X))
	y = int(math.Round(b.Y))
	w = int(math.Round(b.X+b.W)) - x
	h = int(math.Round(b.Y+b.H)) - y
	return x, y, w, h
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}
