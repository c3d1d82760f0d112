package headless

import "github.com/gogpu/kiosk"

// Cursor is a recording cursor: there is no pointer hardware and no theme
// on disk, so it remembers what the seat asked for and lets tests read it
// back.
type Cursor struct {
	theme string
	size  int

	loadedScale float64
	image       string
	x, y        float64
}

var _ kiosk.Cursor = (*Cursor)(nil)

// LoadTheme records the scale the theme was requested at. It never fails.
func (c *Cursor) LoadTheme(scale float64) error {
	c.loadedScale = scale
	kiosk.Logger().Debug("headless: cursor theme loaded",
		"theme", c.theme, "size", c.size, "scale", scale)
	return nil
}

// SetImage records the selected cursor image.
func (c *Cursor) SetImage(name string) {
	c.image = name
}

// Warp records the pointer position in device pixels.
func (c *Cursor) Warp(x, y float64) {
	c.x, c.y = x, y
}

// Position returns the recorded pointer position.
func (c *Cursor) Position() (x, y float64) {
	return c.x, c.y
}

// Theme returns the configured theme name and size.
func (c *Cursor) Theme() (name string, size int) {
	return c.theme, c.size
}

// LoadedScale returns the scale passed to the last LoadTheme, zero before
// any load.
func (c *Cursor) LoadedScale() float64 { return c.loadedScale }

// Image returns the selected cursor image name.
func (c *Cursor) Image() string { return c.image }
