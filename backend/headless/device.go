package headless

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/kiosk"
	"github.com/gogpu/kiosk/internal/emitter"
)

// Device is a virtual display. Its framebuffer is allocated by SetMode at
// the effective resolution, so whatever the compositor presents can be
// read back pixel for pixel.
//
// Like every backend device, it delivers signals on the server's event
// loop and is mutated only from there (or from a single test goroutine
// when used standalone).
type Device struct {
	b    *Backend
	name string

	scale     float64
	transform kiosk.Transform
	modes     []kiosk.Mode
	current   kiosk.Mode

	fb       *image.RGBA
	presents int
	removed  bool

	frame  emitter.Emitter[time.Time]
	remove emitter.Emitter[struct{}]
}

var (
	_ kiosk.Device            = (*Device)(nil)
	_ kiosk.FramebufferTarget = (*Device)(nil)
)

// DeviceOption configures a Device during AddDevice.
type DeviceOption func(*Device)

// WithScale sets the logical-to-physical pixel multiplier. Values below
// or equal to zero are ignored.
func WithScale(s float64) DeviceOption {
	return func(d *Device) {
		if s > 0 {
			d.scale = s
		}
	}
}

// WithTransform sets the output orientation.
func WithTransform(t kiosk.Transform) DeviceOption {
	return func(d *Device) {
		d.transform = t
	}
}

// Name identifies the device.
func (d *Device) Name() string { return d.name }

// Scale returns the logical-to-physical pixel multiplier.
func (d *Device) Scale() float64 { return d.scale }

// Transform returns the output orientation.
func (d *Device) Transform() kiosk.Transform { return d.transform }

// Modes returns the advertised modes in advertisement order.
func (d *Device) Modes() []kiosk.Mode {
	out := make([]kiosk.Mode, len(d.modes))
	copy(out, d.modes)
	return out
}

// CurrentMode returns the active mode, zero before any SetMode.
func (d *Device) CurrentMode() kiosk.Mode { return d.current }

// SetMode activates one of the advertised modes and resizes the
// framebuffer to the new effective resolution. A mode the device does not
// advertise is rejected and the current mode stays in effect.
func (d *Device) SetMode(m kiosk.Mode) error {
	if !d.advertises(m) {
		return fmt.Errorf("headless: device %s does not advertise mode %dx%d@%d",
			d.name, m.Width, m.Height, m.Refresh)
	}
	d.current = m
	d.resizeFramebuffer()
	return nil
}

// Size returns the current mode's pixel size, untransformed.
func (d *Device) Size() (w, h int) {
	return d.current.Width, d.current.Height
}

// EffectiveResolution returns the frame pixel size: the current mode with
// the output transform applied.
func (d *Device) EffectiveResolution() (w, h int) {
	return d.transform.ApplySize(d.current.Width, d.current.Height)
}

// OnFrame registers a handler for refresh ticks.
func (d *Device) OnFrame(fn func(now time.Time)) kiosk.Subscription {
	return d.frame.Subscribe(fn)
}

// OnRemove registers a handler for the device disappearing.
func (d *Device) OnRemove(fn func()) kiosk.Subscription {
	return d.remove.Subscribe(func(struct{}) { fn() })
}

// SwapBuffers presents the frame. The headless device has nowhere to
// present to, so presenting just counts.
func (d *Device) SwapBuffers() error {
	d.presents++
	return nil
}

// Presents returns how many frames have been presented.
func (d *Device) Presents() int { return d.presents }

// Framebuffer returns the device's memory frame, nil before the first
// SetMode. The device owns the image; SetMode replaces it when the
// effective resolution changes.
func (d *Device) Framebuffer() *image.RGBA { return d.fb }

func (d *Device) advertises(m kiosk.Mode) bool {
	for _, cur := range d.modes {
		if cur == m {
			return true
		}
	}
	return false
}

func (d *Device) resizeFramebuffer() {
	w, h := d.EffectiveResolution()
	if d.fb != nil && d.fb.Rect.Dx() == w && d.fb.Rect.Dy() == h {
		return
	}
	d.fb = image.NewRGBA(image.Rect(0, 0, w, h))
}
