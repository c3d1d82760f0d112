package kiosk

// OutputLayout arranges devices in the global logical coordinate space.
// Automatically placed devices line up left to right at y = 0, so the
// first (and in a kiosk, only) device sits at the origin.
//
// Not safe for concurrent use; the event loop serializes access.
type OutputLayout struct {
	entries []layoutEntry
}

type layoutEntry struct {
	dev  Device
	x, y float64
}

// AddAuto places a device at the next automatic position: at the origin
// when the layout is empty, otherwise flush against the right edge of the
// rightmost device. Adding a device twice repositions it.
func (l *OutputLayout) AddAuto(d Device) {
	l.Remove(d)
	var x float64
	for _, e := range l.entries {
		w, _ := logicalSize(e.dev)
		if right := e.x + w; right > x {
			x = right
		}
	}
	l.entries = append(l.entries, layoutEntry{dev: d, x: x, y: 0})
}

// Coords returns the layout origin of a device in logical coordinates.
// A device not in the layout reports the origin.
func (l *OutputLayout) Coords(d Device) (x, y float64) {
	for _, e := range l.entries {
		if e.dev == d {
			return e.x, e.y
		}
	}
	return 0, 0
}

// Remove takes a device out of the layout. Unknown devices are a no-op.
func (l *OutputLayout) Remove(d Device) {
	for i, e := range l.entries {
		if e.dev == d {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of laid-out devices.
func (l *OutputLayout) Len() int {
	return len(l.entries)
}

// logicalSize is the device's effective resolution divided by its scale:
// the space the device occupies in layout coordinates.
func logicalSize(d Device) (w, h float64) {
	pw, ph := d.EffectiveResolution()
	s := d.Scale()
	if s <= 0 {
		s = 1
	}
	return float64(pw) / s, float64(ph) / s
}
