package kiosk

// DefaultCursorImage is the cursor image shown until the application
// selects another one.
const DefaultCursorImage = "left_ptr"

// Seat owns the pointer state for the claimed device. Input routing lives
// with the embedding application; the seat's job here is to keep the
// cursor presentable: theme loaded at the device scale, a default image
// set, and the pointer parked somewhere sensible.
type Seat struct {
	cursor Cursor
	image  string
}

func newSeat(c Cursor, image string) *Seat {
	if image == "" {
		image = DefaultCursorImage
	}
	return &Seat{cursor: c, image: image}
}

// Cursor returns the backend cursor service, nil when the backend has none.
func (s *Seat) Cursor() Cursor {
	return s.cursor
}

// attachDevice prepares the pointer for a newly claimed device. A missing
// cursor theme degrades to a stale or absent image; it never blocks the
// device from being claimed, so the failure is logged and setup continues.
func (s *Seat) attachDevice(d Device) {
	if s.cursor == nil {
		return
	}
	if err := s.cursor.LoadTheme(d.Scale()); err != nil {
		Logger().Error("seat: cannot load cursor theme",
			"device", d.Name(), "scale", d.Scale(), "error", err)
	}
	s.cursor.SetImage(s.image)
	w, h := d.Size()
	s.cursor.Warp(float64(w)/2, float64(h)/2)
}
