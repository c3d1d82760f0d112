package kiosk

import "time"

// renderOutput composites one frame for the claimed device: clear to the
// background, draw every surface of every view bottom to top, present, and
// pace producers with frame-done.
//
// A frame that cannot start is skipped, not fatal: the next refresh tick
// retries. One timestamp is captured per tick and shared by every
// frame-done signal so producers see a consistent presentation time.
func (s *Server) renderOutput(o *Output, now time.Time) {
	d := o.dev
	r := s.renderer

	if err := r.MakeCurrent(d); err != nil {
		Logger().Debug("render: frame unavailable, skipping tick",
			"device", d.Name(), "error", err)
		return
	}

	w, h := d.EffectiveResolution()
	r.Begin(w, h)
	r.Clear(s.background)

	lx, ly := s.layout.Coords(d)
	views := s.views.Views()
	// The stack is newest first; walk it backwards so the most recently
	// raised view paints last, on top.
	for i := len(views) - 1; i >= 0; i-- {
		v := views[i]
		v.ForEachSurface(func(sf Surface, sx, sy int) {
			s.renderSurface(d, sf, lx+v.X+float64(sx), ly+v.Y+float64(sy), now)
		})
	}

	r.End()
	if err := d.SwapBuffers(); err != nil {
		Logger().Debug("render: present failed", "device", d.Name(), "error", err)
	}
}

// renderSurface draws one surface at logical position (x, y) and delivers
// its frame-done signal. The signal goes out whether or not anything was
// drawn: a surface skipped for having no texture yet still needs pacing,
// or its producer would stall waiting for a presentation that never comes.
func (s *Server) renderSurface(d Device, sf Surface, x, y float64, now time.Time) {
	if sf.HasContent() {
		s.drawSurface(d, sf, x, y)
	}
	sf.SendFrameDone(now)
}

// drawSurface scales the surface's logical placement to device pixels in a
// single step and draws its texture sampled through the inverse of the
// committed transform.
func (s *Server) drawSurface(d Device, sf Surface, x, y float64) {
	tex := sf.Texture()
	if tex == nil {
		Logger().Debug("render: surface has no texture yet", "device", d.Name())
		return
	}

	st := sf.Committed()
	box := Box{
		X: x,
		Y: y,
		W: float64(st.Width),
		H: float64(st.Height),
	}.Scale(d.Scale())

	m := ProjectBox(box, st.Transform.Invert())
	if err := s.renderer.DrawTexture(tex, m); err != nil {
		Logger().Debug("render: draw failed", "device", d.Name(), "error", err)
	}
}
