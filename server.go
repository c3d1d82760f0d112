package kiosk

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBackend is returned by New when no backend is supplied.
	ErrNoBackend = errors.New("kiosk: backend is required")

	// ErrNoRenderer is returned by New when neither the backend nor the
	// options provide a renderer.
	ErrNoRenderer = errors.New("kiosk: no renderer available")
)

// Server is the compositor core. It owns the event loop, the output
// layout, the seat, the view stack, and the claim on at most one device.
//
// The output slot is nil while no device is claimed and after the claimed
// device is removed; everything that touches it checks, so attach and
// detach can happen at any point of the server's life.
//
// Server methods are not safe for concurrent use; call them from the
// event loop. Run and Terminate are the exceptions.
type Server struct {
	backend  Backend
	renderer Renderer
	loop     *Loop
	layout   *OutputLayout
	seat     *Seat
	views    *ViewStack

	background RGBA

	output       *Output
	newDeviceSub Subscription
}

// New wires a server to a backend. The server subscribes to device
// attachment immediately, so devices added before Run are claimed as soon
// as the backend announces them.
func New(b Backend, opts ...ServerOption) (*Server, error) {
	if b == nil {
		return nil, ErrNoBackend
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := o.renderer
	if r == nil {
		r = b.Renderer()
	}
	if r == nil {
		return nil, ErrNoRenderer
	}

	s := &Server{
		backend:    b,
		renderer:   r,
		loop:       NewLoop(),
		layout:     &OutputLayout{},
		views:      &ViewStack{},
		background: o.background,
	}
	s.seat = newSeat(b.Cursor(), o.cursorImage)
	if la, ok := b.(LoopAttacher); ok {
		la.AttachLoop(s.loop)
	}
	s.newDeviceSub = b.OnNewDevice(s.handleNewDevice)
	return s, nil
}

// Run starts the backend and dispatches events until the loop terminates,
// then closes the backend. Removing the claimed device terminates the
// loop; so does Terminate.
func (s *Server) Run() error {
	if err := s.backend.Start(); err != nil {
		return fmt.Errorf("kiosk: backend start: %w", err)
	}
	s.loop.Run()
	s.backend.Close()
	return nil
}

// Terminate stops the event loop from any goroutine.
func (s *Server) Terminate() {
	s.loop.Terminate()
}

// Loop returns the event loop backends deliver signals on.
func (s *Server) Loop() *Loop {
	return s.loop
}

// Views returns the view stack. Mutate it from the event loop.
func (s *Server) Views() *ViewStack {
	return s.views
}

// Layout returns the output layout.
func (s *Server) Layout() *OutputLayout {
	return s.layout
}

// Seat returns the seat.
func (s *Server) Seat() *Seat {
	return s.seat
}

// Output returns the claimed output, nil while no device is claimed.
func (s *Server) Output() *Output {
	return s.output
}

// Renderer returns the renderer frames are composited with. Content
// producers use it to upload their buffers as textures.
func (s *Server) Renderer() Renderer {
	return s.renderer
}

// Background returns the frame clear color.
func (s *Server) Background() RGBA {
	return s.background
}
