// Package backend provides a pluggable renderer registry for kiosk.
//
// Renderer implementations register themselves via init() functions and are
// selected at runtime. The software renderer is always constructible; the
// wgpu renderer registers a factory that returns nil when no GPU is usable,
// and the registry skips it.
//
// # Renderer Registration
//
// Blank-import the renderers you want available:
//
//	import (
//		_ "github.com/gogpu/kiosk/backend/software"
//		_ "github.com/gogpu/kiosk/backend/wgpu"
//	)
//
// # Renderer Selection
//
// Use Default() for the best available renderer, Get() for a specific one,
// or Select() to resolve a configured name ("auto", "software", "wgpu"):
//
//	r, err := backend.Select(cfg.Renderer)
//	if err != nil {
//		log.Fatal(err)
//	}
//	srv, err := kiosk.New(be, kiosk.WithRenderer(r))
//
// # Available Renderers
//
//   - "software": CPU compositing onto the device framebuffer (always available)
//   - "wgpu": GPU compositing via gogpu/wgpu compute, with CPU readback
package backend
