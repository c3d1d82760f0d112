// Package headless provides a display backend without a display.
//
// Devices are virtual: the embedding code creates them with AddDevice,
// each one advertises a set of modes and owns an in-memory framebuffer
// sized by SetMode, and refresh ticks come from an explicit frame clock
// (StartFrameClock) or from manual EmitFrame calls. Everything the
// compositor presents lands in Device.Framebuffer, where tests and tools
// can inspect or encode it.
//
// # Wiring a server
//
//	be := headless.New()
//	be.AddDevice("", []kiosk.Mode{{Width: 1280, Height: 720, Refresh: 60000}})
//
//	srv, err := kiosk.New(be)
//	if err != nil {
//	    return err
//	}
//	be.StartFrameClock(16 * time.Millisecond)
//	err = srv.Run()
//
// The backend implements kiosk.LoopAttacher: once the server hands it the
// event loop, clock ticks, device announcements, and removal signals are
// all posted there. Used standalone, without a server, signals fire
// synchronously so tests can drive the backend step by step.
//
// # Content producers
//
// Surface and Shell are ready-made implementations of the compositor's
// content contracts: a Surface commits solid colors or images through a
// renderer and records the frame-done signals it receives, a Shell groups
// a root surface with offset subsurfaces. They carry demo content in
// kioskd and stand in for real clients in tests.
package headless
