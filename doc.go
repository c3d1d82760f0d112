// Package kiosk provides the core of a single-output kiosk compositor.
//
// # Overview
//
// kiosk drives exactly one display at a time: it claims the first output
// device a backend advertises, composites the application's committed
// surfaces onto it every refresh tick, and shuts the process down when the
// device goes away. It is the display half of a kiosk shell; input routing
// and shell protocol handling live with the embedding application.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/kiosk"
//	    "github.com/gogpu/kiosk/backend/headless"
//	    _ "github.com/gogpu/kiosk/backend/software"
//	)
//
//	be := headless.New()
//	srv, _ := kiosk.New(be)
//	be.AddDevice("virtual-0", []kiosk.Mode{{Width: 1920, Height: 1080, Refresh: 60000}})
//	srv.Run() // blocks until the device is removed
//
// # Architecture
//
// The library is organized into:
//   - Public API: Server, Output, View, Matrix, Box, Transform
//   - Contracts: Backend, Device, Renderer, Texture, Surface, Cursor
//   - Backends: software (CPU), wgpu (GPU), headless (virtual displays)
//
// Backend packages depend on this package, never the other way around.
// Renderer implementations register themselves with the backend registry;
// blank-import the ones you want available.
//
// # Threading Model
//
// The server is single-threaded. Backends deliver every signal through the
// server's event loop, handlers run to completion in delivery order, and no
// state is shared across goroutines. None of the Server, Output, or View
// methods are safe for concurrent use; call them from the loop.
//
// # Coordinate System
//
// Placement happens in logical layout coordinates: origin at the top-left,
// X right, Y down, float64 throughout. The device scale factor maps logical
// to physical pixels in a single step at draw time, so positions accumulate
// without intermediate rounding.
package kiosk

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
