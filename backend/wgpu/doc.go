// Package wgpu provides the GPU compositing renderer using gogpu/wgpu.
//
// Surfaces are uploaded into storage buffers and composited by a WGSL
// compute shader (shaders/blit.wgsl, compiled to SPIR-V through gogpu/naga)
// that samples each texture through the inverse of its placement matrix.
// All draws recorded between Begin and End run in a single command buffer,
// one compute pass per draw, and the finished frame is read back into the
// device's CPU framebuffer for presentation.
//
// # Registration and Selection
//
// The renderer registers itself when the package is imported:
//
//	import _ "github.com/gogpu/kiosk/backend/wgpu"
//
// backend.Default prefers it over the software renderer. When no usable
// GPU is present the factory returns nil and selection falls through to
// software, so a blank import is always safe.
//
// # Shared Devices
//
// A host application that already owns a HAL device can hand it to the
// renderer instead of letting it open its own:
//
//	r, err := wgpu.New()
//	if err == nil {
//	    err = r.SetDeviceProvider(app.GPUContextProvider())
//	}
//
// The provider must implement gpucontext.DeviceProvider and expose the
// underlying hal.Device and hal.Queue.
//
// # Requirements
//
//   - A GPU reachable through the wgpu HAL Vulkan backend
//   - gogpu/naga for WGSL compilation at startup
package wgpu
