package kiosk

import (
	"errors"
	"image"
	"time"

	"github.com/gogpu/gputypes"
)

// Contract errors shared by backend implementations.
var (
	// ErrNotCurrent is returned by MakeCurrent when the backend cannot hand
	// out the device's frame this tick. Transient: the caller skips the tick
	// and retries on the next one.
	ErrNotCurrent = errors.New("kiosk: device not current")

	// ErrForeignTexture is returned by DrawTexture when the texture was not
	// created by this renderer.
	ErrForeignTexture = errors.New("kiosk: texture from a different renderer")

	// ErrNoPass is returned by DrawTexture outside a Begin/End bracket.
	ErrNoPass = errors.New("kiosk: no render pass in progress")
)

// Subscription is the handle returned by every signal registration.
// Cancel unregisters the handler; after Cancel returns the handler is never
// invoked again. Cancel is idempotent. Holding the handle is what keeps the
// registration alive conceptually: the owner that subscribed is the owner
// that must cancel, and teardown paths cancel deterministically rather than
// leaving dangling handlers behind.
type Subscription interface {
	Cancel()
}

// Mode is one display mode advertised by a device.
// Refresh is in millihertz, 0 when unknown.
type Mode struct {
	Width, Height, Refresh int
}

// Device is a single physical or virtual display, owned by a Backend.
//
// Frame and removal signals are delivered on the server's event loop, so
// handlers run serialized with everything else. A device emits no further
// signals once its removal signal has fired.
type Device interface {
	// Name identifies the device for logs ("virtual-0", "HDMI-A-1").
	Name() string

	// Scale is the logical-to-physical pixel multiplier, >= 1 in practice.
	Scale() float64

	// Transform is the output orientation.
	Transform() Transform

	// Modes lists the advertised modes in advertisement order.
	Modes() []Mode

	// CurrentMode is the active mode, zero before any SetMode.
	CurrentMode() Mode

	// SetMode activates one of the advertised modes.
	SetMode(Mode) error

	// Size is the current mode's pixel size, untransformed.
	Size() (w, h int)

	// EffectiveResolution is the pixel size of a rendered frame: the
	// current mode with the output transform applied, so 90 and 270
	// orientations swap width and height.
	EffectiveResolution() (w, h int)

	// OnFrame registers a handler for refresh ticks. The timestamp is the
	// monotonic time of the tick.
	OnFrame(fn func(now time.Time)) Subscription

	// OnRemove registers a handler for the device disappearing.
	OnRemove(fn func()) Subscription

	// SwapBuffers presents the frame rendered since MakeCurrent.
	SwapBuffers() error
}

// SurfaceState is the state a client committed for one surface: its size in
// logical pixels and the orientation its pixels were produced in. Renderers
// sample with the inverse of Transform so the content displays upright.
type SurfaceState struct {
	Width, Height int
	Transform     Transform
}

// Surface is one drawable unit of a view's content tree.
type Surface interface {
	// Committed returns the last committed state.
	Committed() SurfaceState

	// HasContent reports whether a buffer has ever been committed.
	// Surfaces without content are skipped, not treated as errors.
	HasContent() bool

	// Texture returns the uploaded texture for the committed buffer, or
	// nil when the upload has not happened yet.
	Texture() Texture

	// SendFrameDone tells the producer its frame was presented, releasing
	// it to draw the next one. Delivered exactly once per refresh tick for
	// every surface the compositor visits, drawn or not, so hidden
	// producers keep their pacing instead of stalling.
	SendFrameDone(now time.Time)
}

// ShellSurface enumerates the surface tree of one shell-managed content
// item: the root surface plus nested subsurfaces and popups, each with its
// offset relative to the root in logical pixels.
type ShellSurface interface {
	ForEachSurface(fn func(s Surface, sx, sy int))
}

// Texture is a renderer-owned handle to uploaded surface pixels. Only the
// renderer that created a texture can draw it.
type Texture interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
}

// Renderer draws composited frames for a device.
//
// Calls follow a strict per-tick bracket: MakeCurrent, Begin, Clear, any
// number of DrawTexture calls, End, then Device.SwapBuffers. Renderers are
// used from the event loop only and need no internal locking for that path.
type Renderer interface {
	// MakeCurrent binds the device's frame for rendering. An error means
	// the frame is unavailable this tick; the caller logs at debug level
	// and retries next tick.
	MakeCurrent(d Device) error

	// Begin starts a pass sized in frame pixels.
	Begin(width, height int)

	// Clear fills the pass with a color.
	Clear(c RGBA)

	// DrawTexture draws t through m, where m maps the unit square to frame
	// pixel coordinates (see ProjectBox).
	DrawTexture(t Texture, m Matrix) error

	// End finishes the pass.
	End()

	// NewTexture uploads an image as a texture for later draws.
	NewTexture(img image.Image) (Texture, error)
}

// Cursor is the pointer image service for the claimed device.
type Cursor interface {
	// LoadTheme loads the cursor theme at the given scale so the image
	// stays crisp on scaled outputs.
	LoadTheme(scale float64) error

	// SetImage selects a named cursor image from the loaded theme.
	SetImage(name string)

	// Warp moves the pointer to a position in device pixels.
	Warp(x, y float64)

	// Position returns the current pointer position in device pixels.
	Position() (x, y float64)
}

// Backend supplies devices, a renderer, and a cursor.
//
// Start may begin delivering signals; Close stops them. OnNewDevice fires
// once per device attach; the server cancels its subscription after
// claiming a device, which is how the single-output policy is enforced.
type Backend interface {
	Name() string
	Start() error
	Close()
	Renderer() Renderer
	Cursor() Cursor
	OnNewDevice(fn func(d Device)) Subscription
}

// FramebufferTarget is an optional Device interface for CPU-accessible
// frames. The software renderer requires it; the GPU renderer uses it as
// the readback destination. The returned image is owned by the device and
// resized when the mode changes.
type FramebufferTarget interface {
	Framebuffer() *image.RGBA
}

// LoopAttacher is an optional Backend interface for backends that produce
// signals from their own goroutines (frame clocks, hot-plug monitors). The
// server hands such a backend its event loop during New; the backend posts
// every signal through it from then on, keeping handler execution
// single-threaded.
type LoopAttacher interface {
	AttachLoop(*Loop)
}
