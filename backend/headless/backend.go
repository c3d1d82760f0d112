package headless

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/kiosk"
	"github.com/gogpu/kiosk/backend"
	"github.com/gogpu/kiosk/internal/emitter"
)

// ErrBackendClosed is returned by Start after Close.
var ErrBackendClosed = errors.New("headless: backend closed")

// DefaultCursorTheme is the theme name the recording cursor reports when
// none is configured.
const DefaultCursorTheme = "default"

// Backend is a display backend with no display: devices are created by the
// embedding code, frames are driven by an explicit clock or by EmitFrame,
// and every device renders into a plain memory framebuffer. It exists for
// tests, demos, and running the compositor where no real output hardware
// is reachable.
//
// Signals are posted through the server's event loop once AttachLoop has
// been called; before that (standalone use in tests) they fire
// synchronously on the caller's goroutine.
type Backend struct {
	mu        sync.Mutex
	loop      *kiosk.Loop
	devices   []*Device
	deviceSeq int
	started   bool
	closed    bool
	clockCtl  chan struct{}
	clockEnd  chan struct{}

	renderer kiosk.Renderer
	cursor   *Cursor

	// Loop-confined; the mutex above covers only the fields that the
	// frame-clock goroutine touches.
	newDevice emitter.Emitter[kiosk.Device]
}

var (
	_ kiosk.Backend      = (*Backend)(nil)
	_ kiosk.LoopAttacher = (*Backend)(nil)
)

// Option configures a Backend during creation.
type Option func(*Backend)

// WithRenderer sets the renderer the backend hands to the server,
// bypassing registry selection.
func WithRenderer(r kiosk.Renderer) Option {
	return func(b *Backend) {
		b.renderer = r
	}
}

// WithCursorTheme names the cursor theme and size the recording cursor
// reports as loaded.
func WithCursorTheme(name string, size int) Option {
	return func(b *Backend) {
		if name != "" {
			b.cursor.theme = name
		}
		if size > 0 {
			b.cursor.size = size
		}
	}
}

// New creates a headless backend with no devices. Add devices with
// AddDevice, before or after Start.
func New(opts ...Option) *Backend {
	b := &Backend{
		cursor: &Cursor{theme: DefaultCursorTheme, size: 24},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name identifies the backend in logs.
func (b *Backend) Name() string { return "headless" }

// AttachLoop directs all further signal delivery through the server's
// event loop.
func (b *Backend) AttachLoop(l *kiosk.Loop) {
	b.mu.Lock()
	b.loop = l
	b.mu.Unlock()
}

// Start announces every device added so far. Devices added later are
// announced as they arrive. Starting twice is a no-op.
func (b *Backend) Start() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBackendClosed
	}
	if b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = true
	devices := make([]*Device, len(b.devices))
	copy(devices, b.devices)
	b.mu.Unlock()

	for _, d := range devices {
		b.announce(d)
	}
	kiosk.Logger().Info("headless: backend started", "devices", len(devices))
	return nil
}

// Close stops the frame clock and drops the backend into its terminal
// state. Devices are not removed: the loop has already stopped by the
// time the server closes its backend, and removal signals would go
// nowhere.
func (b *Backend) Close() {
	b.StopFrameClock()
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Renderer returns the configured renderer, or resolves one from the
// registry on first use. Returns nil when no renderer package has been
// linked in.
func (b *Backend) Renderer() kiosk.Renderer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.renderer == nil {
		b.renderer = backend.Default()
	}
	return b.renderer
}

// Cursor returns the recording cursor.
func (b *Backend) Cursor() kiosk.Cursor { return b.cursor }

// OnNewDevice registers a handler for device attachment.
func (b *Backend) OnNewDevice(fn func(d kiosk.Device)) kiosk.Subscription {
	return b.newDevice.Subscribe(fn)
}

// AddDevice creates a virtual device advertising the given modes and
// attaches it to the backend. An empty name is filled in as "virtual-N".
// No mode is active until SetMode; the compositor picks one when it
// claims the device.
//
// Devices added after Start are announced immediately, which is how
// hot-plug is simulated.
func (b *Backend) AddDevice(name string, modes []kiosk.Mode, opts ...DeviceOption) *Device {
	d := &Device{
		b:         b,
		name:      name,
		scale:     1,
		transform: kiosk.TransformNormal,
		modes:     append([]kiosk.Mode(nil), modes...),
	}
	for _, opt := range opts {
		opt(d)
	}

	b.mu.Lock()
	if d.name == "" {
		d.name = fmt.Sprintf("virtual-%d", b.deviceSeq)
	}
	b.deviceSeq++
	b.devices = append(b.devices, d)
	started := b.started
	b.mu.Unlock()

	if started {
		b.announce(d)
	}
	return d
}

// RemoveDevice detaches a device and fires its removal signal. Removing a
// device that is already gone is a no-op; a removed device emits no
// further signals.
func (b *Backend) RemoveDevice(d *Device) {
	b.mu.Lock()
	for i, cur := range b.devices {
		if cur == d {
			b.devices = append(b.devices[:i], b.devices[i+1:]...)
			break
		}
	}
	b.mu.Unlock()

	b.post(func() {
		if d.removed {
			return
		}
		d.removed = true
		d.remove.Emit(struct{}{})
	})
}

// Devices returns the attached devices in attachment order.
func (b *Backend) Devices() []*Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Device, len(b.devices))
	copy(out, b.devices)
	return out
}

// EmitFrame delivers one refresh tick with the given timestamp to every
// attached device. Safe to call from any goroutine.
func (b *Backend) EmitFrame(now time.Time) {
	b.post(func() {
		for _, d := range b.snapshot() {
			if d.removed {
				continue
			}
			d.frame.Emit(now)
		}
	})
}

// StartFrameClock starts a goroutine ticking EmitFrame at the given
// interval, standing in for the vertical refresh of a real display. A
// second call while the clock runs is a no-op.
func (b *Backend) StartFrameClock(interval time.Duration) {
	b.mu.Lock()
	if b.clockCtl != nil || b.closed {
		b.mu.Unlock()
		return
	}
	ctl := make(chan struct{})
	end := make(chan struct{})
	b.clockCtl = ctl
	b.clockEnd = end
	b.mu.Unlock()

	go func() {
		defer close(end)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctl:
				return
			case now := <-ticker.C:
				b.EmitFrame(now)
			}
		}
	}()
	kiosk.Logger().Debug("headless: frame clock started", "interval", interval)
}

// StopFrameClock stops the clock goroutine and waits for it to exit.
// Safe to call when no clock is running.
func (b *Backend) StopFrameClock() {
	b.mu.Lock()
	ctl, end := b.clockCtl, b.clockEnd
	b.clockCtl, b.clockEnd = nil, nil
	b.mu.Unlock()
	if ctl == nil {
		return
	}
	close(ctl)
	<-end
}

// announce emits the new-device signal for d.
func (b *Backend) announce(d *Device) {
	b.post(func() {
		b.newDevice.Emit(d)
	})
}

// post runs fn through the attached loop, or synchronously when no loop
// has been attached.
func (b *Backend) post(fn func()) {
	b.mu.Lock()
	loop := b.loop
	b.mu.Unlock()
	if loop != nil {
		loop.Post(fn)
		return
	}
	fn()
}

func (b *Backend) snapshot() []*Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Device, len(b.devices))
	copy(out, b.devices)
	return out
}
