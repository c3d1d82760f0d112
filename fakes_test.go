package kiosk

import (
	"image"
	"time"

	"github.com/gogpu/gputypes"
)

// Hand-rolled fakes for the backend contracts. They record every call so
// tests can assert ordering and counts without a real backend.

type fakeSub struct {
	cancels int
	onFirst func()
}

func (s *fakeSub) Cancel() {
	s.cancels++
	if s.cancels == 1 && s.onFirst != nil {
		s.onFirst()
	}
}

type fakeDevice struct {
	name       string
	scale      float64
	tr         Transform
	modes      []Mode
	cur        Mode
	setModeErr error
	modeSets   []Mode

	frameFns  map[int]func(time.Time)
	removeFns map[int]func()
	nextSub   int

	frameCancels  int
	removeCancels int

	swaps   int
	swapErr error
}

var _ Device = (*fakeDevice)(nil)

func newFakeDevice(name string, modes ...Mode) *fakeDevice {
	return &fakeDevice{
		name:      name,
		scale:     1,
		modes:     modes,
		frameFns:  make(map[int]func(time.Time)),
		removeFns: make(map[int]func()),
	}
}

func (d *fakeDevice) Name() string         { return d.name }
func (d *fakeDevice) Scale() float64       { return d.scale }
func (d *fakeDevice) Transform() Transform { return d.tr }
func (d *fakeDevice) Modes() []Mode        { return d.modes }
func (d *fakeDevice) CurrentMode() Mode    { return d.cur }
func (d *fakeDevice) Size() (int, int)     { return d.cur.Width, d.cur.Height }
func (d *fakeDevice) SwapBuffers() error   { d.swaps++; return d.swapErr }

func (d *fakeDevice) SetMode(m Mode) error {
	if d.setModeErr != nil {
		return d.setModeErr
	}
	d.cur = m
	d.modeSets = append(d.modeSets, m)
	return nil
}

func (d *fakeDevice) EffectiveResolution() (int, int) {
	return d.tr.ApplySize(d.cur.Width, d.cur.Height)
}

func (d *fakeDevice) OnFrame(fn func(time.Time)) Subscription {
	id := d.nextSub
	d.nextSub++
	d.frameFns[id] = fn
	return &fakeSub{onFirst: func() {
		delete(d.frameFns, id)
		d.frameCancels++
	}}
}

func (d *fakeDevice) OnRemove(fn func()) Subscription {
	id := d.nextSub
	d.nextSub++
	d.removeFns[id] = fn
	return &fakeSub{onFirst: func() {
		delete(d.removeFns, id)
		d.removeCancels++
	}}
}

func (d *fakeDevice) emitFrame(now time.Time) {
	fns := make([]func(time.Time), 0, len(d.frameFns))
	for _, fn := range d.frameFns {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(now)
	}
}

func (d *fakeDevice) emitRemove() {
	fns := make([]func(), 0, len(d.removeFns))
	for _, fn := range d.removeFns {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

type fakeTexture struct {
	w, h int
}

var _ Texture = (*fakeTexture)(nil)

func (t *fakeTexture) Width() int  { return t.w }
func (t *fakeTexture) Height() int { return t.h }

func (t *fakeTexture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

type drawCall struct {
	tex Texture
	m   Matrix
}

type fakeRenderer struct {
	makeCurrentErr error

	current Device
	beginW  int
	beginH  int
	clears  []RGBA
	draws   []drawCall
	ends    int
	ops     []string
}

var _ Renderer = (*fakeRenderer)(nil)

func (r *fakeRenderer) MakeCurrent(d Device) error {
	if r.makeCurrentErr != nil {
		return r.makeCurrentErr
	}
	r.current = d
	r.ops = append(r.ops, "makeCurrent")
	return nil
}

func (r *fakeRenderer) Begin(w, h int) {
	r.beginW, r.beginH = w, h
	r.ops = append(r.ops, "begin")
}

func (r *fakeRenderer) Clear(c RGBA) {
	r.clears = append(r.clears, c)
	r.ops = append(r.ops, "clear")
}

func (r *fakeRenderer) DrawTexture(t Texture, m Matrix) error {
	r.draws = append(r.draws, drawCall{tex: t, m: m})
	r.ops = append(r.ops, "draw")
	return nil
}

func (r *fakeRenderer) End() {
	r.ends++
	r.ops = append(r.ops, "end")
}

func (r *fakeRenderer) NewTexture(img image.Image) (Texture, error) {
	b := img.Bounds()
	return &fakeTexture{w: b.Dx(), h: b.Dy()}, nil
}

type fakeSurface struct {
	state      SurfaceState
	hasContent bool
	tex        Texture

	frameDone []time.Time
}

var _ Surface = (*fakeSurface)(nil)

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{
		state:      SurfaceState{Width: w, Height: h},
		hasContent: true,
		tex:        &fakeTexture{w: w, h: h},
	}
}

func (s *fakeSurface) Committed() SurfaceState     { return s.state }
func (s *fakeSurface) HasContent() bool            { return s.hasContent }
func (s *fakeSurface) Texture() Texture            { return s.tex }
func (s *fakeSurface) SendFrameDone(now time.Time) { s.frameDone = append(s.frameDone, now) }

type shellEntry struct {
	s      Surface
	sx, sy int
}

type fakeShell struct {
	entries []shellEntry
}

var _ ShellSurface = (*fakeShell)(nil)

func (sh *fakeShell) ForEachSurface(fn func(s Surface, sx, sy int)) {
	for _, e := range sh.entries {
		fn(e.s, e.sx, e.sy)
	}
}

type fakeCursor struct {
	loadErr error
	loads   []float64
	images  []string
	warps   []Point
	x, y    float64
}

var _ Cursor = (*fakeCursor)(nil)

func (c *fakeCursor) LoadTheme(scale float64) error {
	c.loads = append(c.loads, scale)
	return c.loadErr
}

func (c *fakeCursor) SetImage(name string) {
	c.images = append(c.images, name)
}

func (c *fakeCursor) Warp(x, y float64) {
	c.warps = append(c.warps, Point{X: x, Y: y})
	c.x, c.y = x, y
}

func (c *fakeCursor) Position() (float64, float64) { return c.x, c.y }

type fakeBackend struct {
	name     string
	renderer Renderer
	cursor   *fakeCursor

	newDeviceFns map[int]func(Device)
	nextSub      int
	devCancels   int

	started  int
	closed   int
	startErr error
}

var _ Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		name:         "fake",
		renderer:     &fakeRenderer{},
		cursor:       &fakeCursor{},
		newDeviceFns: make(map[int]func(Device)),
	}
}

func (b *fakeBackend) Name() string       { return b.name }
func (b *fakeBackend) Start() error       { b.started++; return b.startErr }
func (b *fakeBackend) Close()             { b.closed++ }
func (b *fakeBackend) Renderer() Renderer { return b.renderer }
func (b *fakeBackend) Cursor() Cursor {
	if b.cursor == nil {
		return nil
	}
	return b.cursor
}

func (b *fakeBackend) OnNewDevice(fn func(Device)) Subscription {
	id := b.nextSub
	b.nextSub++
	b.newDeviceFns[id] = fn
	return &fakeSub{onFirst: func() {
		delete(b.newDeviceFns, id)
		b.devCancels++
	}}
}

func (b *fakeBackend) emitNewDevice(d Device) {
	fns := make([]func(Device), 0, len(b.newDeviceFns))
	for _, fn := range b.newDeviceFns {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn(d)
	}
}

// singleSurfaceView builds a view holding one surface at the given offset.
func singleSurfaceView(x, y float64, s Surface, sx, sy int) *View {
	return &View{
		X:     x,
		Y:     y,
		Kind:  ContentXDGShell,
		Shell: &fakeShell{entries: []shellEntry{{s: s, sx: sx, sy: sy}}},
	}
}

func terminated(l *Loop) bool {
	select {
	case <-l.Done():
		return true
	default:
		return false
	}
}
