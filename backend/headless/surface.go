package headless

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/gogpu/kiosk"
)

// textureDestroyer matches renderer textures that hold releasable
// resources. CPU textures do not; GPU textures do.
type textureDestroyer interface{ Destroy() }

// Surface is a scriptable content producer: a stand-in for a client
// surface that tests and demos commit colors or images to. It implements
// the compositor's surface contract and records every frame-done it
// receives.
type Surface struct {
	state kiosk.SurfaceState
	tex   kiosk.Texture

	hasContent bool
	frameDone  []time.Time
}

var _ kiosk.Surface = (*Surface)(nil)

// NewSurface creates a surface of the given logical size with nothing
// committed yet: HasContent is false until SetColor or SetImage.
func NewSurface(width, height int) *Surface {
	return &Surface{
		state: kiosk.SurfaceState{Width: width, Height: height},
	}
}

// NewColorSurface creates a surface and commits a solid color through r.
func NewColorSurface(r kiosk.Renderer, width, height int, c kiosk.RGBA) (*Surface, error) {
	s := NewSurface(width, height)
	if err := s.SetColor(r, c); err != nil {
		return nil, err
	}
	return s, nil
}

// Committed returns the last committed state.
func (s *Surface) Committed() kiosk.SurfaceState { return s.state }

// HasContent reports whether anything has been committed.
func (s *Surface) HasContent() bool { return s.hasContent }

// Texture returns the uploaded texture, nil before the first commit.
func (s *Surface) Texture() kiosk.Texture { return s.tex }

// SendFrameDone records the presentation timestamp.
func (s *Surface) SendFrameDone(now time.Time) {
	s.frameDone = append(s.frameDone, now)
}

// FrameDone returns the recorded presentation timestamps in delivery
// order.
func (s *Surface) FrameDone() []time.Time {
	out := make([]time.Time, len(s.frameDone))
	copy(out, s.frameDone)
	return out
}

// SetTransform declares the orientation the surface's pixels are produced
// in, as a client would with its next commit.
func (s *Surface) SetTransform(t kiosk.Transform) {
	s.state.Transform = t
}

// SetColor commits a solid-color buffer of the surface's size.
func (s *Surface) SetColor(r kiosk.Renderer, c kiosk.RGBA) error {
	img := image.NewRGBA(image.Rect(0, 0, s.state.Width, s.state.Height))
	draw.Draw(img, img.Rect, image.NewUniform(c.Color()), image.Point{}, draw.Src)
	return s.commit(r, img, s.state.Width, s.state.Height)
}

// SetImage commits an image buffer. The surface's committed size follows
// the image.
func (s *Surface) SetImage(r kiosk.Renderer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("headless: nil surface image")
	}
	b := img.Bounds()
	return s.commit(r, img, b.Dx(), b.Dy())
}

func (s *Surface) commit(r kiosk.Renderer, img image.Image, w, h int) error {
	tex, err := r.NewTexture(img)
	if err != nil {
		return fmt.Errorf("headless: surface upload: %w", err)
	}
	if old, ok := s.tex.(textureDestroyer); ok {
		old.Destroy()
	}
	s.tex = tex
	s.state.Width = w
	s.state.Height = h
	s.hasContent = true
	return nil
}

// Shell is a shell-content producer: a root surface plus subsurfaces at
// fixed offsets, enumerated root first and then in attach order.
type Shell struct {
	root kiosk.Surface
	subs []shellNode
}

type shellNode struct {
	s      kiosk.Surface
	sx, sy int
}

var _ kiosk.ShellSurface = (*Shell)(nil)

// NewShell creates shell content rooted at root.
func NewShell(root kiosk.Surface) *Shell {
	return &Shell{root: root}
}

// Attach adds a subsurface at an offset relative to the root, in logical
// pixels. Subsurfaces stack above the root in attach order.
func (sh *Shell) Attach(s kiosk.Surface, sx, sy int) {
	sh.subs = append(sh.subs, shellNode{s: s, sx: sx, sy: sy})
}

// ForEachSurface visits the root at offset (0, 0), then every subsurface.
func (sh *Shell) ForEachSurface(fn func(s kiosk.Surface, sx, sy int)) {
	if sh.root != nil {
		fn(sh.root, 0, 0)
	}
	for _, n := range sh.subs {
		fn(n.s, n.sx, n.sy)
	}
}

// View wraps the shell in a view positioned at (x, y) in layout
// coordinates, ready for the server's view stack.
func (sh *Shell) View(x, y float64) *kiosk.View {
	return &kiosk.View{X: x, Y: y, Kind: kiosk.ContentXDGShell, Shell: sh}
}
