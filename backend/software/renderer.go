// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kiosk"
	"github.com/gogpu/kiosk/backend"
)

// ErrNilImage is returned by NewTexture for a nil source image.
var ErrNilImage = errors.New("software: nil image")

// init registers the software renderer on package import.
func init() {
	backend.Register(backend.RendererSoftware, func() kiosk.Renderer { return New() })
}

// Texture holds uploaded pixels for CPU compositing. Uploading copies the
// source image, so producers can reuse their buffers immediately.
type Texture struct {
	r   *Renderer
	img *image.RGBA
}

var _ kiosk.Texture = (*Texture)(nil)

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Format returns the pixel format (RGBA8).
func (t *Texture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Image exposes the uploaded pixels. The returned image is owned by the
// texture; do not modify it.
func (t *Texture) Image() *image.RGBA { return t.img }

// Renderer composites frames on the CPU into an *image.RGBA pass buffer
// and presents by copying the finished pass onto the device framebuffer.
// It requires devices that implement kiosk.FramebufferTarget.
//
// Frames are atomic: the framebuffer holds either the previous frame or a
// complete new one, never a half-drawn pass.
type Renderer struct {
	target *image.RGBA
	pass   *image.RGBA
	inPass bool
}

var _ kiosk.Renderer = (*Renderer)(nil)

// New creates a CPU compositing renderer.
func New() *Renderer {
	return &Renderer{}
}

// MakeCurrent binds the device's framebuffer as the present target.
func (r *Renderer) MakeCurrent(d kiosk.Device) error {
	fb, ok := d.(kiosk.FramebufferTarget)
	if !ok {
		return fmt.Errorf("%w: device %q has no CPU framebuffer", kiosk.ErrNotCurrent, d.Name())
	}
	target := fb.Framebuffer()
	if target == nil {
		return fmt.Errorf("%w: device %q framebuffer not allocated", kiosk.ErrNotCurrent, d.Name())
	}
	r.target = target
	return nil
}

// Begin starts a pass, reusing the pass buffer when the size is unchanged.
func (r *Renderer) Begin(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if r.pass == nil || r.pass.Rect.Dx() != width || r.pass.Rect.Dy() != height {
		r.pass = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	r.inPass = true
}

// Clear fills the pass with c.
func (r *Renderer) Clear(c kiosk.RGBA) {
	if !r.inPass {
		return
	}
	draw.Draw(r.pass, r.pass.Rect, image.NewUniform(c.Color()), image.Point{}, draw.Src)
}

// DrawTexture composites t into the pass through m, where m maps the unit
// square to pass pixel coordinates.
//
// Axis-aligned draws take a fast path: an unscaled blit is a single
// draw.Draw, a scaled one is an x/image interpolated copy. Rotated and
// flipped draws fall back to an inverse-mapped sample loop over the
// destination bounding box.
func (r *Renderer) DrawTexture(t kiosk.Texture, m kiosk.Matrix) error {
	if !r.inPass {
		return kiosk.ErrNoPass
	}
	tex, ok := t.(*Texture)
	if !ok || tex.r != r {
		return fmt.Errorf("%w: %T", kiosk.ErrForeignTexture, t)
	}

	src := tex.img
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	if sw == 0 || sh == 0 {
		return nil
	}

	if m.B == 0 && m.D == 0 && m.A > 0 && m.E > 0 {
		r.drawAxisAligned(src, m)
	} else {
		r.drawTransformed(src, m)
	}
	return nil
}

// End presents the pass by copying it onto the bound framebuffer.
func (r *Renderer) End() {
	if r.inPass && r.pass != nil && r.target != nil {
		draw.Draw(r.target, r.target.Rect, r.pass, r.pass.Rect.Min, draw.Src)
	}
	r.inPass = false
}

// NewTexture uploads an image as a texture, copying its pixels into
// premultiplied RGBA.
func (r *Renderer) NewTexture(img image.Image) (kiosk.Texture, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	cp := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(cp, cp.Rect, img, b.Min, draw.Src)
	return &Texture{r: r, img: cp}, nil
}

// drawAxisAligned blits src into the box the matrix maps the unit square
// onto. The matrix has no rotation or flip here, so the box is just
// (C, F, A, E).
func (r *Renderer) drawAxisAligned(src *image.RGBA, m kiosk.Matrix) {
	x, y, w, h := kiosk.Box{X: m.C, Y: m.F, W: m.A, H: m.E}.Round()
	if w <= 0 || h <= 0 {
		return
	}
	dr := image.Rect(x, y, x+w, y+h)
	if w == src.Rect.Dx() && h == src.Rect.Dy() {
		draw.Draw(r.pass, dr, src, src.Rect.Min, draw.Over)
		return
	}
	xdraw.ApproxBiLinear.Scale(r.pass, dr, src, src.Rect, xdraw.Over, nil)
}

// drawTransformed inverse-maps every destination pixel in the transformed
// unit square's bounding box back to a texel and composites it. Nearest
// sampling: committed-buffer content is drawn 1:1 in texel density for the
// 90-degree family this path exists for, so filtering would only soften it.
func (r *Renderer) drawTransformed(src *image.RGBA, m kiosk.Matrix) {
	inv := m.Invert()
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	fw, fh := float64(sw), float64(sh)

	x0, y0, x1, y1 := destBounds(m, r.pass.Rect)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := inv.TransformPoint(kiosk.Pt(float64(x)+0.5, float64(y)+0.5))
			if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
				continue
			}
			sx := int(p.X * fw)
			sy := int(p.Y * fh)
			if sx >= sw {
				sx = sw - 1
			}
			if sy >= sh {
				sy = sh - 1
			}
			si := src.PixOffset(src.Rect.Min.X+sx, src.Rect.Min.Y+sy)
			di := r.pass.PixOffset(x, y)
			blendOver(r.pass.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
		}
	}
}

// destBounds returns the pass-clipped integer bounding box of the unit
// square mapped through m.
func destBounds(m kiosk.Matrix, clip image.Rectangle) (x0, y0, x1, y1 int) {
	corners := [4]kiosk.Point{
		m.TransformPoint(kiosk.Pt(0, 0)),
		m.TransformPoint(kiosk.Pt(1, 0)),
		m.TransformPoint(kiosk.Pt(0, 1)),
		m.TransformPoint(kiosk.Pt(1, 1)),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	x0 = max(int(math.Floor(minX)), clip.Min.X)
	y0 = max(int(math.Floor(minY)), clip.Min.Y)
	x1 = min(int(math.Ceil(maxX)), clip.Max.X)
	y1 = min(int(math.Ceil(maxY)), clip.Max.Y)
	return x0, y0, x1, y1
}

// blendOver composites one premultiplied source pixel over one destination
// pixel. Both slices are exactly 4 bytes, RGBA.
func blendOver(dst, src []uint8) {
	sa := uint32(src[3])
	switch sa {
	case 0:
		return
	case 255:
		copy(dst, src)
		return
	}
	// Porter-Duff source-over for premultiplied color:
	// out = src + dst * (1 - src_a)
	inv := 255 - sa
	for i := range dst {
		dst[i] = uint8(uint32(src[i]) + (uint32(dst[i])*inv+127)/255)
	}
}
