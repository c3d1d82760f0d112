// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/kiosk"
	"github.com/gogpu/kiosk/backend"
)

// Errors returned by the GPU renderer.
var (
	// ErrNilImage is returned by NewTexture for a nil image.
	ErrNilImage = errors.New("wgpu: nil image")

	// ErrRendererClosed is returned by NewTexture after Close.
	ErrRendererClosed = errors.New("wgpu: renderer closed")
)

func init() {
	backend.Register(backend.RendererWGPU, func() kiosk.Renderer {
		r, err := New()
		if err != nil {
			kiosk.Logger().Debug("wgpu renderer unavailable", "error", err)
			return nil
		}
		return r
	})
}

// Texture is an uploaded surface held in a GPU storage buffer: premultiplied
// RGBA texels packed little-endian per u32, matching blit.wgsl.
type Texture struct {
	r    *Renderer
	w, h int
	buf  hal.Buffer
	size uint64
}

var _ kiosk.Texture = (*Texture)(nil)

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.w }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.h }

// Format reports the texel layout of the uploaded pixels.
func (t *Texture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Destroy releases the GPU buffer backing the texture. The texture must not
// be drawn afterwards. Producers that swap textures every commit call this
// on the replaced one.
func (t *Texture) Destroy() {
	if t.buf != nil && t.r.device != nil {
		t.r.device.DestroyBuffer(t.buf)
	}
	t.buf = nil
}

// blitDraw is one recorded DrawTexture call: the texture plus the inverse
// placement matrix handed to the shader.
type blitDraw struct {
	tex *Texture
	inv kiosk.Matrix
}

// Renderer composites frames on the GPU through wgpu/hal compute dispatch.
//
// Draws recorded between Begin and End are dispatched as one command buffer
// on End: the frame storage buffer is seeded with the clear color, each draw
// runs as its own compute pass (implicit storage barriers keep stack order),
// and the result is read back into the device framebuffer for presentation.
//
// Renderers are driven from the server's event loop and are not safe for
// concurrent use.
type Renderer struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shaderModule hal.ShaderModule
	bindLayout   hal.BindGroupLayout
	pipeLayout   hal.PipelineLayout
	pipeline     hal.ComputePipeline

	externalDevice bool // true when using a shared device (don't destroy on Close)

	target *image.RGBA

	// Pass state, valid between Begin and End.
	inPass bool
	width  int
	height int
	clear  [4]byte
	draws  []blitDraw
}

var _ kiosk.Renderer = (*Renderer)(nil)

// New creates a GPU renderer, initializing a HAL instance, adapter, device
// and the blit pipeline. It fails when no usable GPU is present; callers
// fall back to the software renderer then.
func New() (*Renderer, error) {
	r := &Renderer{}
	if err := r.initGPU(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// MakeCurrent binds the device's framebuffer as the readback destination
// for the next pass.
func (r *Renderer) MakeCurrent(d kiosk.Device) error {
	if r.device == nil {
		return fmt.Errorf("%w: renderer closed", kiosk.ErrNotCurrent)
	}
	fb, ok := d.(kiosk.FramebufferTarget)
	if !ok {
		return fmt.Errorf("%w: device %q has no readback framebuffer", kiosk.ErrNotCurrent, d.Name())
	}
	target := fb.Framebuffer()
	if target == nil {
		return fmt.Errorf("%w: device %q framebuffer not allocated", kiosk.ErrNotCurrent, d.Name())
	}
	r.target = target
	return nil
}

// Begin starts a pass sized in frame pixels, discarding any recorded draws.
func (r *Renderer) Begin(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.width, r.height = width, height
	r.clear = [4]byte{}
	r.draws = r.draws[:0]
	r.inPass = true
}

// Clear records the frame background color.
func (r *Renderer) Clear(c kiosk.RGBA) {
	if !r.inPass {
		return
	}
	rgba := color.RGBAModel.Convert(c.Color()).(color.RGBA)
	r.clear = [4]byte{rgba.R, rgba.G, rgba.B, rgba.A}
}

// DrawTexture records one textured draw. m maps the unit square to frame
// pixel coordinates; the shader receives its inverse and samples nearest.
func (r *Renderer) DrawTexture(t kiosk.Texture, m kiosk.Matrix) error {
	if !r.inPass {
		return kiosk.ErrNoPass
	}
	tex, ok := t.(*Texture)
	if !ok || tex.r != r {
		return fmt.Errorf("%w: %T", kiosk.ErrForeignTexture, t)
	}
	if tex.w == 0 || tex.h == 0 || tex.buf == nil {
		return nil
	}
	r.draws = append(r.draws, blitDraw{tex: tex, inv: m.Invert()})
	return nil
}

// End dispatches the recorded draws and reads the composited frame back
// into the bound framebuffer. Dispatch faults are logged and leave the
// frame cleared to the background color.
func (r *Renderer) End() {
	if !r.inPass {
		return
	}
	r.inPass = false
	draws := r.draws

	w, h := r.width, r.height
	if r.target == nil || w == 0 || h == 0 {
		return
	}

	frame := make([]byte, w*h*4)
	fillFrame(frame, r.clear)
	if len(draws) > 0 && r.device != nil {
		if err := r.dispatch(frame, draws, uint32(w), uint32(h)); err != nil {
			kiosk.Logger().Error("wgpu frame dispatch failed", "error", err)
		}
	}
	storeFrame(frame, r.target, w, h)
}

// NewTexture uploads an image into a GPU storage buffer.
func (r *Renderer) NewTexture(img image.Image) (kiosk.Texture, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if r.device == nil {
		return nil, ErrRendererClosed
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return &Texture{r: r, w: w, h: h}, nil
	}

	// Premultiplied RGBA rows are already the shader's packed u32 layout.
	cp := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(cp, cp.Rect, img, b.Min, draw.Src)

	size := uint64(len(cp.Pix))
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kiosk_texture", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture buffer: %w", err)
	}
	r.queue.WriteBuffer(buf, 0, cp.Pix)
	return &Texture{r: r, w: w, h: h, buf: buf, size: size}, nil
}

// dispatch runs one compute pass per draw over the frame buffer and reads
// the result back into frame. One submit and one fence wait per tick.
func (r *Renderer) dispatch(frame []byte, draws []blitDraw, w, h uint32) error {
	frameSize := uint64(len(frame))

	dstBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kiosk_frame", Size: frameSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create frame buffer: %w", err)
	}
	defer r.device.DestroyBuffer(dstBuf)

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kiosk_staging", Size: frameSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	r.queue.WriteBuffer(dstBuf, 0, frame)

	uniformBufs, bindGroups, err := r.createDrawBindings(draws, dstBuf, frameSize, w, h)
	if err != nil {
		r.cleanupBindings(uniformBufs, bindGroups)
		return err
	}
	defer r.cleanupBindings(uniformBufs, bindGroups)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "kiosk_frame_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("kiosk_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	// One compute pass per draw: implicit storage buffer barriers between
	// passes preserve the bottom-to-top paint order.
	for _, bg := range bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "kiosk_blit"})
		pass.SetPipeline(r.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch((w+7)/8, (h+7)/8, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: frameSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	if err := r.queue.ReadBuffer(stagingBuf, 0, frame); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	return nil
}

// createDrawBindings creates one uniform buffer and bind group per draw.
// Every bind group shares the frame storage buffer.
func (r *Renderer) createDrawBindings(
	draws []blitDraw, dstBuf hal.Buffer, frameSize uint64, w, h uint32,
) ([]hal.Buffer, []hal.BindGroup, error) {
	uniformBufs := make([]hal.Buffer, 0, len(draws))
	bindGroups := make([]hal.BindGroup, 0, len(draws))

	for i, d := range draws {
		params := packBlitParams(w, h, uint32(d.tex.w), uint32(d.tex.h), d.inv)

		ub, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "kiosk_blit_params", Size: blitParamsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("create uniform buffer %d: %w", i, err)
		}
		uniformBufs = append(uniformBufs, ub)
		r.queue.WriteBuffer(ub, 0, params)

		bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "kiosk_blit_bind", Layout: r.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: blitParamsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: d.tex.buf.NativeHandle(), Offset: 0, Size: d.tex.size}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: frameSize}},
			},
		})
		if err != nil {
			return uniformBufs, bindGroups, fmt.Errorf("create bind group %d: %w", i, err)
		}
		bindGroups = append(bindGroups, bg)
	}

	return uniformBufs, bindGroups, nil
}

// cleanupBindings destroys per-draw uniform buffers and bind groups.
func (r *Renderer) cleanupBindings(uniformBufs []hal.Buffer, bindGroups []hal.BindGroup) {
	for _, bg := range bindGroups {
		if bg != nil {
			r.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			r.device.DestroyBuffer(ub)
		}
	}
}

// fillFrame floods the frame bytes with one RGBA pattern.
func fillFrame(frame []byte, c [4]byte) {
	if len(frame) < 4 {
		return
	}
	copy(frame[0:4], c[:])
	for n := 4; n < len(frame); n *= 2 {
		copy(frame[n:], frame[:n])
	}
}

// storeFrame copies frame rows into the framebuffer, respecting both
// strides and clipping to the framebuffer when the sizes disagree.
func storeFrame(frame []byte, dst *image.RGBA, w, h int) {
	srcStride := w * 4
	if dw := dst.Rect.Dx(); dw < w {
		w = dw
	}
	if dh := dst.Rect.Dy(); dh < h {
		h = dh
	}
	rowLen := w * 4
	for y := 0; y < h; y++ {
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		copy(dst.Pix[di:di+rowLen], frame[y*srcStride:])
	}
}
