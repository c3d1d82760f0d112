// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/gogpu/naga"

	"github.com/gogpu/kiosk"
)

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

// blitParamsSize is the byte size of the BlitParams uniform in blit.wgsl:
// two vec2<u32> plus two vec4<f32>, 16-byte aligned.
const blitParamsSize = 48

// compileBlitShader compiles the WGSL blit shader to SPIR-V words.
func compileBlitShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(blitShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile blit shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// packBlitParams serializes the uniform for one draw. inv maps destination
// pixel coordinates back to the unit square of the source texture.
// Must match BlitParams in blit.wgsl.
func packBlitParams(dstW, dstH, srcW, srcH uint32, inv kiosk.Matrix) []byte {
	buf := make([]byte, blitParamsSize)
	writeUint32(buf, 0, dstW)
	writeUint32(buf, 4, dstH)
	writeUint32(buf, 8, srcW)
	writeUint32(buf, 12, srcH)
	writeFloat32(buf, 16, float32(inv.A))
	writeFloat32(buf, 20, float32(inv.B))
	writeFloat32(buf, 24, float32(inv.C))
	writeFloat32(buf, 32, float32(inv.D))
	writeFloat32(buf, 36, float32(inv.E))
	writeFloat32(buf, 40, float32(inv.F))
	return buf
}

// Byte serialization helpers for GPU buffer upload.

func writeUint32(buf []byte, offset int, val uint32) {
	buf[offset] = byte(val)
	buf[offset+1] = byte(val >> 8)
	buf[offset+2] = byte(val >> 16)
	buf[offset+3] = byte(val >> 24)
}

func writeFloat32(buf []byte, offset int, val float32) {
	writeUint32(buf, offset, math.Float32bits(val))
}
