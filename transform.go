package kiosk

import "fmt"

// Transform describes the orientation of committed content or of an output,
// as one of the eight axis-aligned rotations and reflections. The zero
// value is the untransformed orientation.
//
// The low two bits count quarter turns counter-clockwise; the flip bit
// mirrors around the vertical axis before rotating.
type Transform uint8

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

const transformFlipBit Transform = 4

// Invert returns the transform that undoes t. Pure 90 and 270 rotations
// swap; every flipped orientation is its own inverse.
func (t Transform) Invert() Transform {
	if t&1 != 0 && t&transformFlipBit == 0 {
		return t ^ 2
	}
	return t
}

// Swapped reports whether t exchanges the horizontal and vertical axes.
func (t Transform) Swapped() bool {
	return t&1 != 0
}

// ApplySize returns the dimensions of a w×h region after t is applied.
func (t Transform) ApplySize(w, h int) (int, int) {
	if t.Swapped() {
		return h, w
	}
	return w, h
}

// Matrix returns the linear part of t as a 2D affine matrix. It maps the
// square centered on the origin onto itself; ProjectBox recenters it onto
// a placement box.
func (t Transform) Matrix() Matrix {
	switch t {
	case Transform90:
		return Matrix{A: 0, B: 1, D: -1, E: 0}
	case Transform180:
		return Matrix{A: -1, B: 0, D: 0, E: -1}
	case Transform270:
		return Matrix{A: 0, B: -1, D: 1, E: 0}
	case TransformFlipped:
		return Matrix{A: -1, B: 0, D: 0, E: 1}
	case TransformFlipped90:
		return Matrix{A: 0, B: 1, D: 1, E: 0}
	case TransformFlipped180:
		return Matrix{A: 1, B: 0, D: 0, E: -1}
	case TransformFlipped270:
		return Matrix{A: 0, B: -1, D: -1, E: 0}
	default:
		return Identity()
	}
}

// String returns the configuration name of the transform.
func (t Transform) String() string {
	switch t {
	case TransformNormal:
		return "normal"
	case Transform90:
		return "90"
	case Transform180:
		return "180"
	case Transform270:
		return "270"
	case TransformFlipped:
		return "flipped"
	case TransformFlipped90:
		return "flipped-90"
	case TransformFlipped180:
		return "flipped-180"
	case TransformFlipped270:
		return "flipped-270"
	default:
		return fmt.Sprintf("Transform(%d)", uint8(t))
	}
}

// ParseTransform converts a configuration name into a Transform.
func ParseTransform(s string) (Transform, error) {
	switch s {
	case "", "normal":
		return TransformNormal, nil
	case "90":
		return Transform90, nil
	case "180":
		return Transform180, nil
	case "270":
		return Transform270, nil
	case "flipped":
		return TransformFlipped, nil
	case "flipped-90":
		return TransformFlipped90, nil
	case "flipped-180":
		return TransformFlipped180, nil
	case "flipped-270":
		return TransformFlipped270, nil
	default:
		return TransformNormal, fmt.Errorf("kiosk: unknown transform %q", s)
	}
}
