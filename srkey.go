package sprig

import (
	"fmt"
	"math"
)

// TransformKey is the compact identity of a sprite's scale and rotation.
// Two sprites with equal keys share one materialized matrix per frame.
//
// Layout:
//
//	bits 31..16  uniform scale, unsigned 8.8 fixed point
//	bits 15..0   rotation, fraction of a full turn (65536 steps)
type TransformKey uint32

const (
	keyScaleOne   = 256     // fixed-point 1.0
	keyAngleSteps = 1 << 16 // steps per full turn

	// MaxKeyScale is the largest scale a TransformKey can encode.
	MaxKeyScale = float64(0xFFFF) / keyScaleOne
)

// IdentityKey is the key for scale 1 and no rotation.
const IdentityKey = TransformKey(keyScaleOne << 16)

// MakeKey quantizes a uniform scale and a rotation (radians) into a key.
//
// A negative scale is folded into a half-turn rotation, which yields the same
// matrix. Scale is clamped to [0, MaxKeyScale]; NaN and infinite inputs are
// treated as zero.
func MakeKey(scale, rotation float64) TransformKey {
	if math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		rotation = 0
	}
	if scale < 0 {
		scale = -scale
		rotation += math.Pi
	}

	s := math.Round(scale * keyScaleOne)
	if !(s > 0) {
		s = 0
	} else if s > 0xFFFF {
		s = 0xFFFF
	}

	turns := rotation / (2 * math.Pi)
	turns -= math.Floor(turns)
	a := uint32(math.Round(turns*keyAngleSteps)) & 0xFFFF

	return TransformKey(uint32(s)<<16 | a)
}

// Scale returns the decoded uniform scale.
func (k TransformKey) Scale() float64 {
	return float64(k>>16) / keyScaleOne
}

// Rotation returns the decoded rotation in radians, in [0, 2π).
func (k TransformKey) Rotation() float64 {
	return float64(k&0xFFFF) / keyAngleSteps * 2 * math.Pi
}

// Matrix materializes the 2x2 scale/rotation matrix for the key.
func (k TransformKey) Matrix() Mat {
	s := k.Scale()
	sin, cos := math.Sincos(k.Rotation())
	return Mat{
		float32(s * cos),
		float32(s * sin),
		float32(-s * sin),
		float32(s * cos),
	}
}

// String formats the key with its decoded scale and rotation in degrees.
func (k TransformKey) String() string {
	return fmt.Sprintf("key(%#08x s=%.4g r=%.4g°)", uint32(k), k.Scale(), k.Rotation()*180/math.Pi)
}

// Mat is a 2x2 linear transform {a, b, c, d}, using the same column order as
// the package's affine matrices:
//
//	| a  c |
//	| b  d |
type Mat [4]float32

// Apply transforms the point (x, y).
func (m Mat) Apply(x, y float32) (float32, float32) {
	return m[0]*x + m[2]*y, m[1]*x + m[3]*y
}
