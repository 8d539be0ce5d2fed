package sprig

import "math"

// Sprite is a textured quad with a position, pivot, uniform scale and
// rotation. It is a plain value: the renderer reads it during Draw and keeps
// nothing that points back into it.
type Sprite struct {
	Region TextureRegion

	// X and Y place the pivot in world space.
	X, Y float64
	// PivotX and PivotY are the point, in untrimmed region pixels, that X/Y
	// refer to and that scale and rotation happen around.
	PivotX, PivotY float64

	Scale    float64
	Rotation float64 // radians, clockwise in screen space

	Color     Color
	BlendMode BlendMode
	Hidden    bool
}

// NewSprite returns a sprite at the origin with scale 1 and a white tint.
func NewSprite(region TextureRegion) Sprite {
	return Sprite{Region: region, Scale: 1, Color: ColorWhite}
}

// Key returns the transform key for the sprite's scale and rotation.
func (s *Sprite) Key() TransformKey {
	return MakeKey(s.Scale, s.Rotation)
}

// CenterPivot moves the pivot to the middle of the untrimmed region.
func (s *Sprite) CenterPivot() {
	s.PivotX = float64(s.Region.OriginalW) / 2
	s.PivotY = float64(s.Region.OriginalH) / 2
}

// localOrigin returns the top-left corner of the drawn quad relative to the
// pivot, before scale and rotation. Trim offsets shift the quad inside the
// untrimmed frame.
func localOrigin(r *TextureRegion, pivotX, pivotY float64) (float32, float32) {
	return float32(float64(r.OffsetX) - pivotX), float32(float64(r.OffsetY) - pivotY)
}

// boundingRadius returns the distance from the pivot to the farthest quad
// corner once scaled. It bounds the sprite under any rotation.
func boundingRadius(r *TextureRegion, ox, oy float32, scale float64) float64 {
	w, h := float32(r.Width), float32(r.Height)
	var best float32
	for _, c := range [4][2]float32{{ox, oy}, {ox + w, oy}, {ox, oy + h}, {ox + w, oy + h}} {
		if d := c[0]*c[0] + c[1]*c[1]; d > best {
			best = d
		}
	}
	return math.Sqrt(float64(best)) * scale
}
