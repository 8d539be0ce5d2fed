package sprig

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// compose returns the matrix applying m first, then n.
func compose(n, m [6]float64) [6]float64 {
	return [6]float64{
		n[0]*m[0] + n[2]*m[1],
		n[1]*m[0] + n[3]*m[1],
		n[0]*m[2] + n[2]*m[3],
		n[1]*m[2] + n[3]*m[3],
		n[0]*m[4] + n[2]*m[5] + n[4],
		n[1]*m[4] + n[3]*m[5] + n[5],
	}
}

func TestInvertAffine(t *testing.T) {
	sin, cos := math.Sincos(math.Pi / 3)
	tests := []struct {
		name string
		m    [6]float64
	}{
		{"scale and translate", [6]float64{2, 0, 0, 3, 10, 20}},
		{"rotate and scale", [6]float64{2 * cos, 2 * sin, -sin, cos, -5, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMatrix(t, "inv*m", compose(invertAffine(tt.m), tt.m), identityTransform)
		})
	}
}

func TestInvertAffineSingularReturnsIdentity(t *testing.T) {
	for _, m := range [][6]float64{
		{0, 0, 0, 1, 10, 20},
		{0, 0, 0, 0, 50, 100},
	} {
		assertMatrix(t, "singular", invertAffine(m), identityTransform)
	}
}

func TestTransformPoint(t *testing.T) {
	m := [6]float64{0, 1, -1, 0, 10, 20} // 90° then translate
	x, y := transformPoint(m, 3, 4)
	assertNear(t, "x", x, 6)
	assertNear(t, "y", y, 23)

	m32 := affine32(m)
	x32, y32 := transformPoint32(&m32, 3, 4)
	if x32 != 6 || y32 != 23 {
		t.Errorf("transformPoint32 = (%v, %v), want (6, 23)", x32, y32)
	}
}

func TestMatApplyMatchesAffine(t *testing.T) {
	key := MakeKey(1.5, 0.7)
	m := key.Matrix()
	affine := [6]float64{float64(m[0]), float64(m[1]), float64(m[2]), float64(m[3]), 0, 0}

	gx, gy := m.Apply(5, -2)
	wx, wy := transformPoint(affine, 5, -2)
	if math.Abs(float64(gx)-wx) > 1e-5 || math.Abs(float64(gy)-wy) > 1e-5 {
		t.Errorf("Apply = (%v, %v), affine = (%v, %v)", gx, gy, wx, wy)
	}
}
