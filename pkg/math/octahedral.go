package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// PackNormal encodes a unit vector into [0,1]^2 by octahedral projection.
// The lower hemisphere is folded over the diagonals using the pre-fold
// components, then both components are remapped from [-1,1] to [0,1].
// Zero counts as positive when choosing the fold sign.
func PackNormal(v mgl64.Vec3) mgl32.Vec2 {
	d := 1.0 / (math.Abs(v[0]) + math.Abs(v[1]) + math.Abs(v[2]))
	px := v[0] * d
	py := v[1] * d

	if v[2] < 0 {
		px, py = (1-math.Abs(py))*signNotZero(px), (1-math.Abs(px))*signNotZero(py)
	}

	return mgl32.Vec2{
		float32(0.5 * (px + 1)),
		float32(0.5 * (py + 1)),
	}
}

// UnpackNormal decodes a value produced by PackNormal back into a unit vector.
func UnpackNormal(p mgl32.Vec2) mgl64.Vec3 {
	x := float64(p[0])*2 - 1
	y := float64(p[1])*2 - 1
	z := 1 - math.Abs(x) - math.Abs(y)

	if z < 0 {
		x, y = (1-math.Abs(y))*signNotZero(x), (1-math.Abs(x))*signNotZero(y)
	}
	return Normalize(mgl64.Vec3{x, y, z})
}

// QuantizeUnorm8 maps v in [0,1] to an unsigned byte, rounding to nearest.
func QuantizeUnorm8(v float32) uint8 {
	return uint8(math.Round(Clamp(float64(v), 0, 1) * 255))
}

func signNotZero(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
