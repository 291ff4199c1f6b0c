package math

import "github.com/go-gl/mathgl/mgl64"

// Matrices are mgl64.Mat4 in column-major order and transform column vectors:
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// A point p maps to M * [p, 1], so translation lives in m12..m14.

// TransformPoint transforms a 3D point by m (assumes w=1) and divides by the
// resulting w when it is neither 0 nor 1.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	r := m.Mul4x1(p.Vec4(1))
	if r[3] != 0 && r[3] != 1 {
		return mgl64.Vec3{r[0] / r[3], r[1] / r[3], r[2] / r[3]}
	}
	return r.Vec3()
}

// TransformDirection transforms a direction vector (ignores translation).
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// FromAxes builds a rotation whose columns are the given basis vectors, so that
// local (1,0,0) maps to x, (0,1,0) to y and (0,0,1) to z.
func FromAxes(x, y, z mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
}

// Axis returns column i (0..2) of the upper-left 3x3 block.
func Axis(m mgl64.Mat4, i int) mgl64.Vec3 {
	return m.Col(i).Vec3()
}

// Translation returns the translation column of m.
func Translation(m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{m[12], m[13], m[14]}
}

// WithTranslation returns m with its translation column replaced by t.
func WithTranslation(m mgl64.Mat4, t mgl64.Vec3) mgl64.Mat4 {
	m[12], m[13], m[14] = t[0], t[1], t[2]
	return m
}
