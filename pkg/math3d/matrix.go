package math3d

import "math"

// Matrix is an affine transform stored as three columns.
// Each column carries one row of the translation in W:
//
// | I.X J.X K.X | I.W |
// | I.Y J.Y K.Y | J.W |
// | I.Z J.Z K.Z | K.W |
//
// The zero Matrix is not the identity; use Identity.
type Matrix struct {
	I, J, K Vec4
}

// Identity returns the identity matrix with zero translation.
func Identity() Matrix {
	return Matrix{
		I: Vec4{1, 0, 0, 0},
		J: Vec4{0, 1, 0, 0},
		K: Vec4{0, 0, 1, 0},
	}
}

// Translation returns an identity matrix translated by (x, y, z).
func Translation(x, y, z float64) Matrix {
	m := Identity()
	m.I.W, m.J.W, m.K.W = x, y, z
	return m
}

// NewMatrix builds a matrix from three basis columns and a translation.
func NewMatrix(i, j, k, t Vec3) Matrix {
	return Matrix{
		I: V4FromV3(i, t.X),
		J: V4FromV3(j, t.Y),
		K: V4FromV3(k, t.Z),
	}
}

// Position returns the translation (I.W, J.W, K.W).
func (m Matrix) Position() Vec3 {
	return Vec3{m.I.W, m.J.W, m.K.W}
}

// Translate returns a copy of m whose translation is shifted by v.
func (m Matrix) Translate(v Vec3) Matrix {
	m.I.W += v.X
	m.J.W += v.Y
	m.K.W += v.Z
	return m
}

// Basis returns the three columns of the linear part.
func (m Matrix) Basis() (i, j, k Vec3) {
	return m.I.Vec3(), m.J.Vec3(), m.K.Vec3()
}

// Mul composes the linear parts, m · n. The translation of the result is
// m's translation; n's translation is ignored. Rotating a posed matrix
// therefore spins it in place.
func (m Matrix) Mul(n Matrix) Matrix {
	col := func(c Vec4, w float64) Vec4 {
		return Vec4{
			m.I.X*c.X + m.J.X*c.Y + m.K.X*c.Z,
			m.I.Y*c.X + m.J.Y*c.Y + m.K.Y*c.Z,
			m.I.Z*c.X + m.J.Z*c.Y + m.K.Z*c.Z,
			w,
		}
	}
	return Matrix{
		I: col(n.I, m.I.W),
		J: col(n.J, m.J.W),
		K: col(n.K, m.K.W),
	}
}

// MulVec3 applies the full affine map to a point.
func (m Matrix) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m.I.X*v.X + m.J.X*v.Y + m.K.X*v.Z + m.I.W,
		m.I.Y*v.X + m.J.Y*v.Y + m.K.Y*v.Z + m.J.W,
		m.I.Z*v.X + m.J.Z*v.Y + m.K.Z*v.Z + m.K.W,
	}
}

// MulVec3Dir applies only the linear part (no translation).
func (m Matrix) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m.I.X*v.X + m.J.X*v.Y + m.K.X*v.Z,
		m.I.Y*v.X + m.J.Y*v.Y + m.K.Y*v.Z,
		m.I.Z*v.X + m.J.Z*v.Y + m.K.Z*v.Z,
	}
}

// RotationX returns a pure rotation about the X axis.
func RotationX(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{
		I: Vec4{1, 0, 0, 0},
		J: Vec4{0, c, -s, 0},
		K: Vec4{0, s, c, 0},
	}
}

// RotationY returns a pure rotation about the Y axis.
func RotationY(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{
		I: Vec4{c, 0, s, 0},
		J: Vec4{0, 1, 0, 0},
		K: Vec4{-s, 0, c, 0},
	}
}

// RotationZ returns a pure rotation about the Z axis.
func RotationZ(angle float64) Matrix {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix{
		I: Vec4{c, -s, 0, 0},
		J: Vec4{s, c, 0, 0},
		K: Vec4{0, 0, 1, 0},
	}
}

// RotateX post-multiplies a rotation about X onto m (m · Rx), so the
// rotation happens in m's local frame. The translation is preserved.
func (m Matrix) RotateX(angle float64) Matrix {
	return m.Mul(RotationX(angle))
}

// RotateY post-multiplies a rotation about Y onto m (m · Ry).
func (m Matrix) RotateY(angle float64) Matrix {
	return m.Mul(RotationY(angle))
}

// RotateZ post-multiplies a rotation about Z onto m (m · Rz).
func (m Matrix) RotateZ(angle float64) Matrix {
	return m.Mul(RotationZ(angle))
}

// ApproxEqual reports whether every element of m and n differs by at most eps.
func (m Matrix) ApproxEqual(n Matrix, eps float64) bool {
	eq := func(a, b Vec4) bool {
		return math.Abs(a.X-b.X) <= eps &&
			math.Abs(a.Y-b.Y) <= eps &&
			math.Abs(a.Z-b.Z) <= eps &&
			math.Abs(a.W-b.W) <= eps
	}
	return eq(m.I, n.I) && eq(m.J, n.J) && eq(m.K, n.K)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
