package geometry

import "math"

// Mat3 is a 3x3 matrix stored row-major:
//
//	| m0  m1  m2 |
//	| m3  m4  m5 |
//	| m6  m7  m8 |
type Mat3 [9]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Diagonal returns a diagonal matrix with d on the main diagonal.
func Diagonal(d Vec3) Mat3 {
	return Mat3{d.X, 0, 0, 0, d.Y, 0, 0, 0, d.Z}
}

// RotationX returns a rotation about the X axis (angle in radians).
func RotationX(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotationY returns a rotation about the Y axis.
func RotationY(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotationZ returns a rotation about the Z axis.
func RotationZ(angle float64) Mat3 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// RotationZYX composes the euler triple (x, y, z) as Rz * Ry * Rx,
// the convention every transformation in the plate editor uses.
func RotationZYX(euler Vec3) Mat3 {
	return RotationZ(euler.Z).Mul(RotationY(euler.Y)).Mul(RotationX(euler.X))
}

// AxisAngleMatrix returns the rotation of angle radians about the given
// (unit) axis, via the Rodrigues formula.
func AxisAngleMatrix(axis Vec3, angle float64) Mat3 {
	u := axis.Normalized()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	return Mat3{
		c + u.X*u.X*t, u.X*u.Y*t - u.Z*s, u.X*u.Z*t + u.Y*s,
		u.Y*u.X*t + u.Z*s, c + u.Y*u.Y*t, u.Y*u.Z*t - u.X*s,
		u.Z*u.X*t - u.Y*s, u.Z*u.Y*t + u.X*s, c + u.Z*u.Z*t,
	}
}

// Mul multiplies this matrix by another: result = m * other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[3*i+j] = m[3*i]*other[j] + m[3*i+1]*other[3+j] + m[3*i+2]*other[6+j]
		}
	}
	return r
}

// MulVec applies the matrix to a vector.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Col returns the i-th column.
func (m Mat3) Col(i int) Vec3 {
	return Vec3{m[i], m[3+i], m[6+i]}
}

func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse of the matrix, or the identity if singular.
func (m Mat3) Inverse() Mat3 {
	det := m.Determinant()
	if det == 0 {
		return Identity3()
	}
	inv := 1 / det
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,
		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,
		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}
}

// Trace returns the sum of the diagonal.
func (m Mat3) Trace() float64 {
	return m[0] + m[4] + m[8]
}

// IsApprox reports whether the two matrices differ by less than eps in
// every entry.
func (m Mat3) IsApprox(other Mat3, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) >= eps {
			return false
		}
	}
	return true
}
