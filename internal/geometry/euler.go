package geometry

import "math"

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ExtractEulerAngles recovers the euler triple (x, y, z) from a pure
// rotation matrix composed as Rz * Ry * Rx. When the matrix is in a gimbal
// lock configuration the solution with z = 0 is returned.
func ExtractEulerAngles(m Mat3) Vec3 {
	// m[6] == -sin(y)
	if math.Abs(m[6]) < 1-1e-10 {
		y := -math.Asin(clamp(m[6], -1, 1))
		cy := math.Cos(y)
		x := math.Atan2(m[7]/cy, m[8]/cy)
		z := math.Atan2(m[3]/cy, m[0]/cy)
		return Vec3{x, y, z}
	}
	if m[6] <= -1+1e-10 {
		return Vec3{math.Atan2(m[1], m[2]), math.Pi / 2, 0}
	}
	return Vec3{math.Atan2(-m[1], -m[2]), -math.Pi / 2, 0}
}

// AxisAngle decomposes a rotation matrix into a unit axis and an angle in
// [0, pi]. A zero angle yields the Z axis.
func (m Mat3) AxisAngle() (Vec3, float64) {
	angle := math.Acos(clamp((m.Trace()-1)/2, -1, 1))
	if angle < 1e-10 {
		return UnitZ(), 0
	}
	if math.Pi-angle < 1e-6 {
		// Half-turn: the skew part vanishes, read the axis off the diagonal.
		axis := Vec3{
			math.Sqrt(math.Max(0, (m[0]+1)/2)),
			math.Sqrt(math.Max(0, (m[4]+1)/2)),
			math.Sqrt(math.Max(0, (m[8]+1)/2)),
		}
		if m[1] < 0 {
			axis.Y = -axis.Y
		}
		if m[2] < 0 {
			axis.Z = -axis.Z
		}
		return axis.Normalized(), angle
	}
	s := 2 * math.Sin(angle)
	axis := Vec3{
		(m[7] - m[5]) / s,
		(m[2] - m[6]) / s,
		(m[3] - m[1]) / s,
	}
	return axis.Normalized(), angle
}

// RotationXYZDiff returns the rotation matrix taking the orientation given
// by the euler triple from to the orientation given by to.
func RotationXYZDiff(from, to Vec3) Mat3 {
	return RotationZYX(to).Mul(RotationZYX(from).Transpose())
}

// RotationDiffZ returns the signed Z angle of the rotation taking the
// orientation from to the orientation to. The two orientations are assumed
// to differ by a rotation about the world Z axis only.
func RotationDiffZ(from, to Vec3) float64 {
	axis, angle := RotationXYZDiff(from, to).AxisAngle()
	if angle == 0 {
		return 0
	}
	if axis.Z < 0 {
		return -angle
	}
	return angle
}

// IsRotationXYSynchronized reports whether two euler orientations differ
// only by a rotation about the world Z axis.
func IsRotationXYSynchronized(from, to Vec3) bool {
	axis, angle := RotationXYZDiff(from, to).AxisAngle()
	if math.Abs(angle) < 1e-8 {
		return true
	}
	return math.Abs(axis.X) < 1e-8 && math.Abs(axis.Y) < 1e-8 && math.Abs(math.Abs(axis.Z)-1) < 1e-8
}

func isNinety(a float64) bool {
	a = math.Mod(math.Abs(a), math.Pi/2)
	return a < Epsilon || a > math.Pi/2-Epsilon
}

// IsRotationNinetyDegrees reports whether every component of the euler
// triple is an integer multiple of ninety degrees.
func IsRotationNinetyDegrees(rotation Vec3) bool {
	return isNinety(rotation.X) && isNinety(rotation.Y) && isNinety(rotation.Z)
}

// RotationFromTo returns the minimal rotation taking the unit vector a onto
// the unit vector b.
func RotationFromTo(a, b Vec3) Mat3 {
	a = a.Normalized()
	b = b.Normalized()
	axis := a.Cross(b)
	s := axis.Norm()
	c := a.Dot(b)
	if s < 1e-10 {
		if c > 0 {
			return Identity3()
		}
		// Antiparallel: rotate half a turn about any axis orthogonal to a.
		perp := a.Cross(V3(1, 0, 0))
		if perp.Norm() < 1e-6 {
			perp = a.Cross(V3(0, 1, 0))
		}
		return AxisAngleMatrix(perp, math.Pi)
	}
	return AxisAngleMatrix(axis, math.Atan2(s, c))
}
