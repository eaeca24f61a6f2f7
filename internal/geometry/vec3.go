package geometry

import "math"

// Epsilon used for approximate comparisons of lengths and angles (mm / rad).
const Epsilon = 1e-4

// Axis selects a coordinate axis.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// Vec3 is a 3D vector of float64 components.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V3 is a shorthand constructor.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Ones returns (1, 1, 1).
func Ones() Vec3 {
	return Vec3{1, 1, 1}
}

// UnitZ returns the world up axis.
func UnitZ() Vec3 {
	return Vec3{0, 0, 1}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Scaled returns v multiplied by the scalar s.
func (v Vec3) Scaled(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z}
}

// Recip returns the component-wise reciprocal.
func (v Vec3) Recip() Vec3 {
	return Vec3{1 / v.X, 1 / v.Y, 1 / v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns a unit vector in the direction of v, or v unchanged
// when its length is degenerate.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n < 1e-12 {
		return v
	}
	return v.Scaled(1 / n)
}

func (v Vec3) Abs() Vec3 {
	return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
}

// At returns the component on the given axis.
func (v Vec3) At(a Axis) float64 {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	default:
		return v.Z
	}
}

// Set assigns the component on the given axis.
func (v *Vec3) Set(a Axis, val float64) {
	switch a {
	case X:
		v.X = val
	case Y:
		v.Y = val
	default:
		v.Z = val
	}
}

// MaxAbsAxis returns the axis carrying the largest absolute component,
// preferring the lower axis on ties.
func (v Vec3) MaxAbsAxis() Axis {
	a := v.Abs()
	axis := X
	best := a.X
	if a.Y > best {
		axis, best = Y, a.Y
	}
	if a.Z > best {
		axis = Z
	}
	return axis
}

// IsApprox reports whether v and o differ by less than eps on every axis.
func (v Vec3) IsApprox(o Vec3, eps float64) bool {
	d := v.Sub(o).Abs()
	return d.X < eps && d.Y < eps && d.Z < eps
}

// IsZero reports whether every component is approximately zero.
func (v Vec3) IsZero() bool {
	return v.IsApprox(Vec3{}, 1e-10)
}
