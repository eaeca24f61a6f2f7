package geometry

// Transform3 is an affine 3D transform: world = M*local + Shift.
type Transform3 struct {
	M     Mat3 `json:"m"`
	Shift Vec3 `json:"shift"`
}

// IdentityTransform returns the identity affine transform.
func IdentityTransform() Transform3 {
	return Transform3{M: Identity3()}
}

// Mul composes two affine transforms: result(v) = t(other(v)).
func (t Transform3) Mul(other Transform3) Transform3 {
	return Transform3{
		M:     t.M.Mul(other.M),
		Shift: t.M.MulVec(other.Shift).Add(t.Shift),
	}
}

// Apply transforms a point.
func (t Transform3) Apply(v Vec3) Vec3 {
	return t.M.MulVec(v).Add(t.Shift)
}

// Inverse returns the inverse affine transform. If the linear part is
// singular the identity is used in its place.
func (t Transform3) Inverse() Transform3 {
	inv := t.M.Inverse()
	return Transform3{M: inv, Shift: inv.MulVec(t.Shift).Neg()}
}

// Translated returns t with the shift moved by d.
func (t Transform3) Translated(d Vec3) Transform3 {
	return Transform3{M: t.M, Shift: t.Shift.Add(d)}
}

// Parts selects which components of a Transformation take part in a
// composed matrix.
type Parts int

const (
	WithTranslation Parts = 1 << iota
	WithRotation
	WithScale
	WithMirror
	AllParts = WithTranslation | WithRotation | WithScale | WithMirror
)

// Transformation holds the decomposed transform of an instance or a volume:
// translation, a Z*Y*X euler rotation, per-axis scale and per-axis mirror
// (each mirror component is +1 or -1).
type Transformation struct {
	Offset   Vec3 `json:"offset"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
	Mirror   Vec3 `json:"mirror"`
}

// NewTransformation returns the identity transformation.
func NewTransformation() Transformation {
	return Transformation{Scale: Ones(), Mirror: Ones()}
}

// RotationMatrix returns the rotation component as a matrix.
func (t Transformation) RotationMatrix() Mat3 {
	return RotationZYX(t.Rotation)
}

// ScaleMatrix returns the scale component as a diagonal matrix.
func (t Transformation) ScaleMatrix() Mat3 {
	return Diagonal(t.Scale)
}

// MirrorMatrix returns the mirror component as a diagonal matrix.
func (t Transformation) MirrorMatrix() Mat3 {
	return Diagonal(t.Mirror)
}

// PartialMatrix composes the selected parts in the fixed order
// translation * rotation * scale * mirror.
func (t Transformation) PartialMatrix(parts Parts) Transform3 {
	m := Identity3()
	if parts&WithRotation != 0 {
		m = m.Mul(t.RotationMatrix())
	}
	if parts&WithScale != 0 {
		m = m.Mul(t.ScaleMatrix())
	}
	if parts&WithMirror != 0 {
		m = m.Mul(t.MirrorMatrix())
	}
	out := Transform3{M: m}
	if parts&WithTranslation != 0 {
		out.Shift = t.Offset
	}
	return out
}

// Matrix composes all parts.
func (t Transformation) Matrix() Transform3 {
	return t.PartialMatrix(AllParts)
}
