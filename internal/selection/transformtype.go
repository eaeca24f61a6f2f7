package selection

// TransformationType describes how a gesture value is to be applied:
// which frame (world/local), whether the value is absolute or a delta, and
// whether multi-item selections move as a rigid body about the dragging
// pivot (joint) or each item about its own origin (independent).
type TransformationType int

const (
	// TransformWorldAbsoluteIndependent is the zero value.
	TransformWorldAbsoluteIndependent TransformationType = 0

	transformLocal    TransformationType = 1 << 0
	transformRelative TransformationType = 1 << 1
	transformJoint    TransformationType = 1 << 2

	TransformWorldRelativeJoint       = transformRelative | transformJoint
	TransformWorldRelativeIndependent = transformRelative
	TransformLocalAbsoluteJoint       = transformLocal | transformJoint
	TransformLocalAbsoluteIndependent = transformLocal
	TransformLocalRelativeJoint       = transformLocal | transformRelative | transformJoint
	TransformLocalRelativeIndependent = transformLocal | transformRelative
)

func (t TransformationType) Local() bool       { return t&transformLocal != 0 }
func (t TransformationType) World() bool       { return !t.Local() }
func (t TransformationType) Relative() bool    { return t&transformRelative != 0 }
func (t TransformationType) Absolute() bool    { return !t.Relative() }
func (t TransformationType) Joint() bool       { return t&transformJoint != 0 }
func (t TransformationType) Independent() bool { return !t.Joint() }
