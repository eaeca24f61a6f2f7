package selection

import "errors"

var (
	// ErrWrongMode reports a rebuild call issued at the wrong granularity
	// (InstancesChanged outside Instance mode, VolumesChanged outside
	// Volume mode).
	ErrWrongMode = errors.New("selection: operation not allowed in current mode")

	// ErrAbsoluteWorldRotation reports a rotation that combines the world
	// frame with absolute values; only relative rotations are meaningful in
	// world coordinates.
	ErrAbsoluteWorldRotation = errors.New("selection: only relative rotations allowed in world coordinates")

	// ErrNonNinetyWorldScale reports a non-uniform world-frame scale on an
	// instance whose rotation is not a multiple of ninety degrees; the
	// world factors cannot be expressed as a local diagonal scale then.
	ErrNonNinetyWorldScale = errors.New("selection: non-uniform world scale requires rotations multiple of ninety degrees")
)
