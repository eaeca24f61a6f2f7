package selection

import (
	"math"

	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/scene"
)

// cached returns the pre-drag baseline for one arena volume. When no
// gesture is in flight the current transforms stand in for the baseline.
func (s *Selection) cached(volumeIdx int) volumeCache {
	if c, ok := s.cache[volumeIdx]; ok {
		return c
	}
	v := s.volumes.At(volumeIdx)
	return volumeCache{
		Volume:   newTransformCache(v.VolumeTrans),
		Instance: newTransformCache(v.InstanceTrans),
	}
}

// instanceFrameInverse maps a world displacement into the local frame of
// the cached instance transform (rotation, scale and mirror undone).
func (c volumeCache) instanceFrameInverse() geometry.Mat3 {
	return c.Instance.RotationMatrix.
		Mul(c.Instance.ScaleMatrix).
		Mul(c.Instance.MirrorMatrix).
		Inverse()
}

// Translate moves the selection by displacement, starting from the cached
// pre-drag offsets. With local set the displacement is given in the item's
// local axes, otherwise in world axes. Partially selected instances
// degrade to per-volume translation for the rest of the gesture.
func (s *Selection) Translate(displacement geometry.Vec3, local bool) {
	if !s.valid {
		return
	}

	translationType := s.mode

	for _, i := range s.sorted() {
		v := s.volumes.At(i)
		c := s.cached(i)
		if s.mode == ModeVolume || v.WipeTower {
			if local {
				v.VolumeTrans.Offset = c.Volume.Trans.Offset.Add(displacement)
			} else {
				localDisplacement := c.instanceFrameInverse().MulVec(displacement)
				v.VolumeTrans.Offset = c.Volume.Trans.Offset.Add(localDisplacement)
			}
		} else if s.mode == ModeInstance {
			if s.isFromFullySelectedInstance(i) {
				v.InstanceTrans.Offset = c.Instance.Trans.Offset.Add(displacement)
			} else {
				localDisplacement := c.instanceFrameInverse().MulVec(displacement)
				v.VolumeTrans.Offset = c.Volume.Trans.Offset.Add(localDisplacement)
				translationType = ModeVolume
			}
		}
	}

	if translationType == ModeInstance {
		s.synchronizeUnselectedInstances(syncRotationNone)
	} else {
		s.synchronizeUnselectedVolumes()
	}

	s.setBoundingBoxesDirty()
}

// TranslateObject moves every instance of the object by displacement,
// selected and unselected volumes alike.
func (s *Selection) TranslateObject(objectIdx int, displacement geometry.Vec3) {
	if !s.valid {
		return
	}

	done := map[int]struct{}{}
	for i := range s.list {
		v := s.volumes.At(i)
		if v.ObjectIdx == objectIdx {
			v.InstanceTrans.Offset = v.InstanceTrans.Offset.Add(displacement)
		}
		done[i] = struct{}{}
	}

	for _, i := range s.sorted() {
		if s.volumes.At(i).ObjectIdx >= scene.MaxObjectIndex {
			continue
		}
		srcObject := s.volumes.At(i).ObjectIdx
		for j := 0; j < s.volumes.Len(); j++ {
			if _, ok := done[j]; ok {
				continue
			}
			v := s.volumes.At(j)
			if v.ObjectIdx != srcObject {
				continue
			}
			v.InstanceTrans.Offset = v.InstanceTrans.Offset.Add(displacement)
			done[j] = struct{}{}
		}
	}

	s.setBoundingBoxesDirty()
}

// TranslateInstance moves one instance of the object by displacement,
// selected and unselected volumes alike.
func (s *Selection) TranslateInstance(objectIdx, instanceIdx int, displacement geometry.Vec3) {
	if !s.valid {
		return
	}

	done := map[int]struct{}{}
	for i := range s.list {
		v := s.volumes.At(i)
		if v.ObjectIdx == objectIdx && v.InstanceIdx == instanceIdx {
			v.InstanceTrans.Offset = v.InstanceTrans.Offset.Add(displacement)
		}
		done[i] = struct{}{}
	}

	for _, i := range s.sorted() {
		if s.volumes.At(i).ObjectIdx >= scene.MaxObjectIndex {
			continue
		}
		srcObject := s.volumes.At(i).ObjectIdx
		for j := 0; j < s.volumes.Len(); j++ {
			if _, ok := done[j]; ok {
				continue
			}
			v := s.volumes.At(j)
			if v.ObjectIdx != srcObject || v.InstanceIdx != instanceIdx {
				continue
			}
			v.InstanceTrans.Offset = v.InstanceTrans.Offset.Add(displacement)
			done[j] = struct{}{}
		}
	}

	s.setBoundingBoxesDirty()
}

// Rotate applies an euler rotation to the selection. A zero rotation is a
// reset that restores the cached pre-drag rotations and offsets. Only one
// component is expected to change per gesture; the dominant axis decides
// between rigid Z pivoting and per-item local rotation.
func (s *Selection) Rotate(rotation geometry.Vec3, transformationType TransformationType) error {
	if !s.valid {
		return nil
	}

	// Only relative rotation values make sense in the world frame.
	if transformationType.World() && transformationType.Absolute() {
		return ErrAbsoluteWorldRotation
	}

	if s.IsWipeTower() {
		// The wipe tower is always alone in the selection; rotate it about
		// its bounding box center, not its local origin.
		v := s.volumes.At(s.sorted()[0])
		centerLocal := v.TransformedBoundingBox().Center().Sub(v.VolumeTrans.Offset)
		centerLocalNew := geometry.RotationZ(rotation.Z - v.VolumeTrans.Rotation.Z).MulVec(centerLocal)
		v.VolumeTrans.Rotation = rotation
		v.VolumeTrans.Offset = v.VolumeTrans.Offset.Add(centerLocal).Sub(centerLocalNew)

		s.setBoundingBoxesDirty()
		return nil
	}

	rotAxisMax := rotation.MaxAbsAxis()

	if rotation.IsZero() {
		// Gesture abandoned: restore the cached state verbatim.
		for _, i := range s.sorted() {
			v := s.volumes.At(i)
			c := s.cached(i)
			if s.mode == ModeInstance {
				v.InstanceTrans.Rotation = c.Instance.Trans.Rotation
				v.InstanceTrans.Offset = c.Instance.Trans.Offset
			} else {
				v.VolumeTrans.Rotation = c.Volume.Trans.Rotation
				v.VolumeTrans.Offset = c.Volume.Trans.Offset
			}
		}
	} else {
		// For a generic rotation the first volume of each object rotates
		// for real and the others only follow with their Z delta, keeping
		// X/Y synchronized across instances.
		objectInstanceFirst := map[int]int{}
		rotateInstance := func(v *scene.Volume, i int) {
			firstIdx, hasFirst := objectInstanceFirst[v.ObjectIdx]
			if rotAxisMax != geometry.Z && hasFirst {
				first := s.volumes.At(firstIdx)
				firstRotation := first.InstanceTrans.Rotation
				zDiff := geometry.RotationDiffZ(
					s.cached(firstIdx).Instance.Trans.Rotation,
					s.cached(i).Instance.Trans.Rotation)
				v.InstanceTrans.Rotation = geometry.V3(firstRotation.X, firstRotation.Y, firstRotation.Z+zDiff)
				return
			}

			c := s.cached(i)
			var newRotation geometry.Vec3
			switch {
			case transformationType.World():
				newRotation = geometry.ExtractEulerAngles(
					geometry.RotationZYX(rotation).Mul(c.Instance.RotationMatrix))
			case transformationType.Absolute():
				newRotation = rotation
			default:
				newRotation = rotation.Add(c.Instance.Trans.Rotation)
			}
			if rotAxisMax == geometry.Z && transformationType.Joint() {
				// Rigid rotation of the whole selection about the dragging
				// pivot; only allowed around the Z axis.
				zDiff := geometry.RotationDiffZ(c.Instance.Trans.Rotation, newRotation)
				v.InstanceTrans.Offset = s.draggingCenter.Add(
					geometry.RotationZ(zDiff).MulVec(c.Instance.Trans.Offset.Sub(s.draggingCenter)))
			}
			v.InstanceTrans.Rotation = newRotation
			objectInstanceFirst[v.ObjectIdx] = i
		}

		for _, i := range s.sorted() {
			v := s.volumes.At(i)
			if s.IsSingleFullInstance() {
				rotateInstance(v, i)
			} else if s.IsSingleVolume() || s.IsSingleModifier() {
				if transformationType.Independent() {
					v.VolumeTrans.Rotation = v.VolumeTrans.Rotation.Add(rotation)
				} else {
					c := s.cached(i)
					v.VolumeTrans.Rotation = geometry.ExtractEulerAngles(
						geometry.RotationZYX(rotation).Mul(c.Volume.RotationMatrix))
				}
			} else if s.mode == ModeInstance {
				rotateInstance(v, i)
			} else {
				c := s.cached(i)
				m := geometry.RotationZYX(rotation)
				newRotation := geometry.ExtractEulerAngles(m.Mul(c.Volume.RotationMatrix))
				if transformationType.Joint() {
					localPivot := c.Instance.FullMatrix.Inverse().Apply(s.draggingCenter)
					offset := m.MulVec(c.Volume.Trans.Offset.Sub(localPivot))
					v.VolumeTrans.Offset = localPivot.Add(offset)
				}
				v.VolumeTrans.Rotation = newRotation
			}
		}
	}

	if s.mode == ModeInstance {
		s.synchronizeUnselectedInstances(syncRotationGeneral)
	} else {
		s.synchronizeUnselectedVolumes()
	}

	s.setBoundingBoxesDirty()
	return nil
}

// FlatteningRotate replaces each selected instance's rotation with the
// minimal one that aligns the given object-space face normal with the
// world down axis ("place on face"). The selection is expected to sit in a
// single object.
func (s *Selection) FlatteningRotate(normal geometry.Vec3) {
	if !s.valid {
		return
	}

	normal = normal.Normalized()
	for _, i := range s.sorted() {
		c := s.cached(i).Instance
		// The normal lives in object space; scaling transforms normals by
		// the reciprocal factors.
		m := geometry.RotationZYX(c.Trans.Rotation).
			Mul(geometry.Diagonal(c.Trans.Scale.Recip())).
			Mul(geometry.Diagonal(c.Trans.Mirror))
		worldNormal := m.MulVec(normal).Normalized()
		extra := geometry.RotationFromTo(worldNormal, geometry.V3(0, 0, -1))
		s.volumes.At(i).InstanceTrans.Rotation = geometry.ExtractEulerAngles(extra.Mul(c.RotationMatrix))
	}

	// Z must follow as well, otherwise flattening one of several identical
	// instances leaves the others visibly twisted.
	if s.mode == ModeInstance {
		s.synchronizeUnselectedInstances(syncRotationFull)
	}

	s.setBoundingBoxesDirty()
}

// Scale applies per-axis scale factors to the selection and drops every
// touched instance back onto the bed.
func (s *Selection) Scale(scale geometry.Vec3, transformationType TransformationType) error {
	if !s.valid {
		return nil
	}

	nonUniform := math.Abs(scale.X-scale.Y) > geometry.Epsilon ||
		math.Abs(scale.X-scale.Z) > geometry.Epsilon

	if s.IsSingleFullInstance() && transformationType.Absolute() &&
		transformationType.World() && nonUniform {
		for i := range s.list {
			if !geometry.IsRotationNinetyDegrees(s.volumes.At(i).InstanceTrans.Rotation) {
				return ErrNonNinetyWorldScale
			}
		}
	}

	m := geometry.Diagonal(scale)
	for _, i := range s.sorted() {
		v := s.volumes.At(i)
		c := s.cached(i)
		if s.IsSingleFullInstance() {
			if transformationType.Relative() {
				v.InstanceTrans.Scale = composedScale(m, c.Instance.ScaleMatrix)
				if transformationType.Joint() {
					v.InstanceTrans.Offset = s.draggingCenter.Add(
						m.MulVec(c.Instance.Trans.Offset.Sub(s.draggingCenter)))
				}
			} else if transformationType.World() && nonUniform {
				// World factors permute into the local frame through the
				// (ninety degree) instance rotation.
				v.InstanceTrans.Scale = v.InstanceTrans.RotationMatrix().Transpose().MulVec(scale).Abs()
			} else {
				v.InstanceTrans.Scale = scale
			}
		} else if s.IsSingleVolume() || s.IsSingleModifier() {
			v.VolumeTrans.Scale = scale
		} else if s.mode == ModeInstance {
			v.InstanceTrans.Scale = composedScale(m, c.Instance.ScaleMatrix)
			if transformationType.Joint() {
				v.InstanceTrans.Offset = s.draggingCenter.Add(
					m.MulVec(c.Instance.Trans.Offset.Sub(s.draggingCenter)))
			}
		} else {
			v.VolumeTrans.Scale = composedScale(m, c.Volume.ScaleMatrix)
			if transformationType.Joint() {
				offset := m.MulVec(c.Volume.Trans.Offset.Add(c.Instance.Trans.Offset).Sub(s.draggingCenter))
				v.VolumeTrans.Offset = s.draggingCenter.Sub(c.Instance.Trans.Offset).Add(offset)
			}
		}
	}

	if s.mode == ModeInstance {
		s.synchronizeUnselectedInstances(syncRotationNone)
	} else {
		s.synchronizeUnselectedVolumes()
	}

	s.EnsureOnBed()
	s.setBoundingBoxesDirty()
	return nil
}

// composedScale extracts per-axis factors from the product of a new scale
// with a cached scale matrix via column norms; any shear the composition
// introduces is discarded since only the diagonal is representable.
func composedScale(m, cached geometry.Mat3) geometry.Vec3 {
	composed := m.Mul(cached)
	return geometry.V3(composed.Col(0).Norm(), composed.Col(1).Norm(), composed.Col(2).Norm())
}

// Mirror flips the mirror factor on the given axis, at instance granularity
// for a single full instance and at volume granularity in Volume mode.
func (s *Selection) Mirror(axis geometry.Axis) {
	if !s.valid {
		return
	}

	singleFullInstance := s.IsSingleFullInstance()
	for _, i := range s.sorted() {
		v := s.volumes.At(i)
		if singleFullInstance {
			v.InstanceTrans.Mirror.Set(axis, -v.InstanceTrans.Mirror.At(axis))
		} else if s.mode == ModeVolume {
			v.VolumeTrans.Mirror.Set(axis, -v.VolumeTrans.Mirror.At(axis))
		}
	}

	if s.mode == ModeInstance {
		s.synchronizeUnselectedInstances(syncRotationNone)
	} else {
		s.synchronizeUnselectedVolumes()
	}

	s.setBoundingBoxesDirty()
}

// ScaleToFitPrintVolume uniformly scales the selection to fit the bed's
// print volume and re-centers it there. A no-op for empty or Volume-mode
// selections and when the selection already fits exactly.
func (s *Selection) ScaleToFitPrintVolume() {
	if !s.valid || s.IsEmpty() || s.mode == ModeVolume || s.bed == nil {
		return
	}

	// A hundredth of a millimeter of slack on every side avoids false
	// out-of-volume hits from float rounding.
	boxSize := s.BoundingBox().Size().Add(geometry.V3(0.01, 0.01, 0.01))
	printVolume := s.bed.PrintVolume()
	printSize := printVolume.Size()

	var sx, sy, sz float64
	if boxSize.X != 0 {
		sx = printSize.X / boxSize.X
	}
	if boxSize.Y != 0 {
		sy = printSize.Y / boxSize.Y
	}
	if boxSize.Z != 0 {
		sz = printSize.Z / boxSize.Z
	}
	if sx == 0 || sy == 0 || sz == 0 {
		return
	}

	factor := math.Min(sx, math.Min(sy, sz))
	if factor == 1.0 {
		return
	}

	s.takeSnapshot("Scale To Fit")

	s.StartDragging()
	_ = s.Scale(geometry.V3(factor, factor, factor), TransformWorldRelativeJoint)

	s.StartDragging()
	s.Translate(printVolume.Center().Sub(s.BoundingBox().Center()), false)

	if s.panel != nil {
		s.panel.SetDirty()
	}
}

// EnsureOnBed drops every instance so the lowest point of its non-modifier,
// non-wipe-tower volumes sits exactly on the bed plane.
func (s *Selection) EnsureOnBed() {
	if !s.valid {
		return
	}

	type instanceKey struct{ objectIdx, instanceIdx int }
	minZ := map[instanceKey]float64{}

	for _, v := range s.volumes.Volumes {
		if v.WipeTower || v.Modifier {
			continue
		}
		box := v.TransformedBoundingBox()
		if !box.Defined {
			continue
		}
		key := instanceKey{v.ObjectIdx, v.InstanceIdx}
		if z, ok := minZ[key]; !ok || box.Min.Z < z {
			minZ[key] = box.Min.Z
		}
	}

	for _, v := range s.volumes.Volumes {
		if z, ok := minZ[instanceKey{v.ObjectIdx, v.InstanceIdx}]; ok {
			v.InstanceTrans.Offset.Z -= z
		}
	}
}

// isFromFullySelectedInstance reports whether every arena volume sharing
// the given volume's instance is selected. Auxiliary volumes always count
// as fully selected.
func (s *Selection) isFromFullySelectedInstance(volumeIdx int) bool {
	v := s.volumes.At(volumeIdx)
	if v.ObjectIdx >= scene.MaxObjectIndex {
		return true
	}
	for j := 0; j < s.volumes.Len(); j++ {
		o := s.volumes.At(j)
		if o.ObjectIdx == v.ObjectIdx && o.InstanceIdx == v.InstanceIdx && !s.ContainsVolume(j) {
			return false
		}
	}
	return true
}
