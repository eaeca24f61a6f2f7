package selection

import (
	"fmt"

	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/scene"
)

// syncRotationPolicy selects how a sibling instance's rotation follows the
// source after an Instance-mode transform.
type syncRotationPolicy int

const (
	// syncRotationNone keeps the sibling's rotation; used for translation,
	// scale and mirror, where X/Y are already synchronized.
	syncRotationNone syncRotationPolicy = iota
	// syncRotationFull forces the source rotation verbatim; used after
	// flattening.
	syncRotationFull
	// syncRotationGeneral applies the Z delta between the cached rotations,
	// preserving the sibling's own Z offset.
	syncRotationGeneral
)

// synchronizeUnselectedInstances propagates the just-applied instance scale
// and mirror (and rotation, per policy) to every unselected sibling
// instance of each touched object.
func (s *Selection) synchronizeUnselectedInstances(policy syncRotationPolicy) {
	done := map[int]struct{}{}
	for i := range s.list {
		done[i] = struct{}{}
	}

	for _, i := range s.sorted() {
		if len(done) == s.volumes.Len() {
			break
		}

		src := s.volumes.At(i)
		if src.ObjectIdx >= scene.MaxObjectIndex {
			continue
		}

		rotation := src.InstanceTrans.Rotation
		scaling := src.InstanceTrans.Scale
		mirror := src.InstanceTrans.Mirror

		for j := 0; j < s.volumes.Len(); j++ {
			if len(done) == s.volumes.Len() {
				break
			}
			if _, ok := done[j]; ok {
				continue
			}

			v := s.volumes.At(j)
			if v.ObjectIdx != src.ObjectIdx || v.InstanceIdx == src.InstanceIdx {
				continue
			}

			switch policy {
			case syncRotationNone:
				// Z-only change; the sibling keeps its own rotation.
			case syncRotationFull:
				v.InstanceTrans.Rotation = rotation
			case syncRotationGeneral:
				zDiff := geometry.RotationDiffZ(
					s.cached(i).Instance.Trans.Rotation,
					s.cached(j).Instance.Trans.Rotation)
				v.InstanceTrans.Rotation = geometry.V3(rotation.X, rotation.Y, rotation.Z+zDiff)
			}

			v.InstanceTrans.Scale = scaling
			v.InstanceTrans.Mirror = mirror

			done[j] = struct{}{}
		}
	}
}

// synchronizeUnselectedVolumes copies each selected volume's local
// transform verbatim to its unselected counterparts in the other instances
// of the same object.
func (s *Selection) synchronizeUnselectedVolumes() {
	for _, i := range s.sorted() {
		src := s.volumes.At(i)
		if src.ObjectIdx >= scene.MaxObjectIndex {
			continue
		}

		for j := 0; j < s.volumes.Len(); j++ {
			if j == i {
				continue
			}
			v := s.volumes.At(j)
			if v.ObjectIdx != src.ObjectIdx || v.VolumeIdx != src.VolumeIdx {
				continue
			}
			v.VolumeTrans = src.VolumeTrans
		}
	}
}

// VerifyConsistency checks the cross-instance rotation invariant over the
// whole arena: any two volumes of one object may differ only by a rotation
// about the world Z axis. Intended for tests and debug use.
func (s *Selection) VerifyConsistency() error {
	if !s.valid {
		return nil
	}

	firstByObject := map[int]int{}
	for i := 0; i < s.volumes.Len(); i++ {
		v := s.volumes.At(i)
		if v.ObjectIdx >= scene.MaxObjectIndex {
			continue
		}
		firstIdx, ok := firstByObject[v.ObjectIdx]
		if !ok {
			firstByObject[v.ObjectIdx] = i
			continue
		}
		first := s.volumes.At(firstIdx)
		if !geometry.IsRotationXYSynchronized(first.InstanceTrans.Rotation, v.InstanceTrans.Rotation) {
			return fmt.Errorf("selection: instance rotations of object %d desynchronized between volumes %d and %d",
				v.ObjectIdx, firstIdx, i)
		}
	}
	return nil
}
