package selection

import (
	"sort"

	"github.com/printdeck/printdeck/internal/scene"
)

func (s *Selection) IsEmpty() bool            { return len(s.list) == 0 }
func (s *Selection) IsWipeTower() bool        { return s.typ == TypeWipeTower }
func (s *Selection) IsSingleModifier() bool   { return s.typ == TypeSingleModifier }
func (s *Selection) IsMultipleModifier() bool { return s.typ == TypeMultipleModifier }
func (s *Selection) IsSingleVolume() bool     { return s.typ == TypeSingleVolume }
func (s *Selection) IsMultipleVolume() bool   { return s.typ == TypeMultipleVolume }
func (s *Selection) IsSingleFullObject() bool { return s.typ == TypeSingleFullObject }
func (s *Selection) IsMixed() bool            { return s.typ == TypeMixed }

func (s *Selection) IsAnyModifier() bool {
	return s.IsSingleModifier() || s.IsMultipleModifier()
}

func (s *Selection) IsMultipleFullObject() bool {
	return s.typ == TypeMultipleFullObject
}

func (s *Selection) IsMultipleFullInstance() bool {
	return s.typ == TypeMultipleFullInstance
}

// IsSingleFullInstance also recognizes compositions the classifier labeled
// differently: a SingleFullObject narrowed to one instance, or any set that
// happens to cover every document volume of exactly one instance.
func (s *Selection) IsSingleFullInstance() bool {
	if s.typ == TypeSingleFullInstance {
		return true
	}
	if s.typ == TypeSingleFullObject {
		return s.InstanceIdx() != -1
	}
	if len(s.list) == 0 || s.volumes.Len() == 0 {
		return false
	}

	objectIdx := -1
	if s.valid {
		objectIdx = s.ObjectIdx()
	}
	if objectIdx < 0 || objectIdx >= len(s.model.Objects) {
		return false
	}

	sorted := s.sorted()
	instanceIdx := s.volumes.At(sorted[0]).InstanceIdx
	volumeIdxs := map[int]struct{}{}
	for _, i := range sorted {
		v := s.volumes.At(i)
		if v.ObjectIdx != objectIdx || v.InstanceIdx != instanceIdx {
			return false
		}
		if v.VolumeIdx >= 0 {
			volumeIdxs[v.VolumeIdx] = struct{}{}
		}
	}
	return len(s.model.Objects[objectIdx].Volumes) == len(volumeIdxs)
}

// IsFromSingleObject reports whether the whole selection sits in one real
// document object (auxiliary object indices excluded).
func (s *Selection) IsFromSingleObject() bool {
	idx := s.ObjectIdx()
	return idx >= 0 && idx < scene.MaxObjectIndex
}

// IsFromSingleInstance reports whether the whole selection sits in one
// instance.
func (s *Selection) IsFromSingleInstance() bool {
	return s.InstanceIdx() != -1
}

// IsSLACompliant reports whether the selection could belong to an SLA
// print: instance granularity and no modifier volumes.
func (s *Selection) IsSLACompliant() bool {
	if s.mode == ModeVolume {
		return false
	}
	for i := range s.list {
		if s.volumes.At(i).Modifier {
			return false
		}
	}
	return true
}

// RequiresUniformScale reports whether the scale gizmo must lock its three
// factors together for the current selection.
func (s *Selection) RequiresUniformScale() bool {
	return !(s.IsSingleFullInstance() || s.IsSingleModifier() || s.IsSingleVolume())
}

// RequiresLocalAxes reports whether the gizmos must be drawn in the
// instance frame.
func (s *Selection) RequiresLocalAxes() bool {
	return s.mode == ModeVolume && s.IsFromSingleInstance()
}

// ContainsVolume reports membership of one arena index.
func (s *Selection) ContainsVolume(volumeIdx int) bool {
	_, ok := s.list[volumeIdx]
	return ok
}

// ContainsAllVolumes reports whether every given index is selected.
func (s *Selection) ContainsAllVolumes(volumeIdxs []int) bool {
	for _, i := range volumeIdxs {
		if !s.ContainsVolume(i) {
			return false
		}
	}
	return true
}

// ContainsAnyVolume reports whether at least one given index is selected.
func (s *Selection) ContainsAnyVolume(volumeIdxs []int) bool {
	for _, i := range volumeIdxs {
		if s.ContainsVolume(i) {
			return true
		}
	}
	return false
}

// matches reports set equality with the given indices.
func (s *Selection) matches(volumeIdxs []int) bool {
	count := 0
	for _, i := range volumeIdxs {
		if !s.ContainsVolume(i) {
			return false
		}
		count++
	}
	return count == len(s.list)
}

// MissingVolumesFrom returns the selected indices absent from the given
// set.
func (s *Selection) MissingVolumesFrom(volumeIdxs []int) []int {
	present := map[int]struct{}{}
	for _, i := range volumeIdxs {
		present[i] = struct{}{}
	}
	var out []int
	for _, i := range s.sorted() {
		if _, ok := present[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// UnselectedVolumesFrom returns the given indices that are not selected.
func (s *Selection) UnselectedVolumesFrom(volumeIdxs []int) []int {
	var out []int
	for _, i := range volumeIdxs {
		if !s.ContainsVolume(i) {
			out = append(out, i)
		}
	}
	return out
}

// ObjectIdx returns the single touched object index, or -1 when the
// selection spans several objects.
func (s *Selection) ObjectIdx() int {
	if len(s.content) == 1 {
		return s.singleContentObject()
	}
	return -1
}

// InstanceIdx returns the single touched instance index, or -1.
func (s *Selection) InstanceIdx() int {
	if len(s.content) == 1 {
		instances := s.content[s.singleContentObject()]
		if len(instances) == 1 {
			for idx := range instances {
				return idx
			}
		}
	}
	return -1
}

// InstanceIdxs returns the sorted instance indices of the single touched
// object, or nil when the selection spans several objects.
func (s *Selection) InstanceIdxs() []int {
	if len(s.content) != 1 {
		return nil
	}
	instances := s.content[s.singleContentObject()]
	out := make([]int, 0, len(instances))
	for idx := range instances {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
