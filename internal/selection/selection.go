// Package selection is the plate editor's selection and transform core: an
// ordered set of arena volume indices, a derived classification of what the
// set represents, drag transform application with correct pivot and frame
// semantics, and propagation to unselected siblings that must move in
// lockstep.
package selection

import (
	"sort"

	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/scene"
)

// Mode is the granularity further add/remove/transform operations work at.
type Mode int

const (
	ModeVolume Mode = iota
	ModeInstance
)

// Type classifies what the current selection represents. Recomputed from
// scratch on every structural change.
type Type int

const (
	TypeInvalid Type = iota
	TypeEmpty
	TypeWipeTower
	TypeSingleModifier
	TypeMultipleModifier
	TypeSingleVolume
	TypeMultipleVolume
	TypeSingleFullObject
	TypeMultipleFullObject
	TypeSingleFullInstance
	TypeMultipleFullInstance
	TypeMixed
)

func (t Type) String() string {
	switch t {
	case TypeInvalid:
		return "Invalid"
	case TypeEmpty:
		return "Empty"
	case TypeWipeTower:
		return "WipeTower"
	case TypeSingleModifier:
		return "SingleModifier"
	case TypeMultipleModifier:
		return "MultipleModifier"
	case TypeSingleVolume:
		return "SingleVolume"
	case TypeMultipleVolume:
		return "MultipleVolume"
	case TypeSingleFullObject:
		return "SingleFullObject"
	case TypeMultipleFullObject:
		return "MultipleFullObject"
	case TypeSingleFullInstance:
		return "SingleFullInstance"
	case TypeMultipleFullInstance:
		return "MultipleFullInstance"
	default:
		return "Mixed"
	}
}

// Selection borrows the arena and the document from the host session; it
// never outlives them and every operation is a no-op until both are bound.
type Selection struct {
	volumes *scene.VolumeList
	model   *document.Model
	valid   bool

	mode Mode
	typ  Type

	list    map[int]struct{}
	content map[int]map[int]struct{}

	cache          map[int]volumeCache
	draggingCenter geometry.Vec3

	clipboard Clipboard

	box         boxCache
	unscaledBox boxCache
	scaledBox   boxCache

	snapshots SnapshotTaker
	objects   ObjectList
	panel     ManipulationPanel
	bed       Bed

	// While > 0, takeSnapshot calls are swallowed; used when an operation
	// delegates to another one that would record a duplicate checkpoint.
	suppressSnapshots int
}

// New returns an unbound selection wired to the given collaborators; any of
// them may be nil, in which case the corresponding outward call is skipped.
func New(snapshots SnapshotTaker, objects ObjectList, panel ManipulationPanel, bed Bed) *Selection {
	s := &Selection{
		mode:      ModeInstance,
		typ:       TypeEmpty,
		list:      map[int]struct{}{},
		content:   map[int]map[int]struct{}{},
		cache:     map[int]volumeCache{},
		snapshots: snapshots,
		objects:   objects,
		panel:     panel,
		bed:       bed,
	}
	s.setBoundingBoxesDirty()
	return s
}

// SetVolumes binds (or unbinds, with nil) the arena.
func (s *Selection) SetVolumes(volumes *scene.VolumeList) {
	s.volumes = volumes
	s.updateValid()
}

// SetModel binds (or unbinds, with nil) the document.
func (s *Selection) SetModel(model *document.Model) {
	s.model = model
	s.updateValid()
}

func (s *Selection) updateValid() {
	s.valid = s.volumes != nil && s.model != nil
}

// Mode returns the current granularity.
func (s *Selection) Mode() Mode { return s.mode }

// Type returns the cached classification.
func (s *Selection) Type() Type { return s.typ }

// Indices returns the selected arena indices in ascending order.
func (s *Selection) Indices() []int { return s.sorted() }

// Volume returns the selected arena entry at the given index, or nil.
func (s *Selection) Volume(volumeIdx int) *scene.Volume {
	if !s.valid {
		return nil
	}
	return s.volumes.At(volumeIdx)
}

// Clipboard exposes the owned clipboard.
func (s *Selection) Clipboard() *Clipboard { return &s.clipboard }

func (s *Selection) sorted() []int {
	out := make([]int, 0, len(s.list))
	for i := range s.list {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s *Selection) takeSnapshot(label string) {
	if s.snapshots != nil && s.suppressSnapshots == 0 {
		s.snapshots.TakeSnapshot(label)
	}
}

// Add puts the volume at volumeIdx into the selection. asSingle replaces
// the current selection instead of extending it; checkContained makes an
// add of an already selected volume a mode-preserving no-op.
func (s *Selection) Add(volumeIdx int, asSingle, checkContained bool) {
	if !s.valid || volumeIdx < 0 || volumeIdx >= s.volumes.Len() {
		return
	}

	volume := s.volumes.At(volumeIdx)
	// wipe tower is already selected
	if s.IsWipeTower() && volume.WipeTower {
		return
	}

	keepInstanceMode := s.mode == ModeInstance && !asSingle
	alreadyContained := checkContained && s.ContainsVolume(volumeIdx)

	// resets the current list if needed
	needsReset := asSingle && !alreadyContained
	needsReset = needsReset || volume.WipeTower
	needsReset = needsReset || (s.IsWipeTower() && !volume.WipeTower)
	needsReset = needsReset || (asSingle && !s.IsAnyModifier() && volume.Modifier)
	needsReset = needsReset || (s.IsAnyModifier() && !volume.Modifier)

	if alreadyContained && !needsReset {
		// keep current mode
		return
	}

	s.takeSnapshot("Selection-Add")

	if needsReset {
		s.Clear()
	}
	if !keepInstanceMode {
		if volume.Modifier {
			s.mode = ModeVolume
		} else {
			s.mode = ModeInstance
		}
	}

	switch s.mode {
	case ModeVolume:
		if volume.VolumeIdx >= 0 && (s.IsEmpty() || volume.InstanceIdx == s.InstanceIdx()) {
			s.doAddVolume(volumeIdx)
		}
	case ModeInstance:
		s.suppressSnapshots++
		s.AddInstance(volume.ObjectIdx, volume.InstanceIdx, asSingle)
		s.suppressSnapshots--
	}

	s.updateType()
	s.setBoundingBoxesDirty()
}

// Remove takes the volume at volumeIdx out of the selection; in Instance
// mode its whole instance goes with it.
func (s *Selection) Remove(volumeIdx int) {
	if !s.valid || volumeIdx < 0 || volumeIdx >= s.volumes.Len() {
		return
	}
	if !s.ContainsVolume(volumeIdx) {
		return
	}

	s.takeSnapshot("Selection-Remove")

	volume := s.volumes.At(volumeIdx)
	switch s.mode {
	case ModeVolume:
		s.doRemoveVolume(volumeIdx)
	case ModeInstance:
		s.doRemoveInstance(volume.ObjectIdx, volume.InstanceIdx)
	}

	s.updateType()
	s.setBoundingBoxesDirty()
}

// AddObject selects every arena volume of the object.
func (s *Selection) AddObject(objectIdx int, asSingle bool) {
	if !s.valid {
		return
	}

	volumeIdxs := s.volumeIdxsFromObject(objectIdx)
	if (!asSingle && s.ContainsAllVolumes(volumeIdxs)) ||
		(asSingle && s.matches(volumeIdxs)) {
		return
	}

	s.takeSnapshot("Selection-Add Object")

	if asSingle {
		s.Clear()
	}
	s.mode = ModeInstance
	s.doAddVolumes(volumeIdxs)

	s.updateType()
	s.setBoundingBoxesDirty()
}

// RemoveObject deselects every arena volume of the object.
func (s *Selection) RemoveObject(objectIdx int) {
	if !s.valid {
		return
	}

	s.takeSnapshot("Selection-Remove Object")
	s.doRemoveObject(objectIdx)

	s.updateType()
	s.setBoundingBoxesDirty()
}

// AddInstance selects every arena volume of one instance.
func (s *Selection) AddInstance(objectIdx, instanceIdx int, asSingle bool) {
	if !s.valid {
		return
	}

	volumeIdxs := s.volumeIdxsFromInstance(objectIdx, instanceIdx)
	if (!asSingle && s.ContainsAllVolumes(volumeIdxs)) ||
		(asSingle && s.matches(volumeIdxs)) {
		return
	}

	s.takeSnapshot("Selection-Add Instance")

	if asSingle {
		s.Clear()
	}
	s.mode = ModeInstance
	s.doAddVolumes(volumeIdxs)

	s.updateType()
	s.setBoundingBoxesDirty()
}

// RemoveInstance deselects every arena volume of one instance.
func (s *Selection) RemoveInstance(objectIdx, instanceIdx int) {
	if !s.valid {
		return
	}

	s.takeSnapshot("Selection-Remove Instance")
	s.doRemoveInstance(objectIdx, instanceIdx)

	s.updateType()
	s.setBoundingBoxesDirty()
}

// AddVolume selects one document volume, either in a single instance or,
// with instanceIdx < 0, across all instances of the object.
func (s *Selection) AddVolume(objectIdx, volumeIdx, instanceIdx int, asSingle bool) {
	if !s.valid {
		return
	}

	volumeIdxs := s.volumeIdxsFromVolume(objectIdx, volumeIdx, instanceIdx)
	if (!asSingle && s.ContainsAllVolumes(volumeIdxs)) ||
		(asSingle && s.matches(volumeIdxs)) {
		return
	}

	s.takeSnapshot("Selection-Add Volume")

	if asSingle {
		s.Clear()
	}
	s.mode = ModeVolume
	s.doAddVolumes(volumeIdxs)

	s.updateType()
	s.setBoundingBoxesDirty()
}

// RemoveVolume deselects the document volume across all instances.
func (s *Selection) RemoveVolume(objectIdx, volumeIdx int) {
	if !s.valid {
		return
	}

	s.takeSnapshot("Selection-Remove Volume")
	for i := 0; i < s.volumes.Len(); i++ {
		v := s.volumes.At(i)
		if v.ObjectIdx == objectIdx && v.VolumeIdx == volumeIdx {
			s.doRemoveVolume(i)
		}
	}

	s.updateType()
	s.setBoundingBoxesDirty()
}

// AddVolumes selects an explicit set of arena indices at the given
// granularity.
func (s *Selection) AddVolumes(mode Mode, volumeIdxs []int, asSingle bool) {
	if !s.valid {
		return
	}

	if (!asSingle && s.ContainsAllVolumes(volumeIdxs)) ||
		(asSingle && s.matches(volumeIdxs)) {
		return
	}

	s.takeSnapshot("Selection-Add Volumes")

	if asSingle {
		s.Clear()
	}
	s.mode = mode
	s.doAddVolumes(volumeIdxs)

	s.updateType()
	s.setBoundingBoxesDirty()
}

// RemoveVolumes deselects an explicit set of arena indices at the given
// granularity.
func (s *Selection) RemoveVolumes(mode Mode, volumeIdxs []int) {
	if !s.valid {
		return
	}

	s.takeSnapshot("Selection-Remove Volumes")

	s.mode = mode
	for _, i := range volumeIdxs {
		if i >= 0 && i < s.volumes.Len() {
			s.doRemoveVolume(i)
		}
	}

	s.updateType()
	s.setBoundingBoxesDirty()
}

// AddAll selects every arena volume except the wipe tower.
func (s *Selection) AddAll() {
	if !s.valid {
		return
	}

	count := 0
	for i := 0; i < s.volumes.Len(); i++ {
		if !s.volumes.At(i).WipeTower {
			count++
		}
	}
	if len(s.list) == count {
		return
	}

	s.takeSnapshot("Selection-Add All")

	s.mode = ModeInstance
	s.Clear()
	for i := 0; i < s.volumes.Len(); i++ {
		if !s.volumes.At(i).WipeTower {
			s.doAddVolume(i)
		}
	}

	s.updateType()
	s.setBoundingBoxesDirty()
}

// RemoveAll empties the selection through a recorded checkpoint; Clear does
// the same without one.
func (s *Selection) RemoveAll() {
	if !s.valid || s.IsEmpty() {
		return
	}

	s.takeSnapshot("Selection-Remove All")

	s.mode = ModeInstance
	s.Clear()
}

// Clear empties the selection without recording a checkpoint.
func (s *Selection) Clear() {
	if !s.valid || len(s.list) == 0 {
		return
	}

	for i := range s.list {
		s.volumes.At(i).Selected = false
	}
	s.list = map[int]struct{}{}

	s.updateType()
	s.setBoundingBoxesDirty()

	if s.panel != nil {
		s.panel.ResetCache()
	}
}

// SetDeserialized restores a selection persisted as (mode, sorted geometry
// id list); ids must be sorted by (VolumeID, InstanceID).
func (s *Selection) SetDeserialized(mode Mode, ids []scene.GeometryID) {
	if !s.valid {
		return
	}

	s.mode = mode
	for i := range s.list {
		s.volumes.At(i).Selected = false
	}
	s.list = map[int]struct{}{}
	for i := 0; i < s.volumes.Len(); i++ {
		if containsGeometryID(ids, s.volumes.At(i).ID) {
			s.doAddVolume(i)
		}
	}

	s.updateType()
	s.setBoundingBoxesDirty()
}

// SelectedGeometry returns the persistable selection state: the geometry
// ids of the selected volumes sorted by (VolumeID, InstanceID).
func (s *Selection) SelectedGeometry() []scene.GeometryID {
	ids := make([]scene.GeometryID, 0, len(s.list))
	for i := range s.list {
		ids = append(ids, s.volumes.At(i).ID)
	}
	sort.Slice(ids, func(a, b int) bool { return lessGeometryID(ids[a], ids[b]) })
	return ids
}

// InstancesChanged rebuilds the selection after the arena was regenerated,
// matching instances by stable id; instanceIDs must be sorted. Only valid
// in Instance mode.
func (s *Selection) InstancesChanged(instanceIDs []string) error {
	if !s.valid {
		return nil
	}
	if s.mode != ModeInstance {
		return ErrWrongMode
	}

	s.list = map[int]struct{}{}
	for i := 0; i < s.volumes.Len(); i++ {
		id := s.volumes.At(i).ID.InstanceID
		pos := sort.SearchStrings(instanceIDs, id)
		if pos < len(instanceIDs) && instanceIDs[pos] == id {
			s.doAddVolume(i)
		}
	}

	s.updateType()
	s.setBoundingBoxesDirty()
	return nil
}

// VolumesChanged remaps the selection after the arena was regenerated;
// oldToNew[i] < 0 means the volume at old index i is gone. Only valid in
// Volume mode.
func (s *Selection) VolumesChanged(oldToNew []int) error {
	if !s.valid {
		return nil
	}
	if s.mode != ModeVolume {
		return ErrWrongMode
	}

	listNew := map[int]struct{}{}
	for idx := range s.list {
		if idx < len(oldToNew) && oldToNew[idx] >= 0 {
			newIdx := oldToNew[idx]
			if v := s.volumes.At(newIdx); v != nil {
				v.Selected = true
				listNew[newIdx] = struct{}{}
			}
		}
	}
	s.list = listNew

	s.updateType()
	s.setBoundingBoxesDirty()
	return nil
}

func (s *Selection) doAddVolume(volumeIdx int) {
	s.list[volumeIdx] = struct{}{}
	s.volumes.At(volumeIdx).Selected = true
}

func (s *Selection) doAddVolumes(volumeIdxs []int) {
	for _, i := range volumeIdxs {
		if i >= 0 && i < s.volumes.Len() {
			s.doAddVolume(i)
		}
	}
}

func (s *Selection) doRemoveVolume(volumeIdx int) {
	if _, ok := s.list[volumeIdx]; !ok {
		return
	}
	delete(s.list, volumeIdx)
	s.volumes.At(volumeIdx).Selected = false
}

func (s *Selection) doRemoveInstance(objectIdx, instanceIdx int) {
	for i := 0; i < s.volumes.Len(); i++ {
		v := s.volumes.At(i)
		if v.ObjectIdx == objectIdx && v.InstanceIdx == instanceIdx {
			s.doRemoveVolume(i)
		}
	}
}

func (s *Selection) doRemoveObject(objectIdx int) {
	for i := 0; i < s.volumes.Len(); i++ {
		if s.volumes.At(i).ObjectIdx == objectIdx {
			s.doRemoveVolume(i)
		}
	}
}

func (s *Selection) volumeIdxsFromObject(objectIdx int) []int {
	var idxs []int
	for i := 0; i < s.volumes.Len(); i++ {
		if s.volumes.At(i).ObjectIdx == objectIdx {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (s *Selection) volumeIdxsFromInstance(objectIdx, instanceIdx int) []int {
	var idxs []int
	for i := 0; i < s.volumes.Len(); i++ {
		v := s.volumes.At(i)
		if v.ObjectIdx == objectIdx && v.InstanceIdx == instanceIdx {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (s *Selection) volumeIdxsFromVolume(objectIdx, volumeIdx, instanceIdx int) []int {
	var idxs []int
	for i := 0; i < s.volumes.Len(); i++ {
		v := s.volumes.At(i)
		if v.ObjectIdx == objectIdx && v.VolumeIdx == volumeIdx &&
			(instanceIdx < 0 || v.InstanceIdx == instanceIdx) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func lessGeometryID(a, b scene.GeometryID) bool {
	if a.VolumeID != b.VolumeID {
		return a.VolumeID < b.VolumeID
	}
	return a.InstanceID < b.InstanceID
}

func containsGeometryID(sorted []scene.GeometryID, id scene.GeometryID) bool {
	pos := sort.Search(len(sorted), func(i int) bool { return !lessGeometryID(sorted[i], id) })
	return pos < len(sorted) && sorted[pos] == id
}
