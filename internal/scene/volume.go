// Package scene holds the flat render arena the plate editor works on: one
// entry per (volume, instance) pair of the document, plus auxiliary volumes
// such as the wipe tower.
package scene

import (
	"github.com/printdeck/printdeck/internal/geometry"
)

const (
	// MaxObjectIndex caps the number of document objects the arena indexing
	// scheme supports.
	MaxObjectIndex = 1000
	// WipeTowerObjectIndex is the synthetic object index auxiliary volumes
	// report; it sits just past the valid document range.
	WipeTowerObjectIndex = MaxObjectIndex
)

// GeometryID ties an arena volume back to the document entities it was
// built from. Auxiliary volumes carry empty ids.
type GeometryID struct {
	VolumeID   string `json:"volumeId"`
	InstanceID string `json:"instanceId"`
}

// Volume is one arena entry. Indices address the document; a negative
// VolumeIdx marks an auxiliary volume that has no document counterpart.
type Volume struct {
	ObjectIdx   int
	InstanceIdx int
	VolumeIdx   int

	ID   GeometryID
	Name string

	Selected  bool
	Disabled  bool
	Modifier  bool
	WipeTower bool

	// ShiftZ lifts the whole instance in world space (SLA elevation).
	ShiftZ float64

	VolumeTrans   geometry.Transformation
	InstanceTrans geometry.Transformation

	// Bounds is the mesh box in the volume's own frame.
	Bounds geometry.Box3
}

// IsAux reports whether the volume is auxiliary (wipe tower etc.).
func (v *Volume) IsAux() bool {
	return v.VolumeIdx < 0
}

// WorldMatrix composes the full placement of the volume:
// shift * instance * volume.
func (v *Volume) WorldMatrix() geometry.Transform3 {
	m := v.InstanceTrans.Matrix().Mul(v.VolumeTrans.Matrix())
	m.Shift.Z += v.ShiftZ
	return m
}

// TransformedBoundingBox returns the world box of the volume.
func (v *Volume) TransformedBoundingBox() geometry.Box3 {
	return v.Bounds.Transformed(v.WorldMatrix())
}

// BoundsWithInstanceMatrix returns the volume box placed by an explicit
// instance matrix instead of the cached one. The selection uses this for
// its unscaled-instance box variants.
func (v *Volume) BoundsWithInstanceMatrix(inst geometry.Transform3) geometry.Box3 {
	m := inst.Mul(v.VolumeTrans.Matrix())
	m.Shift.Z += v.ShiftZ
	return v.Bounds.Transformed(m)
}

// VolumeList is the arena. Order is stable for the lifetime of a scene
// build; selections address volumes by position in this slice.
type VolumeList struct {
	Volumes []*Volume
}

// Len returns the number of arena entries.
func (l *VolumeList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Volumes)
}

// At returns the arena entry at i, or nil when out of range.
func (l *VolumeList) At(i int) *Volume {
	if l == nil || i < 0 || i >= len(l.Volumes) {
		return nil
	}
	return l.Volumes[i]
}
