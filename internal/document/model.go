package document

import (
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/typeid"
)

// Model is the persisted plate document: the list of printable objects with
// their part volumes and placed instances.
type Model struct {
	Objects []*Object `json:"objects"`
}

type Object struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	InputFile     string            `json:"inputFile"`
	Instances     []*Instance       `json:"instances"`
	Volumes       []*Volume         `json:"volumes"`
	LayerRanges   []LayerRange      `json:"layerRanges,omitempty"`
	SupportPoints []SupportPoint    `json:"supportPoints,omitempty"`
	Config        map[string]string `json:"config,omitempty"`
	Origin        geometry.Vec3     `json:"origin"`
}

type VolumeType string

const (
	VolumeTypeModel           VolumeType = "model"
	VolumeTypeNegative        VolumeType = "negative"
	VolumeTypeModifier        VolumeType = "modifier"
	VolumeTypeSupportBlocker  VolumeType = "supportBlocker"
	VolumeTypeSupportEnforcer VolumeType = "supportEnforcer"
)

// Volume is one mesh part of an object. Bounds is the axis-aligned box of
// the mesh in its own (untransformed) frame; the mesh geometry itself lives
// in asset storage under MeshID.
type Volume struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Type      VolumeType              `json:"type"`
	MeshID    string                  `json:"meshId"`
	Bounds    geometry.Box3           `json:"bounds"`
	Transform geometry.Transformation `json:"transform"`
	Config    map[string]string       `json:"config,omitempty"`
}

// Instance is one placement of an object on the plate.
type Instance struct {
	ID        string                  `json:"id"`
	Transform geometry.Transformation `json:"transform"`
	Printable bool                    `json:"printable"`
}

type LayerRange struct {
	MinZ   float64           `json:"minZ"`
	MaxZ   float64           `json:"maxZ"`
	Config map[string]string `json:"config,omitempty"`
}

type SupportPoint struct {
	Pos      geometry.Vec3 `json:"pos"`
	HeadSize float64       `json:"headSize"`
}

// IsModelPart reports whether the volume contributes printable material.
func (v *Volume) IsModelPart() bool {
	return v.Type == VolumeTypeModel
}

// IsModifier reports whether the volume only alters settings of the parts
// it overlaps instead of contributing geometry.
func (v *Volume) IsModifier() bool {
	return v.Type == VolumeTypeModifier
}

// NewModel returns an empty document.
func NewModel() *Model {
	return &Model{Objects: []*Object{}}
}

// AddObject appends a new empty object and returns it.
func (m *Model) AddObject(name string) *Object {
	obj := &Object{
		ID:        typeid.NewObjectID(),
		Name:      name,
		Instances: []*Instance{},
		Volumes:   []*Volume{},
	}
	m.Objects = append(m.Objects, obj)
	return obj
}

// DeleteObject removes the object at the given index. Out-of-range indices
// are ignored.
func (m *Model) DeleteObject(idx int) {
	if idx < 0 || idx >= len(m.Objects) {
		return
	}
	m.Objects = append(m.Objects[:idx], m.Objects[idx+1:]...)
}

// AddInstance appends a new identity-placed instance and returns it.
func (o *Object) AddInstance() *Instance {
	inst := &Instance{
		ID:        typeid.NewInstanceID(),
		Transform: geometry.NewTransformation(),
		Printable: true,
	}
	o.Instances = append(o.Instances, inst)
	return inst
}

// DeleteInstance removes the instance at the given index. Out-of-range
// indices are ignored.
func (o *Object) DeleteInstance(idx int) {
	if idx < 0 || idx >= len(o.Instances) {
		return
	}
	o.Instances = append(o.Instances[:idx], o.Instances[idx+1:]...)
}

// AddVolume appends a volume built around the given mesh box.
func (o *Object) AddVolume(name string, typ VolumeType, meshID string, bounds geometry.Box3) *Volume {
	vol := &Volume{
		ID:        typeid.NewVolumeID(),
		Name:      name,
		Type:      typ,
		MeshID:    meshID,
		Bounds:    bounds,
		Transform: geometry.NewTransformation(),
	}
	o.Volumes = append(o.Volumes, vol)
	return vol
}

// DeleteVolume removes the volume at the given index. Out-of-range indices
// are ignored.
func (o *Object) DeleteVolume(idx int) {
	if idx < 0 || idx >= len(o.Volumes) {
		return
	}
	o.Volumes = append(o.Volumes[:idx], o.Volumes[idx+1:]...)
}

// RawBoundingBox merges the transformed boxes of the model-part volumes in
// the object frame, without any instance transform applied.
func (o *Object) RawBoundingBox() geometry.Box3 {
	var box geometry.Box3
	for _, vol := range o.Volumes {
		if !vol.IsModelPart() {
			continue
		}
		box = box.Merge(vol.Bounds.Transformed(vol.Transform.Matrix()))
	}
	return box
}

// InstanceBoundingBox returns the world box of one instance, modifiers
// excluded. An out-of-range index yields an undefined box.
func (o *Object) InstanceBoundingBox(instIdx int) geometry.Box3 {
	if instIdx < 0 || instIdx >= len(o.Instances) {
		return geometry.Box3{}
	}
	instMatrix := o.Instances[instIdx].Transform.Matrix()
	var box geometry.Box3
	for _, vol := range o.Volumes {
		if vol.IsModifier() {
			continue
		}
		box = box.Merge(vol.Bounds.Transformed(instMatrix.Mul(vol.Transform.Matrix())))
	}
	return box
}

// BoundingBox merges the world boxes of all instances of all objects.
func (m *Model) BoundingBox() geometry.Box3 {
	var box geometry.Box3
	for _, obj := range m.Objects {
		for i := range obj.Instances {
			box = box.Merge(obj.InstanceBoundingBox(i))
		}
	}
	return box
}

// Clone returns a deep copy of the volume under a fresh id.
func (v *Volume) Clone() *Volume {
	out := *v
	out.ID = typeid.NewVolumeID()
	out.Config = cloneConfig(v.Config)
	return &out
}

// Clone returns a deep copy of the instance under a fresh id.
func (i *Instance) Clone() *Instance {
	out := *i
	out.ID = typeid.NewInstanceID()
	return &out
}

// Clone returns a deep copy of the object with fresh ids throughout.
func (o *Object) Clone() *Object {
	out := &Object{
		ID:            typeid.NewObjectID(),
		Name:          o.Name,
		InputFile:     o.InputFile,
		Instances:     make([]*Instance, 0, len(o.Instances)),
		Volumes:       make([]*Volume, 0, len(o.Volumes)),
		LayerRanges:   append([]LayerRange(nil), o.LayerRanges...),
		SupportPoints: append([]SupportPoint(nil), o.SupportPoints...),
		Config:        cloneConfig(o.Config),
		Origin:        o.Origin,
	}
	for _, inst := range o.Instances {
		out.Instances = append(out.Instances, inst.Clone())
	}
	for _, vol := range o.Volumes {
		out.Volumes = append(out.Volumes, vol.Clone())
	}
	return out
}

func cloneConfig(cfg map[string]string) map[string]string {
	if cfg == nil {
		return nil
	}
	out := make(map[string]string, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}
