package scene

import (
	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/geometry"
)

// Build flattens the document into a fresh arena. For every object the
// volumes are emitted in document order, each expanded over the object's
// instances, so all entries of one (object, volume) pair sit next to each
// other the way the renderer batches them.
func Build(m *document.Model) *VolumeList {
	list := &VolumeList{}
	for objIdx, obj := range m.Objects {
		for volIdx, vol := range obj.Volumes {
			for instIdx, inst := range obj.Instances {
				list.Volumes = append(list.Volumes, &Volume{
					ObjectIdx:   objIdx,
					InstanceIdx: instIdx,
					VolumeIdx:   volIdx,
					ID: GeometryID{
						VolumeID:   vol.ID,
						InstanceID: inst.ID,
					},
					Name:          vol.Name,
					Modifier:      vol.IsModifier(),
					VolumeTrans:   vol.Transform,
					InstanceTrans: inst.Transform,
					Bounds:        vol.Bounds,
				})
			}
		}
	}
	return list
}

// AddWipeTower appends the auxiliary wipe tower volume to the arena.
func (l *VolumeList) AddWipeTower(pos geometry.Vec3, rotationZ, width, depth, height float64) *Volume {
	trans := geometry.NewTransformation()
	trans.Offset = pos
	trans.Rotation = geometry.V3(0, 0, rotationZ)
	v := &Volume{
		ObjectIdx:     WipeTowerObjectIndex,
		InstanceIdx:   0,
		VolumeIdx:     -1,
		Name:          "Wipe tower",
		WipeTower:     true,
		VolumeTrans:   trans,
		InstanceTrans: geometry.NewTransformation(),
		Bounds:        geometry.NewBox3(geometry.Vec3{}, geometry.V3(width, depth, height)),
	}
	l.Volumes = append(l.Volumes, v)
	return v
}
