package document

import (
	"math"

	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/typeid"
)

// NewSampleModel returns the plate a new project starts with: a two-part
// cube with two instances plus a single-part cylinder stand-in. The meshes
// are placeholder boxes until the user uploads real geometry.
func NewSampleModel() *Model {
	m := NewModel()

	cube := m.AddObject("Cube")
	cube.InputFile = "cube.stl"
	cube.AddVolume("Cube body", VolumeTypeModel, typeid.NewMeshID(),
		geometry.NewBox3(geometry.V3(-10, -10, 0), geometry.V3(10, 10, 20)))
	top := cube.AddVolume("Cube cap", VolumeTypeModel, typeid.NewMeshID(),
		geometry.NewBox3(geometry.V3(-6, -6, 0), geometry.V3(6, 6, 5)))
	top.Transform.Offset = geometry.V3(0, 0, 20)

	first := cube.AddInstance()
	first.Transform.Offset = geometry.V3(40, 40, 0)
	second := cube.AddInstance()
	second.Transform.Offset = geometry.V3(100, 40, 0)
	second.Transform.Rotation = geometry.V3(0, 0, math.Pi/4)

	cyl := m.AddObject("Cylinder")
	cyl.InputFile = "cylinder.stl"
	cyl.AddVolume("Cylinder", VolumeTypeModel, typeid.NewMeshID(),
		geometry.NewBox3(geometry.V3(-8, -8, 0), geometry.V3(8, 8, 30)))
	inst := cyl.AddInstance()
	inst.Transform.Offset = geometry.V3(70, 110, 0)

	return m
}
