package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/geometry"
)

func TestStructuralEdits(t *testing.T) {
	m := NewModel()
	obj := m.AddObject("Part")
	obj.AddVolume("body", VolumeTypeModel, "mesh_x", geometry.NewBox3(geometry.Vec3{}, geometry.Ones()))
	obj.AddInstance()
	obj.AddInstance()

	obj.DeleteInstance(0)
	assert.Len(t, obj.Instances, 1)
	obj.DeleteInstance(5)
	assert.Len(t, obj.Instances, 1)

	obj.DeleteVolume(-1)
	assert.Len(t, obj.Volumes, 1)

	m.DeleteObject(0)
	assert.Empty(t, m.Objects)
	m.DeleteObject(0)
}

func TestCloneGetsFreshIDs(t *testing.T) {
	m := NewSampleModel()
	src := m.Objects[0]
	dup := src.Clone()

	assert.NotEqual(t, src.ID, dup.ID)
	require.Len(t, dup.Volumes, len(src.Volumes))
	require.Len(t, dup.Instances, len(src.Instances))
	for i := range src.Volumes {
		assert.NotEqual(t, src.Volumes[i].ID, dup.Volumes[i].ID)
		assert.Equal(t, src.Volumes[i].MeshID, dup.Volumes[i].MeshID)
		assert.Equal(t, src.Volumes[i].Transform, dup.Volumes[i].Transform)
	}
	for i := range src.Instances {
		assert.NotEqual(t, src.Instances[i].ID, dup.Instances[i].ID)
	}

	// Mutating the copy must not leak into the source.
	dup.Volumes[0].Transform.Offset = geometry.V3(99, 0, 0)
	assert.NotEqual(t, src.Volumes[0].Transform.Offset, dup.Volumes[0].Transform.Offset)
}

func TestInstanceBoundingBox(t *testing.T) {
	m := NewModel()
	obj := m.AddObject("Part")
	obj.AddVolume("body", VolumeTypeModel, "mesh_a",
		geometry.NewBox3(geometry.V3(-1, -1, 0), geometry.V3(1, 1, 2)))
	mod := obj.AddVolume("blocker", VolumeTypeModifier, "mesh_b",
		geometry.NewBox3(geometry.V3(-50, -50, 0), geometry.V3(50, 50, 1)))
	_ = mod
	inst := obj.AddInstance()
	inst.Transform.Offset = geometry.V3(10, 0, 0)

	box := obj.InstanceBoundingBox(0)
	require.True(t, box.Defined)
	// Modifier volumes do not count towards the instance box.
	assert.True(t, box.Min.IsApprox(geometry.V3(9, -1, 0), 1e-9), "min %v", box.Min)
	assert.True(t, box.Max.IsApprox(geometry.V3(11, 1, 2), 1e-9), "max %v", box.Max)

	assert.False(t, obj.InstanceBoundingBox(3).Defined)
}

func TestModelRoundTripsThroughJSON(t *testing.T) {
	m := NewSampleModel()
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var back Model
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Len(t, back.Objects, len(m.Objects))
	assert.Equal(t, m.Objects[0].Volumes[1].Transform.Offset, back.Objects[0].Volumes[1].Transform.Offset)
	assert.Equal(t, m.Objects[1].Instances[0].ID, back.Objects[1].Instances[0].ID)
}
