package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEraseFullObject(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 1}))
	e.sel.AddObject(0, true)
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	assert.Equal(t, []ItemForDelete{{Type: ItemObject, ObjectIdx: 0}}, e.objects.deleted[0])
}

func TestEraseAllObjects(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 1}, objSpec{volumes: 2, instances: 2}))
	e.sel.AddAll()
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	assert.Equal(t, []ItemForDelete{
		{Type: ItemObject, ObjectIdx: 0},
		{Type: ItemObject, ObjectIdx: 1},
	}, e.objects.deleted[0])
}

func TestEraseInstances(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 3}))
	e.sel.AddInstance(0, 0, true)
	e.sel.AddInstance(0, 2, false)
	require.Equal(t, TypeMultipleFullInstance, e.sel.Type())
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	assert.Equal(t, []ItemForDelete{
		{Type: ItemInstance, ObjectIdx: 0, SubIdx: 0},
		{Type: ItemInstance, ObjectIdx: 0, SubIdx: 2},
	}, e.objects.deleted[0])
}

func TestEraseSingleInstance(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 2}))
	e.sel.AddInstance(0, 1, true)
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	assert.Equal(t, []ItemForDelete{{Type: ItemInstance, ObjectIdx: 0, SubIdx: 1}}, e.objects.deleted[0])
}

func TestErasePlainVolumes(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 3, instances: 1}))
	e.sel.AddVolumes(ModeVolume, []int{0, 1}, true)
	require.Equal(t, TypeMultipleVolume, e.sel.Type())
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	assert.Equal(t, []ItemForDelete{
		{Type: ItemVolume, ObjectIdx: 0, SubIdx: 0},
		{Type: ItemVolume, ObjectIdx: 0, SubIdx: 1},
	}, e.objects.deleted[0])
}

func TestEraseMixedEscalatesFullyCoveredObject(t *testing.T) {
	// obj0 has both of its volumes selected, obj1 one of two instances.
	e := newEnv(testModel(
		objSpec{volumes: 2, instances: 1},
		objSpec{volumes: 1, instances: 2},
	))
	// arena: obj0 vol0, obj0 vol1, obj1 i0, obj1 i1
	e.sel.AddVolumes(ModeVolume, []int{0, 1, 2}, true)
	require.Equal(t, TypeMixed, e.sel.Type())
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	items := e.objects.deleted[0]
	assert.Equal(t, []ItemForDelete{
		{Type: ItemInstance, ObjectIdx: 1, SubIdx: 0},
		{Type: ItemObject, ObjectIdx: 0},
	}, items)

	// Volume-level deletes covering a whole object must never slip through.
	for _, it := range items {
		if it.Type == ItemVolume {
			assert.Less(t, countVolumeDeletes(items, it.ObjectIdx), len(e.model.Objects[it.ObjectIdx].Volumes))
		}
	}
}

func TestEraseMixedKeepsPartialVolumes(t *testing.T) {
	e := newEnv(testModel(
		objSpec{volumes: 1, instances: 1},
		objSpec{volumes: 2, instances: 1},
	))
	// arena: obj0 vol0, obj1 vol0, obj1 vol1
	e.sel.AddVolumes(ModeVolume, []int{0, 1}, true)
	require.Equal(t, TypeMixed, e.sel.Type())
	e.sel.Erase()

	require.Len(t, e.objects.deleted, 1)
	assert.Equal(t, []ItemForDelete{
		{Type: ItemObject, ObjectIdx: 0, SubIdx: -1},
		{Type: ItemVolume, ObjectIdx: 1, SubIdx: 0},
	}, e.objects.deleted[0])
}

func TestEraseEmptySelectionIsNoOp(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 1}))
	e.sel.Erase()
	assert.Empty(t, e.objects.deleted)
}

func countVolumeDeletes(items []ItemForDelete, objectIdx int) int {
	n := 0
	for _, it := range items {
		if it.Type == ItemVolume && it.ObjectIdx == objectIdx {
			n++
		}
	}
	return n
}
