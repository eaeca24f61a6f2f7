package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/geometry"
)

func TestCopyPasteVolumeWithinObject(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 1}))
	e.sel.AddVolume(0, 0, 0, true)
	require.Equal(t, ModeVolume, e.sel.Mode())

	e.sel.CopyToClipboard()
	cb := e.sel.Clipboard()
	assert.False(t, cb.Empty())
	assert.Equal(t, ModeVolume, cb.Mode())
	require.Len(t, cb.Objects(), 1)
	assert.Len(t, cb.Objects()[0].Volumes, 1)
	assert.Len(t, cb.Objects()[0].Instances, 1)

	srcID := e.model.Objects[0].Volumes[0].ID
	e.sel.PasteFromClipboard()

	obj := e.model.Objects[0]
	require.Len(t, obj.Volumes, 3)
	pasted := obj.Volumes[2]
	assert.NotEqual(t, srcID, pasted.ID)
	// Same object, same orientation: the copy keeps its local placement.
	assertVec(t, geometry.Vec3{}, pasted.Transform.Offset)

	require.Len(t, e.objects.pastedVolumes, 1)
	assert.Equal(t, 0, e.objects.pastedVolumes[0].objectIdx)
	assert.Len(t, e.objects.pastedVolumes[0].volumes, 1)
}

func TestCopyPasteVolumeAcrossObjects(t *testing.T) {
	e := newEnv(testModel(
		objSpec{volumes: 2, instances: 1},
		objSpec{volumes: 1, instances: 1},
	))
	e.model.Objects[1].InputFile = "other.stl"

	e.sel.AddVolume(0, 0, 0, true)
	e.sel.CopyToClipboard()

	// Destination: the single instance of the other object, at (60,30,0).
	e.sel.AddVolume(1, 0, 0, true)
	require.True(t, e.sel.IsFromSingleInstance())
	e.sel.PasteFromClipboard()

	obj := e.model.Objects[1]
	require.Len(t, obj.Volumes, 2)
	// Placed as a block against the destination instance box: the 10mm cube
	// lands half a size beyond its +X face.
	assertVec(t, geometry.V3(10, 0, 0), obj.Volumes[1].Transform.Offset)
}

func TestCopyPasteObjects(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 1}))
	e.sel.AddObject(0, true)
	require.Equal(t, ModeInstance, e.sel.Mode())

	e.sel.CopyToClipboard()
	assert.Equal(t, ModeInstance, e.sel.Clipboard().Mode())

	e.sel.PasteFromClipboard()

	require.Len(t, e.model.Objects, 2)
	pasted := e.model.Objects[1]
	assert.NotEqual(t, e.model.Objects[0].ID, pasted.ID)
	require.Len(t, pasted.Instances, 1)
	// Bed is 200mm square; pasted content shifts 5% of that on X and Y.
	assertVec(t, geometry.V3(10, 10, 0), pasted.Instances[0].Transform.Offset)
	assert.Equal(t, [][]int{{1}}, e.objects.pastedObjects)

	// The clipboard survives the paste and can be pasted again.
	e.sel.PasteFromClipboard()
	require.Len(t, e.model.Objects, 3)
	assert.Equal(t, [][]int{{1}, {2}}, e.objects.pastedObjects)
}

func TestPasteModeMismatchIsNoOp(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 1}))
	e.sel.AddObject(0, true)
	e.sel.CopyToClipboard()
	require.Equal(t, ModeInstance, e.sel.Clipboard().Mode())

	// Object content cannot be pasted while working at volume granularity.
	e.sel.AddVolume(0, 0, 0, true)
	require.Equal(t, ModeVolume, e.sel.Mode())
	e.sel.PasteFromClipboard()

	assert.Len(t, e.model.Objects, 1)
	assert.Empty(t, e.objects.pastedObjects)
}

func TestClipboardSLACompliance(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 1}))
	e.sel.AddVolume(0, 0, 0, true)
	e.sel.CopyToClipboard()
	assert.False(t, e.sel.Clipboard().IsSLACompliant(), "volume granularity is never compliant")

	e2 := newEnv(testModel(objSpec{volumes: 1, instances: 1}))
	e2.sel.AddObject(0, true)
	e2.sel.CopyToClipboard()
	assert.True(t, e2.sel.Clipboard().IsSLACompliant())

	e3 := newEnv(testModel(objSpec{volumes: 1, modifiers: 1, instances: 1}))
	e3.sel.AddObject(0, true)
	e3.sel.CopyToClipboard()
	assert.False(t, e3.sel.Clipboard().IsSLACompliant(), "modifiers break compliance")

	assert.True(t, (&Clipboard{}).Empty())
}
