package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/geometry"
)

func assertVec(t *testing.T, want, got geometry.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestTranslateIsAbsoluteWithinGesture(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 2}))
	e.sel.AddInstance(0, 0, true)
	e.sel.StartDragging()

	e.sel.Translate(geometry.V3(5, 0, 0), false)
	assertVec(t, geometry.V3(5, 0, 0), e.list.At(0).InstanceTrans.Offset)

	// Each call re-applies against the cached baseline, it does not stack.
	e.sel.Translate(geometry.V3(10, 0, 0), false)
	assertVec(t, geometry.V3(10, 0, 0), e.list.At(0).InstanceTrans.Offset)

	// The unselected sibling never moves.
	assertVec(t, geometry.V3(40, 0, 0), e.list.At(1).InstanceTrans.Offset)
}

func TestTranslateDegradesForPartialInstance(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 1}))
	e.sel.AddVolumes(ModeInstance, []int{0}, true)
	require.Equal(t, ModeInstance, e.sel.Mode())

	e.sel.StartDragging()
	e.sel.Translate(geometry.V3(3, 4, 0), false)

	// A partially covered instance moves at volume granularity.
	assertVec(t, geometry.V3(3, 4, 0), e.list.At(0).VolumeTrans.Offset)
	assertVec(t, geometry.Vec3{}, e.list.At(0).InstanceTrans.Offset)
	assertVec(t, geometry.Vec3{}, e.list.At(1).VolumeTrans.Offset)
}

func TestJointZRotationPivotsAboutDraggingCenter(t *testing.T) {
	e := newEnv(testModel(
		objSpec{volumes: 1, instances: 2},
		objSpec{volumes: 1, instances: 2},
	))
	// arena: obj0 i0, obj0 i1, obj1 i0, obj1 i1
	// offsets:  (0,0,0), (40,0,0), (60,30,0), (100,30,0)
	e.sel.AddInstance(0, 0, true)
	e.sel.AddInstance(1, 0, false)
	e.sel.StartDragging()

	// Selection box spans (-5,-5,0)..(65,35,10), pivot (30,15,5).
	require.NoError(t, e.sel.Rotate(geometry.V3(0, 0, math.Pi/2), TransformWorldRelativeJoint))

	assertVec(t, geometry.V3(45, -15, 0), e.list.At(0).InstanceTrans.Offset)
	assertVec(t, geometry.V3(0, 0, math.Pi/2), e.list.At(0).InstanceTrans.Rotation)
	assertVec(t, geometry.V3(15, 45, 0), e.list.At(2).InstanceTrans.Offset)
	assertVec(t, geometry.V3(0, 0, math.Pi/2), e.list.At(2).InstanceTrans.Rotation)

	// Unselected siblings follow the Z spin in place.
	assertVec(t, geometry.V3(40, 0, 0), e.list.At(1).InstanceTrans.Offset)
	assertVec(t, geometry.V3(0, 0, math.Pi/2), e.list.At(1).InstanceTrans.Rotation)
	assertVec(t, geometry.V3(100, 30, 0), e.list.At(3).InstanceTrans.Offset)
	assertVec(t, geometry.V3(0, 0, math.Pi/2), e.list.At(3).InstanceTrans.Rotation)

	require.NoError(t, e.sel.VerifyConsistency())

	// Within the same gesture the angle replaces, it does not compose.
	require.NoError(t, e.sel.Rotate(geometry.V3(0, 0, math.Pi), TransformWorldRelativeJoint))
	assertVec(t, geometry.V3(60, 30, 0), e.list.At(0).InstanceTrans.Offset)
	assertVec(t, geometry.V3(0, 0, math.Pi), e.list.At(0).InstanceTrans.Rotation)
}

func TestZeroRotationRestoresBaseline(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 2}))
	e.sel.AddInstance(0, 0, true)
	e.sel.StartDragging()

	require.NoError(t, e.sel.Rotate(geometry.V3(0, 0, 1.2), TransformWorldRelativeJoint))
	require.NoError(t, e.sel.Rotate(geometry.Vec3{}, TransformWorldRelativeJoint))

	assertVec(t, geometry.Vec3{}, e.list.At(0).InstanceTrans.Offset)
	assertVec(t, geometry.Vec3{}, e.list.At(0).InstanceTrans.Rotation)
}

func TestAbsoluteWorldRotationRejected(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 1}))
	e.sel.AddObject(0, true)
	e.sel.StartDragging()

	err := e.sel.Rotate(geometry.V3(0, 0, 1), TransformWorldAbsoluteIndependent)
	assert.ErrorIs(t, err, ErrAbsoluteWorldRotation)
}

func TestWorldScalePermutesThroughNinetyRotation(t *testing.T) {
	m := testModel(objSpec{volumes: 1, instances: 1})
	m.Objects[0].Instances[0].Transform.Rotation = geometry.V3(0, 0, math.Pi/2)
	e := newEnv(m)
	e.sel.AddObject(0, true)
	e.sel.StartDragging()

	require.NoError(t, e.sel.Scale(geometry.V3(2, 3, 4), TransformWorldAbsoluteIndependent))
	// World factors land permuted on the local axes.
	assertVec(t, geometry.V3(3, 2, 4), e.list.At(0).InstanceTrans.Scale)
}

func TestWorldScaleRejectsNonNinetyRotation(t *testing.T) {
	m := testModel(objSpec{volumes: 1, instances: 1})
	m.Objects[0].Instances[0].Transform.Rotation = geometry.V3(0, 0, math.Pi/4)
	e := newEnv(m)
	e.sel.AddObject(0, true)
	e.sel.StartDragging()

	err := e.sel.Scale(geometry.V3(2, 3, 4), TransformWorldAbsoluteIndependent)
	assert.ErrorIs(t, err, ErrNonNinetyWorldScale)
	assertVec(t, geometry.V3(1, 1, 1), e.list.At(0).InstanceTrans.Scale)
}

func TestScaleSyncsSiblingsAndLandsOnBed(t *testing.T) {
	m := testModel(objSpec{volumes: 1, instances: 2})
	for _, inst := range m.Objects[0].Instances {
		inst.Transform.Offset.Z = 3
	}
	e := newEnv(m)
	e.sel.AddInstance(0, 0, true)
	e.sel.StartDragging()

	require.NoError(t, e.sel.Scale(geometry.V3(2, 2, 2), TransformWorldRelativeJoint))

	assertVec(t, geometry.V3(2, 2, 2), e.list.At(0).InstanceTrans.Scale)
	// The unselected sibling picks up the same factors.
	assertVec(t, geometry.V3(2, 2, 2), e.list.At(1).InstanceTrans.Scale)

	// Every touched instance sits exactly on the bed afterwards.
	for i := 0; i < e.list.Len(); i++ {
		box := e.list.At(i).TransformedBoundingBox()
		assert.InDelta(t, 0, box.Min.Z, 1e-9, "volume %d", i)
	}
}

func TestSingleVolumeScaleIsDirect(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 2, instances: 1}))
	e.sel.AddVolume(0, 0, 0, true)
	e.sel.StartDragging()

	require.NoError(t, e.sel.Scale(geometry.V3(2, 3, 4), TransformLocalAbsoluteIndependent))
	assertVec(t, geometry.V3(2, 3, 4), e.list.At(0).VolumeTrans.Scale)
	assertVec(t, geometry.V3(1, 1, 1), e.list.At(1).VolumeTrans.Scale)
}

func TestMirrorFlipsAxis(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 2}))
	e.sel.AddInstance(0, 0, true)

	e.sel.Mirror(geometry.X)
	assertVec(t, geometry.V3(-1, 1, 1), e.list.At(0).InstanceTrans.Mirror)
	// Siblings mirror in lockstep.
	assertVec(t, geometry.V3(-1, 1, 1), e.list.At(1).InstanceTrans.Mirror)

	e.sel.Mirror(geometry.X)
	assertVec(t, geometry.V3(1, 1, 1), e.list.At(0).InstanceTrans.Mirror)
}

func TestFlatteningRotateAlignsNormalDown(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 2}))
	e.sel.AddInstance(0, 0, true)
	e.sel.StartDragging()

	e.sel.FlatteningRotate(geometry.V3(1, 0, 0))

	rot := e.list.At(0).InstanceTrans.Rotation
	down := geometry.RotationZYX(rot).MulVec(geometry.V3(1, 0, 0))
	assertVec(t, geometry.V3(0, 0, -1), down)

	// Flattening propagates the full rotation to siblings.
	assertVec(t, rot, e.list.At(1).InstanceTrans.Rotation)
	require.NoError(t, e.sel.VerifyConsistency())
}

func TestWipeTowerRotatesAboutItsCenter(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 1}))
	e.list.AddWipeTower(geometry.V3(150, 150, 0), 0, 60, 15, 200)
	wtIdx := e.list.Len() - 1
	e.sel.Add(wtIdx, true, false)
	require.True(t, e.sel.IsWipeTower())

	wt := e.list.At(wtIdx)
	centerBefore := wt.TransformedBoundingBox().Center()

	require.NoError(t, e.sel.Rotate(geometry.V3(0, 0, math.Pi/2), TransformWorldRelativeJoint))

	assertVec(t, geometry.V3(0, 0, math.Pi/2), wt.VolumeTrans.Rotation)
	assertVec(t, centerBefore, wt.TransformedBoundingBox().Center())
}

func TestScaleToFitPrintVolume(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 1}))
	e.sel.AddObject(0, true)
	e.snaps.labels = nil

	e.sel.ScaleToFitPrintVolume()

	printVolume := e.bed.PrintVolume()
	box := e.sel.BoundingBox()
	assertVec(t, printVolume.Center(), box.Center())
	// Limited by the 180mm height over a 10mm tall part, minus slack.
	assert.InDelta(t, 180, box.Size().Z, 0.2)
	assert.Equal(t, []string{"Scale To Fit"}, e.snaps.labels)
	assert.Equal(t, 1, e.panel.dirties)
}

func TestTranslateObjectAndInstanceMoveUnselectedToo(t *testing.T) {
	e := newEnv(testModel(objSpec{volumes: 1, instances: 2}))
	e.sel.AddInstance(0, 0, true)

	e.sel.TranslateObject(0, geometry.V3(0, 7, 0))
	assertVec(t, geometry.V3(0, 7, 0), e.list.At(0).InstanceTrans.Offset)
	assertVec(t, geometry.V3(40, 7, 0), e.list.At(1).InstanceTrans.Offset)

	e.sel.TranslateInstance(0, 1, geometry.V3(0, 0, 2))
	assertVec(t, geometry.V3(0, 7, 0), e.list.At(0).InstanceTrans.Offset)
	assertVec(t, geometry.V3(40, 7, 2), e.list.At(1).InstanceTrans.Offset)
}
