package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/editor"
	"github.com/printdeck/printdeck/internal/geometry"
)

func intp(v int) *int { return &v }

func vecp(x, y, z float64) *geometry.Vec3 {
	v := geometry.V3(x, y, z)
	return &v
}

func testState(t *testing.T) *PlateState {
	t.Helper()
	ed := editor.New(geometry.NewBox3(geometry.Vec3{}, geometry.V3(250, 210, 220)))

	m := document.NewModel()
	bounds := geometry.NewBox3(geometry.V3(-5, -5, 0), geometry.V3(5, 5, 10))
	for i := 0; i < 2; i++ {
		obj := m.AddObject("obj")
		obj.AddVolume("part", document.VolumeTypeModel, "mesh", bounds)
		inst := obj.AddInstance()
		inst.Transform.Offset = geometry.V3(float64(60*i), 0, 0)
	}
	ed.SetModel(m)
	return NewPlateState(ed)
}

func TestApplyOperationSequencing(t *testing.T) {
	ps := testState(t)

	seq, err := ps.ApplyOperation(Operation{Type: OpSelectionAddObject, ObjectIdx: intp(0), AsSingle: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	seq, err = ps.ApplyOperation(Operation{Type: OpSelectionAddAll})
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)

	// Failed operations neither consume a sequence number nor get logged.
	_, err = ps.ApplyOperation(Operation{Type: OpSelectionAdd})
	require.Error(t, err, "missing volumeIdx")
	_, err = ps.ApplyOperation(Operation{Type: "plate.format"})
	require.Error(t, err, "unknown type")

	seq, err = ps.ApplyOperation(Operation{Type: OpSelectionRemoveAll})
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}

func TestGestureFlowCommitsDocument(t *testing.T) {
	ps := testState(t)
	ed := ps.Editor()

	_, err := ps.ApplyOperation(Operation{Type: OpSelectionAddObject, ObjectIdx: intp(0), AsSingle: true})
	require.NoError(t, err)
	_, err = ps.ApplyOperation(Operation{Type: OpGestureStart})
	require.NoError(t, err)
	_, err = ps.ApplyOperation(Operation{Type: OpGestureTranslate, Displacement: vecp(10, 5, 0)})
	require.NoError(t, err)

	assert.Equal(t, geometry.V3(10, 5, 0), ed.Model().Objects[0].Instances[0].Transform.Offset)

	// The gesture checkpoint restores the pre-drag document.
	_, err = ps.ApplyOperation(Operation{Type: OpPlateUndo})
	require.NoError(t, err)
	assert.Equal(t, geometry.Vec3{}, ed.Model().Objects[0].Instances[0].Transform.Offset)

	_, err = ps.ApplyOperation(Operation{Type: OpPlateRedo})
	require.NoError(t, err)
	assert.Equal(t, geometry.V3(10, 5, 0), ed.Model().Objects[0].Instances[0].Transform.Offset)
}

func TestRotateGestureValidation(t *testing.T) {
	ps := testState(t)

	_, err := ps.ApplyOperation(Operation{Type: OpSelectionAddObject, ObjectIdx: intp(0), AsSingle: true})
	require.NoError(t, err)
	_, err = ps.ApplyOperation(Operation{Type: OpGestureStart})
	require.NoError(t, err)

	_, err = ps.ApplyOperation(Operation{Type: OpGestureRotate})
	assert.Error(t, err, "missing rotation")

	// Absolute world rotations are a protocol violation.
	_, err = ps.ApplyOperation(Operation{
		Type:          OpGestureRotate,
		Rotation:      vecp(0, 0, 1),
		TransformType: intp(0),
	})
	assert.Error(t, err)

	_, err = ps.ApplyOperation(Operation{Type: OpGestureRotate, Rotation: vecp(0, 0, 1)})
	assert.NoError(t, err)
}

func TestEraseAndPasteOps(t *testing.T) {
	ps := testState(t)
	ed := ps.Editor()

	_, err := ps.ApplyOperation(Operation{Type: OpSelectionErase})
	assert.Error(t, err, "empty selection")

	_, err = ps.ApplyOperation(Operation{Type: OpClipboardPaste})
	assert.Error(t, err, "empty clipboard")

	_, err = ps.ApplyOperation(Operation{Type: OpSelectionAddObject, ObjectIdx: intp(0), AsSingle: true})
	require.NoError(t, err)
	_, err = ps.ApplyOperation(Operation{Type: OpClipboardCopy})
	require.NoError(t, err)
	_, err = ps.ApplyOperation(Operation{Type: OpClipboardPaste})
	require.NoError(t, err)
	assert.Len(t, ed.Model().Objects, 3)

	_, err = ps.ApplyOperation(Operation{Type: OpSelectionErase})
	require.NoError(t, err)
	assert.Len(t, ed.Model().Objects, 2, "pasted object erased again")

	_, err = ps.ApplyOperation(Operation{Type: OpPlateUndo})
	require.NoError(t, err)
	assert.Len(t, ed.Model().Objects, 3)
}

func TestMirrorAxisValidation(t *testing.T) {
	ps := testState(t)
	_, err := ps.ApplyOperation(Operation{Type: OpSelectionAddObject, ObjectIdx: intp(0), AsSingle: true})
	require.NoError(t, err)

	_, err = ps.ApplyOperation(Operation{Type: OpGestureMirror, Axis: intp(7)})
	assert.Error(t, err)

	_, err = ps.ApplyOperation(Operation{Type: OpGestureMirror, Axis: intp(int(geometry.Y))})
	require.NoError(t, err)
	assert.Equal(t, geometry.V3(1, -1, 1), ps.Editor().Model().Objects[0].Instances[0].Transform.Mirror)
}

func TestDocumentJSONCarriesSequence(t *testing.T) {
	ps := testState(t)
	_, err := ps.ApplyOperation(Operation{Type: OpSelectionAddAll})
	require.NoError(t, err)

	doc, seq, err := ps.DocumentJSON()
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	assert.NotEmpty(t, doc)

	logData, err := ps.OpLogJSON()
	require.NoError(t, err)
	assert.Contains(t, string(logData), OpSelectionAddAll)
}
