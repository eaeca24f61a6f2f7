package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/selection"
)

func testBed() geometry.Box3 {
	return geometry.NewBox3(geometry.Vec3{}, geometry.V3(250, 210, 220))
}

func testEditor(t *testing.T) *Editor {
	t.Helper()
	e := New(testBed())

	m := document.NewModel()
	bounds := geometry.NewBox3(geometry.V3(-5, -5, 0), geometry.V3(5, 5, 10))
	for i := 0; i < 2; i++ {
		obj := m.AddObject("obj")
		obj.InputFile = "obj.stl"
		obj.AddVolume("part", document.VolumeTypeModel, "mesh", bounds)
		inst := obj.AddInstance()
		inst.Transform.Offset = geometry.V3(float64(60*i), 0, 0)
	}
	e.SetModel(m)
	return e
}

func TestEraseThenUndo(t *testing.T) {
	e := testEditor(t)
	sel := e.Selection()

	sel.AddObject(0, true)
	require.False(t, sel.IsEmpty())

	// The delete checkpoint belongs to the caller, not to Erase itself.
	e.TakeSnapshot("Delete Selected")
	sel.Erase()

	assert.Len(t, e.Model().Objects, 1)
	assert.True(t, sel.IsEmpty())
	assert.Equal(t, 1, e.Volumes().Len())

	require.True(t, e.Undo())
	assert.Len(t, e.Model().Objects, 2)
	assert.Equal(t, 2, e.Volumes().Len())
	// The pre-delete selection comes back with the document.
	assert.False(t, sel.IsEmpty())
	assert.Equal(t, selection.TypeSingleFullObject, sel.Type())

	require.True(t, e.Redo())
	assert.Len(t, e.Model().Objects, 1)
	assert.True(t, sel.IsEmpty())
}

func TestUndoOnEmptyHistory(t *testing.T) {
	e := testEditor(t)
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
}

func TestSelectionChangeIsUndoable(t *testing.T) {
	e := testEditor(t)
	sel := e.Selection()

	sel.AddObject(0, true)
	sel.AddObject(1, false)
	require.Len(t, sel.Indices(), 2)

	require.True(t, e.Undo())
	assert.Equal(t, []int{0}, sel.Indices())
	require.True(t, e.Undo())
	assert.True(t, sel.IsEmpty())
}

func TestCommitTransforms(t *testing.T) {
	e := testEditor(t)
	sel := e.Selection()

	sel.AddObject(0, true)
	sel.StartDragging()
	sel.Translate(geometry.V3(10, 5, 0), false)

	// The document lags behind the arena until the gesture is committed.
	assert.Equal(t, geometry.Vec3{}, e.Model().Objects[0].Instances[0].Transform.Offset)

	e.CommitTransforms()
	assert.Equal(t, geometry.V3(10, 5, 0), e.Model().Objects[0].Instances[0].Transform.Offset)
	assert.Equal(t, geometry.V3(60, 0, 0), e.Model().Objects[1].Instances[0].Transform.Offset)
}

func TestReloadSceneKeepsSelection(t *testing.T) {
	e := testEditor(t)
	sel := e.Selection()

	sel.AddObject(1, true)
	wantIDs := sel.SelectedGeometry()

	obj := e.Model().AddObject("extra")
	obj.AddVolume("part", document.VolumeTypeModel, "mesh",
		geometry.NewBox3(geometry.Vec3{}, geometry.V3(1, 1, 1)))
	obj.AddInstance()
	e.ReloadScene()

	assert.Equal(t, 3, e.Volumes().Len())
	assert.Equal(t, wantIDs, sel.SelectedGeometry())
	assert.Equal(t, selection.TypeSingleFullObject, sel.Type())
}

func TestPasteObjectsReselects(t *testing.T) {
	e := testEditor(t)
	sel := e.Selection()

	sel.AddObject(0, true)
	sel.CopyToClipboard()
	sel.PasteFromClipboard()

	require.Len(t, e.Model().Objects, 3)
	assert.Equal(t, 2, sel.ObjectIdx(), "selection moved to the pasted object")
	assert.Equal(t, selection.TypeSingleFullObject, sel.Type())
}

func TestPasteVolumesReselects(t *testing.T) {
	e := New(testBed())
	m := document.NewModel()
	bounds := geometry.NewBox3(geometry.V3(-5, -5, 0), geometry.V3(5, 5, 10))
	obj := m.AddObject("obj")
	obj.InputFile = "obj.stl"
	obj.AddVolume("a", document.VolumeTypeModel, "mesh", bounds)
	obj.AddVolume("b", document.VolumeTypeModel, "mesh", bounds)
	obj.AddInstance()
	e.SetModel(m)
	sel := e.Selection()

	sel.AddVolume(0, 0, 0, true)
	sel.CopyToClipboard()
	sel.PasteFromClipboard()

	require.Len(t, e.Model().Objects[0].Volumes, 3)
	// The pasted copy, not the source, ends up selected.
	require.Len(t, sel.Indices(), 1)
	v := sel.Volume(sel.Indices()[0])
	assert.Equal(t, 2, v.VolumeIdx)
}

func TestLoadDocumentRoundTrip(t *testing.T) {
	e := testEditor(t)
	data, err := e.DocumentJSON()
	require.NoError(t, err)

	other := New(testBed())
	require.NoError(t, other.LoadDocument(data))
	assert.Len(t, other.Model().Objects, 2)
	assert.Equal(t, 2, other.Volumes().Len())

	assert.Error(t, other.LoadDocument([]byte("not json")))
}

func TestPanelDirtyFlag(t *testing.T) {
	e := testEditor(t)
	sel := e.Selection()

	sel.AddObject(0, true)
	sel.ScaleToFitPrintVolume()

	assert.True(t, e.PanelDirty())
	assert.False(t, e.PanelDirty(), "reading the flag clears it")
}
