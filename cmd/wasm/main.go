//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/printdeck/printdeck/internal/editor"
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/selection"
)

var ed *editor.Editor

func main() {
	ed = editor.New(geometry.NewBox3(geometry.Vec3{}, geometry.V3(250, 210, 220)))

	// Create the editor API object
	plateEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	plateEditor.Set("setBed", js.FuncOf(setBed))
	plateEditor.Set("loadDocument", js.FuncOf(loadDocument))
	plateEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	plateEditor.Set("add", js.FuncOf(add))
	plateEditor.Set("remove", js.FuncOf(remove))
	plateEditor.Set("addObject", js.FuncOf(addObject))
	plateEditor.Set("removeObject", js.FuncOf(removeObject))
	plateEditor.Set("addInstance", js.FuncOf(addInstance))
	plateEditor.Set("removeInstance", js.FuncOf(removeInstance))
	plateEditor.Set("addVolume", js.FuncOf(addVolume))
	plateEditor.Set("removeVolume", js.FuncOf(removeVolume))
	plateEditor.Set("addAll", js.FuncOf(addAll))
	plateEditor.Set("removeAll", js.FuncOf(removeAll))
	plateEditor.Set("startDragging", js.FuncOf(startDragging))
	plateEditor.Set("translate", js.FuncOf(translate))
	plateEditor.Set("rotate", js.FuncOf(rotate))
	plateEditor.Set("scale", js.FuncOf(scale))
	plateEditor.Set("mirror", js.FuncOf(mirror))
	plateEditor.Set("flatteningRotate", js.FuncOf(flatteningRotate))
	plateEditor.Set("scaleToFit", js.FuncOf(scaleToFit))
	plateEditor.Set("commitTransforms", js.FuncOf(commitTransforms))
	plateEditor.Set("erase", js.FuncOf(erase))
	plateEditor.Set("copySelection", js.FuncOf(copySelection))
	plateEditor.Set("paste", js.FuncOf(paste))
	plateEditor.Set("undo", js.FuncOf(undo))
	plateEditor.Set("redo", js.FuncOf(redo))

	// --- Queries (frontend ← backend) ---
	plateEditor.Set("getDocument", js.FuncOf(getDocument))
	plateEditor.Set("getSelection", js.FuncOf(getSelection))
	plateEditor.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	plateEditor.Set("getMode", js.FuncOf(getMode))
	plateEditor.Set("getType", js.FuncOf(getType))
	plateEditor.Set("isSLACompliant", js.FuncOf(isSLACompliant))
	plateEditor.Set("requiresUniformScale", js.FuncOf(requiresUniformScale))
	plateEditor.Set("requiresLocalAxes", js.FuncOf(requiresLocalAxes))
	plateEditor.Set("canUndo", js.FuncOf(canUndo))
	plateEditor.Set("canRedo", js.FuncOf(canRedo))
	plateEditor.Set("undoLabel", js.FuncOf(undoLabel))
	plateEditor.Set("redoLabel", js.FuncOf(redoLabel))

	// Register on global scope
	js.Global().Set("plateEditor", plateEditor)

	// Signal that WASM is ready
	js.Global().Set("plateWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// --- Command Handlers ---

func setBed(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return fail("setBed needs width, depth, height")
	}
	bed := geometry.NewBox3(geometry.Vec3{}, geometry.V3(args[0].Float(), args[1].Float(), args[2].Float()))
	doc, err := ed.DocumentJSON()
	if err != nil {
		return fail(err.Error())
	}
	ed = editor.New(bed)
	if err := ed.LoadDocument(doc); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing document JSON")
	}
	if err := ed.LoadDocument([]byte(args[0].String())); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	ed.LoadSampleDocument()
	return ok()
}

func add(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing volume index")
	}
	asSingle := len(args) > 1 && args[1].Bool()
	checkContained := len(args) > 2 && args[2].Bool()
	ed.Selection().Add(args[0].Int(), asSingle, checkContained)
	return ok()
}

func remove(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing volume index")
	}
	ed.Selection().Remove(args[0].Int())
	return ok()
}

func addObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing object index")
	}
	asSingle := len(args) > 1 && args[1].Bool()
	ed.Selection().AddObject(args[0].Int(), asSingle)
	return ok()
}

func removeObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing object index")
	}
	ed.Selection().RemoveObject(args[0].Int())
	return ok()
}

func addInstance(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return fail("missing indices")
	}
	asSingle := len(args) > 2 && args[2].Bool()
	ed.Selection().AddInstance(args[0].Int(), args[1].Int(), asSingle)
	return ok()
}

func removeInstance(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return fail("missing indices")
	}
	ed.Selection().RemoveInstance(args[0].Int(), args[1].Int())
	return ok()
}

func addVolume(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return fail("missing indices")
	}
	instanceIdx := -1
	if len(args) > 2 {
		instanceIdx = args[2].Int()
	}
	asSingle := len(args) > 3 && args[3].Bool()
	ed.Selection().AddVolume(args[0].Int(), args[1].Int(), instanceIdx, asSingle)
	return ok()
}

func removeVolume(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return fail("missing indices")
	}
	ed.Selection().RemoveVolume(args[0].Int(), args[1].Int())
	return ok()
}

func addAll(this js.Value, args []js.Value) interface{} {
	ed.Selection().AddAll()
	return ok()
}

func removeAll(this js.Value, args []js.Value) interface{} {
	ed.Selection().RemoveAll()
	return ok()
}

func startDragging(this js.Value, args []js.Value) interface{} {
	ed.TakeSnapshot("Gizmo Transform")
	ed.Selection().StartDragging()
	return ok()
}

func vecArg(args []js.Value) (geometry.Vec3, bool) {
	if len(args) < 3 {
		return geometry.Vec3{}, false
	}
	return geometry.V3(args[0].Float(), args[1].Float(), args[2].Float()), true
}

func translate(this js.Value, args []js.Value) interface{} {
	d, found := vecArg(args)
	if !found {
		return fail("translate needs x, y, z")
	}
	local := len(args) > 3 && args[3].Bool()
	ed.Selection().Translate(d, local)
	return ok()
}

func rotate(this js.Value, args []js.Value) interface{} {
	r, found := vecArg(args)
	if !found {
		return fail("rotate needs x, y, z")
	}
	tt := selection.TransformWorldRelativeJoint
	if len(args) > 3 {
		tt = selection.TransformationType(args[3].Int())
	}
	if err := ed.Selection().Rotate(r, tt); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func scale(this js.Value, args []js.Value) interface{} {
	s, found := vecArg(args)
	if !found {
		return fail("scale needs x, y, z")
	}
	tt := selection.TransformWorldRelativeJoint
	if len(args) > 3 {
		tt = selection.TransformationType(args[3].Int())
	}
	if err := ed.Selection().Scale(s, tt); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func mirror(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing axis")
	}
	axis := args[0].Int()
	if axis < int(geometry.X) || axis > int(geometry.Z) {
		return fail("axis out of range")
	}
	ed.Selection().Mirror(geometry.Axis(axis))
	return ok()
}

func flatteningRotate(this js.Value, args []js.Value) interface{} {
	n, found := vecArg(args)
	if !found {
		return fail("flatteningRotate needs a normal")
	}
	ed.Selection().FlatteningRotate(n)
	return ok()
}

func scaleToFit(this js.Value, args []js.Value) interface{} {
	ed.Selection().ScaleToFitPrintVolume()
	return ok()
}

func commitTransforms(this js.Value, args []js.Value) interface{} {
	ed.CommitTransforms()
	return ok()
}

func erase(this js.Value, args []js.Value) interface{} {
	if ed.Selection().IsEmpty() {
		return fail("nothing selected")
	}
	ed.TakeSnapshot("Delete Selected")
	ed.Selection().Erase()
	return ok()
}

func copySelection(this js.Value, args []js.Value) interface{} {
	ed.Selection().CopyToClipboard()
	return ok()
}

func paste(this js.Value, args []js.Value) interface{} {
	if ed.Selection().Clipboard().Empty() {
		return fail("clipboard is empty")
	}
	ed.TakeSnapshot("Paste From Clipboard")
	ed.Selection().PasteFromClipboard()
	return ok()
}

func undo(this js.Value, args []js.Value) interface{} {
	if !ed.Undo() {
		return fail("nothing to undo")
	}
	return ok()
}

func redo(this js.Value, args []js.Value) interface{} {
	if !ed.Redo() {
		return fail("nothing to redo")
	}
	return ok()
}

// --- Query Handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := ed.DocumentJSON()
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.Selection().SelectedGeometry())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	box := ed.Selection().BoundingBox()
	data, err := json.Marshal(box)
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(int(ed.Selection().Mode()))
}

func getType(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(int(ed.Selection().Type()))
}

func isSLACompliant(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Selection().IsSLACompliant())
}

func requiresUniformScale(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Selection().RequiresUniformScale())
}

func requiresLocalAxes(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Selection().RequiresLocalAxes())
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.History().CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.History().CanRedo())
}

func undoLabel(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.History().UndoLabel())
}

func redoLabel(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.History().RedoLabel())
}
