package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/printdeck/printdeck/internal/editor"
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/selection"
)

// PlateState holds the authoritative plate editor for a room. Every client
// operation funnels through ApplyOperation under the lock, so the editor
// itself never sees concurrent access.
type PlateState struct {
	mu        sync.Mutex
	editor    *editor.Editor
	serverSeq int64
	opLog     []Operation
}

// NewPlateState wraps an editor as a room's shared state.
func NewPlateState(ed *editor.Editor) *PlateState {
	return &PlateState{
		editor: ed,
		opLog:  make([]Operation, 0),
	}
}

// Editor exposes the wrapped editor for tests and the doc sync path.
func (ps *PlateState) Editor() *editor.Editor {
	return ps.editor
}

// DocumentJSON returns the current document and the sequence it reflects.
func (ps *PlateState) DocumentJSON() ([]byte, int64, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	data, err := ps.editor.DocumentJSON()
	return data, ps.serverSeq, err
}

// ApplyOperation applies one operation and returns the server sequence it
// was assigned. Failed operations are not logged and do not consume a
// sequence number.
func (ps *PlateState) ApplyOperation(op Operation) (int64, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if err := ps.applyLocked(op); err != nil {
		return 0, err
	}

	ps.serverSeq++
	ps.opLog = append(ps.opLog, op)
	return ps.serverSeq, nil
}

func (ps *PlateState) applyLocked(op Operation) error {
	sel := ps.editor.Selection()

	switch op.Type {
	case OpSelectionAdd:
		idx, err := requireIdx(op.VolumeIdx, "volumeIdx")
		if err != nil {
			return err
		}
		sel.Add(idx, op.AsSingle, true)

	case OpSelectionRemove:
		idx, err := requireIdx(op.VolumeIdx, "volumeIdx")
		if err != nil {
			return err
		}
		sel.Remove(idx)

	case OpSelectionAddObject:
		idx, err := requireIdx(op.ObjectIdx, "objectIdx")
		if err != nil {
			return err
		}
		sel.AddObject(idx, op.AsSingle)

	case OpSelectionRemoveObject:
		idx, err := requireIdx(op.ObjectIdx, "objectIdx")
		if err != nil {
			return err
		}
		sel.RemoveObject(idx)

	case OpSelectionAddInstance:
		objectIdx, err := requireIdx(op.ObjectIdx, "objectIdx")
		if err != nil {
			return err
		}
		instanceIdx, err := requireIdx(op.InstanceIdx, "instanceIdx")
		if err != nil {
			return err
		}
		sel.AddInstance(objectIdx, instanceIdx, op.AsSingle)

	case OpSelectionRemoveInstance:
		objectIdx, err := requireIdx(op.ObjectIdx, "objectIdx")
		if err != nil {
			return err
		}
		instanceIdx, err := requireIdx(op.InstanceIdx, "instanceIdx")
		if err != nil {
			return err
		}
		sel.RemoveInstance(objectIdx, instanceIdx)

	case OpSelectionAddVolume:
		objectIdx, err := requireIdx(op.ObjectIdx, "objectIdx")
		if err != nil {
			return err
		}
		volumeIdx, err := requireIdx(op.VolumeIdx, "volumeIdx")
		if err != nil {
			return err
		}
		instanceIdx := -1
		if op.InstanceIdx != nil {
			instanceIdx = *op.InstanceIdx
		}
		sel.AddVolume(objectIdx, volumeIdx, instanceIdx, op.AsSingle)

	case OpSelectionRemoveVolume:
		objectIdx, err := requireIdx(op.ObjectIdx, "objectIdx")
		if err != nil {
			return err
		}
		volumeIdx, err := requireIdx(op.VolumeIdx, "volumeIdx")
		if err != nil {
			return err
		}
		sel.RemoveVolume(objectIdx, volumeIdx)

	case OpSelectionAddAll:
		sel.AddAll()

	case OpSelectionRemoveAll:
		sel.RemoveAll()

	case OpSelectionErase:
		if sel.IsEmpty() {
			return fmt.Errorf("erase: empty selection")
		}
		ps.editor.TakeSnapshot("Delete Selected")
		sel.Erase()

	case OpGestureStart:
		ps.editor.TakeSnapshot("Gizmo Transform")
		sel.StartDragging()

	case OpGestureTranslate:
		if op.Displacement == nil {
			return fmt.Errorf("%s: missing displacement", op.Type)
		}
		sel.Translate(*op.Displacement, op.Local)
		ps.editor.CommitTransforms()

	case OpGestureRotate:
		if op.Rotation == nil {
			return fmt.Errorf("%s: missing rotation", op.Type)
		}
		if err := sel.Rotate(*op.Rotation, transformType(op)); err != nil {
			return err
		}
		ps.editor.CommitTransforms()

	case OpGestureScale:
		if op.Scale == nil {
			return fmt.Errorf("%s: missing scale", op.Type)
		}
		if err := sel.Scale(*op.Scale, transformType(op)); err != nil {
			return err
		}
		ps.editor.CommitTransforms()

	case OpGestureMirror:
		axis, err := requireIdx(op.Axis, "axis")
		if err != nil {
			return err
		}
		if axis < int(geometry.X) || axis > int(geometry.Z) {
			return fmt.Errorf("%s: bad axis %d", op.Type, axis)
		}
		sel.Mirror(geometry.Axis(axis))
		ps.editor.CommitTransforms()

	case OpGestureFlatten:
		if op.Normal == nil {
			return fmt.Errorf("%s: missing normal", op.Type)
		}
		sel.FlatteningRotate(*op.Normal)
		ps.editor.CommitTransforms()

	case OpGestureScaleToFit:
		sel.ScaleToFitPrintVolume()
		ps.editor.CommitTransforms()

	case OpClipboardCopy:
		sel.CopyToClipboard()

	case OpClipboardPaste:
		if sel.Clipboard().Empty() {
			return fmt.Errorf("paste: empty clipboard")
		}
		ps.editor.TakeSnapshot("Paste From Clipboard")
		sel.PasteFromClipboard()

	case OpPlateUndo:
		if !ps.editor.Undo() {
			return fmt.Errorf("undo: nothing to undo")
		}

	case OpPlateRedo:
		if !ps.editor.Redo() {
			return fmt.Errorf("redo: nothing to redo")
		}

	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}

	return nil
}

func requireIdx(p *int, name string) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("missing %s", name)
	}
	return *p, nil
}

func transformType(op Operation) selection.TransformationType {
	if op.TransformType == nil {
		return selection.TransformWorldRelativeJoint
	}
	return selection.TransformationType(*op.TransformType)
}

// OpLogJSON serializes the room's operation history.
func (ps *PlateState) OpLogJSON() ([]byte, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return json.Marshal(ps.opLog)
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
