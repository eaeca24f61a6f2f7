// Package editor owns one plate's full editing state: the document, the
// flattened render arena, the selection and the undo history. It is the
// concrete implementation behind the selection package's collaborator
// interfaces, so every selection-side checkpoint, delete and paste lands
// here.
package editor

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/geometry"
	"github.com/printdeck/printdeck/internal/scene"
	"github.com/printdeck/printdeck/internal/selection"
	"github.com/printdeck/printdeck/internal/undo"
)

// historyLimit bounds the undo stack per plate session.
const historyLimit = 64

// Editor is not safe for concurrent use; callers serialize access, the way
// the collab hub runs one room on one goroutine.
type Editor struct {
	bed geometry.Box3

	model   *document.Model
	volumes *scene.VolumeList
	sel     *selection.Selection

	history *undo.Recorder

	// panelDirty mirrors what a manipulation panel would need: set when a
	// transform invalidated the displayed values.
	panelDirty bool

	// While > 0, TakeSnapshot is swallowed; used when the editor reselects
	// internally after a paste or delete.
	suppressHistory int
}

// New returns an editor for the given print volume, loaded with an empty
// document.
func New(bed geometry.Box3) *Editor {
	e := &Editor{
		bed:     bed,
		history: undo.NewRecorder(historyLimit),
	}
	e.sel = selection.New(e, e, e, e)
	e.SetModel(document.NewModel())
	return e
}

// SetModel replaces the document and rebuilds the arena; selection and
// history are reset.
func (e *Editor) SetModel(m *document.Model) {
	e.model = m
	e.volumes = scene.Build(m)
	e.sel.SetModel(m)
	e.sel.SetVolumes(e.volumes)
	e.sel.SetDeserialized(selection.ModeInstance, nil)
	e.history.Clear()
}

// LoadDocument replaces the document from its JSON form.
func (e *Editor) LoadDocument(data []byte) error {
	var m document.Model
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("editor: decode document: %w", err)
	}
	e.SetModel(&m)
	return nil
}

// LoadSampleDocument loads the built-in sample plate.
func (e *Editor) LoadSampleDocument() {
	e.SetModel(document.NewSampleModel())
}

// DocumentJSON returns the current document serialized to JSON.
func (e *Editor) DocumentJSON() ([]byte, error) {
	return json.Marshal(e.model)
}

// Model returns the owned document.
func (e *Editor) Model() *document.Model { return e.model }

// Volumes returns the current arena.
func (e *Editor) Volumes() *scene.VolumeList { return e.volumes }

// Selection returns the owned selection.
func (e *Editor) Selection() *selection.Selection { return e.sel }

// History returns the owned undo recorder.
func (e *Editor) History() *undo.Recorder { return e.history }

// PanelDirty reports and clears the pending manipulation panel refresh.
func (e *Editor) PanelDirty() bool {
	dirty := e.panelDirty
	e.panelDirty = false
	return dirty
}

// CommitTransforms writes the arena transforms back into the document.
// Called at gesture end, before the document is persisted or broadcast.
func (e *Editor) CommitTransforms() {
	for _, v := range e.volumes.Volumes {
		if v.ObjectIdx < 0 || v.ObjectIdx >= len(e.model.Objects) {
			continue
		}
		obj := e.model.Objects[v.ObjectIdx]
		if v.InstanceIdx >= 0 && v.InstanceIdx < len(obj.Instances) {
			obj.Instances[v.InstanceIdx].Transform = v.InstanceTrans
		}
		if v.VolumeIdx >= 0 && v.VolumeIdx < len(obj.Volumes) {
			obj.Volumes[v.VolumeIdx].Transform = v.VolumeTrans
		}
	}
}

// ReloadScene rebuilds the arena from the document and carries the
// selection across by stable geometry id.
func (e *Editor) ReloadScene() {
	mode := e.sel.Mode()
	ids := e.sel.SelectedGeometry()

	// Clear against the old arena so no stale index survives the swap.
	e.sel.Clear()
	e.volumes = scene.Build(e.model)
	e.sel.SetVolumes(e.volumes)
	e.sel.SetDeserialized(mode, ids)
}

// Undo steps the document back one checkpoint.
func (e *Editor) Undo() bool {
	snap, ok := e.history.Undo(e.captureSnapshot(""))
	if !ok {
		return false
	}
	return e.restoreSnapshot(snap)
}

// Redo reverses the most recent Undo.
func (e *Editor) Redo() bool {
	snap, ok := e.history.Redo(e.captureSnapshot(""))
	if !ok {
		return false
	}
	return e.restoreSnapshot(snap)
}

func (e *Editor) captureSnapshot(label string) undo.Snapshot {
	data, err := json.Marshal(e.model)
	if err != nil {
		data = []byte("{}")
	}
	return undo.Snapshot{
		Label:     label,
		Document:  data,
		Mode:      e.sel.Mode(),
		Selection: e.sel.SelectedGeometry(),
	}
}

func (e *Editor) restoreSnapshot(snap undo.Snapshot) bool {
	var m document.Model
	if err := json.Unmarshal(snap.Document, &m); err != nil {
		return false
	}

	e.sel.Clear()
	e.model = &m
	e.volumes = scene.Build(e.model)
	e.sel.SetModel(e.model)
	e.sel.SetVolumes(e.volumes)
	e.sel.SetDeserialized(snap.Mode, snap.Selection)
	return true
}

// TakeSnapshot records an undo checkpoint of the pre-change state.
func (e *Editor) TakeSnapshot(label string) {
	if e.suppressHistory > 0 {
		return
	}
	e.history.Record(e.captureSnapshot(label))
}

// ResetCache clears the pending panel refresh; the selection emptied.
func (e *Editor) ResetCache() { e.panelDirty = false }

// SetDirty flags the manipulation panel values as stale.
func (e *Editor) SetDirty() { e.panelDirty = true }

// PrintVolume returns the printable space above the bed.
func (e *Editor) PrintVolume() geometry.Box3 { return e.bed }

// SizeProportionalToMaxSize returns ratio times the larger horizontal bed
// dimension.
func (e *Editor) SizeProportionalToMaxSize(ratio float64) float64 {
	size := e.bed.Size()
	if size.X > size.Y {
		return ratio * size.X
	}
	return ratio * size.Y
}

// DeleteItems applies a batch of deletions to the document. Items covered
// by a whole-object delete in the same batch are skipped; the rest is
// applied at descending indices so earlier deletions do not shift later
// ones.
func (e *Editor) DeleteItems(items []selection.ItemForDelete) {
	objectDeletes := map[int]struct{}{}
	for _, it := range items {
		if it.Type == selection.ItemObject {
			objectDeletes[it.ObjectIdx] = struct{}{}
		}
	}

	volumeDeletes := map[int][]int{}
	instanceDeletes := map[int][]int{}
	for _, it := range items {
		if _, covered := objectDeletes[it.ObjectIdx]; covered {
			continue
		}
		switch it.Type {
		case selection.ItemVolume:
			volumeDeletes[it.ObjectIdx] = append(volumeDeletes[it.ObjectIdx], it.SubIdx)
		case selection.ItemInstance:
			instanceDeletes[it.ObjectIdx] = append(instanceDeletes[it.ObjectIdx], it.SubIdx)
		}
	}

	for objectIdx, volumeIdxs := range volumeDeletes {
		if objectIdx < 0 || objectIdx >= len(e.model.Objects) {
			continue
		}
		sort.Sort(sort.Reverse(sort.IntSlice(volumeIdxs)))
		for _, volumeIdx := range volumeIdxs {
			e.model.Objects[objectIdx].DeleteVolume(volumeIdx)
		}
	}

	for objectIdx, instanceIdxs := range instanceDeletes {
		if objectIdx < 0 || objectIdx >= len(e.model.Objects) {
			continue
		}
		sort.Sort(sort.Reverse(sort.IntSlice(instanceIdxs)))
		for _, instanceIdx := range instanceIdxs {
			e.model.Objects[objectIdx].DeleteInstance(instanceIdx)
		}
		// An instance delete may drain the object.
		if len(e.model.Objects[objectIdx].Instances) == 0 {
			objectDeletes[objectIdx] = struct{}{}
		}
	}

	objectIdxs := make([]int, 0, len(objectDeletes))
	for objectIdx := range objectDeletes {
		objectIdxs = append(objectIdxs, objectIdx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(objectIdxs)))
	for _, objectIdx := range objectIdxs {
		e.model.DeleteObject(objectIdx)
	}

	e.ReloadScene()
}

// PasteVolumes rebuilds the arena after a volume paste and replaces the
// selection with the pasted volumes in the destination instance.
func (e *Editor) PasteVolumes(objectIdx int, volumes []*document.Volume) {
	e.suppressHistory++
	defer func() { e.suppressHistory-- }()

	instanceIdx := e.sel.InstanceIdx()
	e.ReloadScene()

	if objectIdx < 0 || objectIdx >= len(e.model.Objects) {
		return
	}
	obj := e.model.Objects[objectIdx]

	asSingle := true
	for _, pasted := range volumes {
		for volumeIdx, vol := range obj.Volumes {
			if vol.ID == pasted.ID {
				e.sel.AddVolume(objectIdx, volumeIdx, instanceIdx, asSingle)
				asSingle = false
			}
		}
	}
}

// PasteObjects rebuilds the arena after an object paste and replaces the
// selection with the pasted objects.
func (e *Editor) PasteObjects(objectIdxs []int) {
	e.suppressHistory++
	defer func() { e.suppressHistory-- }()

	e.ReloadScene()

	asSingle := true
	for _, objectIdx := range objectIdxs {
		e.sel.AddObject(objectIdx, asSingle)
		asSingle = false
	}
}
