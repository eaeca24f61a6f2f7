// Package undo keeps the plate editor's history as a pair of snapshot
// stacks. Snapshots are full-document captures; the editor decides when to
// record one and how to restore it.
package undo

import (
	"encoding/json"

	"github.com/printdeck/printdeck/internal/scene"
	"github.com/printdeck/printdeck/internal/selection"
)

// Snapshot is one recorded checkpoint: the serialized document plus the
// selection state needed to restore what the user had in hand.
type Snapshot struct {
	Label     string             `json:"label"`
	Document  json.RawMessage    `json:"document"`
	Mode      selection.Mode     `json:"mode"`
	Selection []scene.GeometryID `json:"selection"`
}

// Recorder is a bounded undo/redo stack pair. Recording a new snapshot
// discards the redo side.
type Recorder struct {
	limit int
	undo  []Snapshot
	redo  []Snapshot
}

// NewRecorder returns a recorder keeping at most limit undo steps; a
// non-positive limit means unbounded.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Record pushes a checkpoint taken just before a change.
func (r *Recorder) Record(snap Snapshot) {
	r.undo = append(r.undo, snap)
	r.redo = nil
	if r.limit > 0 && len(r.undo) > r.limit {
		r.undo = append(r.undo[:0], r.undo[len(r.undo)-r.limit:]...)
	}
}

// Undo exchanges the current state for the most recent checkpoint. The
// caller passes the present state so a redo can come back to it.
func (r *Recorder) Undo(current Snapshot) (Snapshot, bool) {
	if len(r.undo) == 0 {
		return Snapshot{}, false
	}
	snap := r.undo[len(r.undo)-1]
	r.undo = r.undo[:len(r.undo)-1]
	current.Label = snap.Label
	r.redo = append(r.redo, current)
	return snap, true
}

// Redo reverses the most recent Undo.
func (r *Recorder) Redo(current Snapshot) (Snapshot, bool) {
	if len(r.redo) == 0 {
		return Snapshot{}, false
	}
	snap := r.redo[len(r.redo)-1]
	r.redo = r.redo[:len(r.redo)-1]
	current.Label = snap.Label
	r.undo = append(r.undo, current)
	return snap, true
}

// CanUndo reports whether an undo step is available.
func (r *Recorder) CanUndo() bool { return len(r.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (r *Recorder) CanRedo() bool { return len(r.redo) > 0 }

// UndoLabel returns the label of the next undo step, or "".
func (r *Recorder) UndoLabel() string {
	if len(r.undo) == 0 {
		return ""
	}
	return r.undo[len(r.undo)-1].Label
}

// RedoLabel returns the label of the next redo step, or "".
func (r *Recorder) RedoLabel() string {
	if len(r.redo) == 0 {
		return ""
	}
	return r.redo[len(r.redo)-1].Label
}

// Clear drops both stacks.
func (r *Recorder) Clear() {
	r.undo = nil
	r.redo = nil
}
