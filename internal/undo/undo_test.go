package undo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(label, doc string) Snapshot {
	return Snapshot{Label: label, Document: json.RawMessage(doc)}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	r := NewRecorder(10)
	require.False(t, r.CanUndo())
	require.False(t, r.CanRedo())

	r.Record(snap("Move", `{"v":1}`))
	assert.Equal(t, "Move", r.UndoLabel())

	restored, ok := r.Undo(snap("", `{"v":2}`))
	require.True(t, ok)
	assert.JSONEq(t, `{"v":1}`, string(restored.Document))
	assert.False(t, r.CanUndo())
	require.True(t, r.CanRedo())
	assert.Equal(t, "Move", r.RedoLabel())

	redone, ok := r.Redo(snap("", `{"v":1}`))
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(redone.Document))
	assert.True(t, r.CanUndo())
	assert.False(t, r.CanRedo())
}

func TestRecordDropsRedoSide(t *testing.T) {
	r := NewRecorder(10)
	r.Record(snap("A", `1`))
	_, ok := r.Undo(snap("", `2`))
	require.True(t, ok)
	require.True(t, r.CanRedo())

	r.Record(snap("B", `3`))
	assert.False(t, r.CanRedo())
	assert.Equal(t, "B", r.UndoLabel())
}

func TestLimitEvictsOldest(t *testing.T) {
	r := NewRecorder(2)
	r.Record(snap("A", `1`))
	r.Record(snap("B", `2`))
	r.Record(snap("C", `3`))

	first, ok := r.Undo(snap("", `4`))
	require.True(t, ok)
	assert.Equal(t, "C", first.Label)
	second, ok := r.Undo(snap("", `3`))
	require.True(t, ok)
	assert.Equal(t, "B", second.Label)
	_, ok = r.Undo(snap("", `2`))
	assert.False(t, ok, "oldest step was evicted")
}

func TestEmptyStacksRefuse(t *testing.T) {
	r := NewRecorder(0)
	_, ok := r.Undo(snap("", `1`))
	assert.False(t, ok)
	_, ok = r.Redo(snap("", `1`))
	assert.False(t, ok)
	r.Record(snap("A", `1`))
	r.Clear()
	assert.False(t, r.CanUndo())
}
