package selection

import (
	"github.com/printdeck/printdeck/internal/document"
	"github.com/printdeck/printdeck/internal/geometry"
)

// SnapshotTaker records an undo checkpoint before a mutating operation.
type SnapshotTaker interface {
	TakeSnapshot(label string)
}

// ItemType is the granularity of a structural delete request.
type ItemType int

const (
	ItemObject ItemType = iota
	ItemInstance
	ItemVolume
)

// ItemForDelete addresses one structural delete: SubIdx is the instance or
// volume index within the object, ignored for whole-object deletes.
type ItemForDelete struct {
	Type      ItemType
	ObjectIdx int
	SubIdx    int
}

// ObjectList is the outliner collaborator: it owns structural document
// changes and the scene rebuild that follows them.
type ObjectList interface {
	// DeleteItems removes the given items from the document and the list.
	DeleteItems(items []ItemForDelete)
	// PasteVolumes reports volumes just appended to an existing object.
	PasteVolumes(objectIdx int, volumes []*document.Volume)
	// PasteObjects reports objects just appended to the document.
	PasteObjects(objectIdxs []int)
}

// ManipulationPanel is the sidebar collaborator showing the numeric
// transform fields of the selection.
type ManipulationPanel interface {
	ResetCache()
	SetDirty()
}

// Bed provides the print volume geometry.
type Bed interface {
	PrintVolume() geometry.Box3
	// SizeProportionalToMaxSize returns ratio times the largest horizontal
	// bed dimension.
	SizeProportionalToMaxSize(ratio float64) float64
}
