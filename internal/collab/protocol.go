package collab

import (
	"encoding/json"

	"github.com/printdeck/printdeck/internal/geometry"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	BedPos      *BedPos  `json:"bedPos,omitempty"`
	Selection   []string `json:"selection,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

// BedPos is a pointer position projected onto the bed plane.
type BedPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// --- Operation Types ---

// Selection membership ops.
const (
	OpSelectionAdd            = "selection.add"
	OpSelectionRemove         = "selection.remove"
	OpSelectionAddObject      = "selection.add_object"
	OpSelectionRemoveObject   = "selection.remove_object"
	OpSelectionAddInstance    = "selection.add_instance"
	OpSelectionRemoveInstance = "selection.remove_instance"
	OpSelectionAddVolume      = "selection.add_volume"
	OpSelectionRemoveVolume   = "selection.remove_volume"
	OpSelectionAddAll         = "selection.add_all"
	OpSelectionRemoveAll      = "selection.remove_all"
	OpSelectionErase          = "selection.erase"
)

// Drag gesture ops; gesture.start snapshots the transform cache, the others
// re-apply against it.
const (
	OpGestureStart      = "gesture.start"
	OpGestureTranslate  = "gesture.translate"
	OpGestureRotate     = "gesture.rotate"
	OpGestureScale      = "gesture.scale"
	OpGestureMirror     = "gesture.mirror"
	OpGestureFlatten    = "gesture.flatten"
	OpGestureScaleToFit = "gesture.scale_to_fit"
)

// Clipboard and history ops.
const (
	OpClipboardCopy  = "clipboard.copy"
	OpClipboardPaste = "clipboard.paste"
	OpPlateUndo      = "plate.undo"
	OpPlateRedo      = "plate.redo"
)

// Operation is one document or selection mutation submitted by a client.
// Field presence depends on Type; pointer fields distinguish absent from
// zero.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// Selection membership targets
	VolumeIdx   *int `json:"volumeIdx,omitempty"`
	ObjectIdx   *int `json:"objectIdx,omitempty"`
	InstanceIdx *int `json:"instanceIdx,omitempty"`
	AsSingle    bool `json:"asSingle,omitempty"`

	// Gesture parameters
	Displacement  *geometry.Vec3 `json:"displacement,omitempty"`
	Local         bool           `json:"local,omitempty"`
	Rotation      *geometry.Vec3 `json:"rotation,omitempty"`
	Scale         *geometry.Vec3 `json:"scale,omitempty"`
	Normal        *geometry.Vec3 `json:"normal,omitempty"`
	TransformType *int           `json:"transformType,omitempty"`
	Axis          *int           `json:"axis,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// DocSyncPayload carries the full authoritative document plus the shared
// selection state.
type DocSyncPayload struct {
	Document  json.RawMessage `json:"document"`
	ServerSeq int64           `json:"serverSeq"`
}
