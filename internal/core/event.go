package core

import (
	"encoding/json"
	"time"
)

// EventKind is a notification the coordinator emits to endpoints.
type EventKind int

const (
	// EventRoomState delivers the full room snapshot to a new joiner.
	EventRoomState EventKind = iota
	// EventParticipantJoined notifies the room about a new participant.
	EventParticipantJoined
	// EventParticipantLeft notifies the room about a departure.
	EventParticipantLeft
	// EventRoomEnded notifies that the interview was ended.
	EventRoomEnded
	// EventSignal delivers a relayed negotiation blob.
	EventSignal
	// EventCodeUpdated delivers a shared-editor replacement.
	EventCodeUpdated
	// EventCursorUpdated delivers a cursor/selection move.
	EventCursorUpdated
	// EventWhiteboardDraw delivers an appended stroke.
	EventWhiteboardDraw
	// EventWhiteboardClear notifies that the board was reset.
	EventWhiteboardClear
	// EventSecondaryConnected confirms pairing to the primary device.
	EventSecondaryConnected
	// EventSecondarySnapshot delivers a frame from a secondary device.
	EventSecondarySnapshot
	// EventCameraUpdated notifies about a camera toggle.
	EventCameraUpdated
	// EventScreenShareStarted notifies about a new screen share.
	EventScreenShareStarted
	// EventScreenShareStopped notifies a screen share ended.
	EventScreenShareStopped
	// EventChatMessage delivers a chat line.
	EventChatMessage
	// EventProctoringAlert notifies monitoring endpoints about a
	// recorded integrity event.
	EventProctoringAlert
	// EventError notifies the sender about a rejected command.
	EventError
)

// PairingEvent carries pairing notifications.
type PairingEvent struct {
	Code   string
	Status json.RawMessage
	Image  string
}

// ProctoringAlert is the hub-side projection of a recorded integrity
// event, fanned out to the dashboard group.
type ProctoringAlert struct {
	SessionID string
	EventID   string
	Type      string
	Severity  string
	Detail    string
	Score     int
	At        time.Time
}

// Event is sent to endpoints to describe what happened.
type Event struct {
	Kind        EventKind
	Room        string
	From        string // endpoint id of the originator, if any
	Snapshot    *RoomSnapshot
	Participant *Participant
	Signal      *SignalPayload
	Code        *CodePayload
	Stroke      json.RawMessage
	Pairing     *PairingEvent
	Camera      *CameraPayload
	StreamID    string
	Text        string
	Alert       *ProctoringAlert
	Error       *CoreError
}
