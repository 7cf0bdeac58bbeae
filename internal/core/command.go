package core

import "encoding/json"

// CommandKind describes what the endpoint wants to do.
type CommandKind int

const (
	// CommandJoinRoom enters a room, creating it on demand.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom exits the current room.
	CommandLeaveRoom
	// CommandEndRoom signals the interview is over; the room is torn
	// down after a grace period.
	CommandEndRoom
	// CommandSignal relays a media-negotiation blob to a named endpoint.
	CommandSignal
	// CommandCodeUpdate replaces the room's shared editor state.
	CommandCodeUpdate
	// CommandCursorUpdate updates only the sender's cursor/selection.
	CommandCursorUpdate
	// CommandWhiteboardDraw appends a stroke to the room's board.
	CommandWhiteboardDraw
	// CommandWhiteboardClear resets the room's board.
	CommandWhiteboardClear
	// CommandRegisterSecondary binds a pairing code to the caller.
	CommandRegisterSecondary
	// CommandConnectSecondary attaches a secondary device by code.
	CommandConnectSecondary
	// CommandSecondarySnapshot relays a captured frame by code.
	CommandSecondarySnapshot
	// CommandSubscribeDashboard adds the endpoint to the monitoring group.
	CommandSubscribeDashboard
	// CommandCameraUpdate toggles one of the sender's cameras.
	CommandCameraUpdate
	// CommandScreenShareStart publishes a screen-share stream.
	CommandScreenShareStart
	// CommandScreenShareStop withdraws the sender's screen share.
	CommandScreenShareStop
	// CommandChatMessage sends a chat line to the room.
	CommandChatMessage

	// Internal kinds, never produced by the transport mapper.
	commandAttach
	commandDetach
	commandTeardown
	commandAlert
)

// SignalKind names the negotiation message being relayed. The payload
// itself is opaque to the coordinator.
type SignalKind string

const (
	SignalOffer  SignalKind = "offer"
	SignalAnswer SignalKind = "answer"
	SignalICE    SignalKind = "ice"
)

// StreamRole tags multi-stream signaling variants. Empty means the
// single-stream variant.
type StreamRole string

const (
	StreamPrimary   StreamRole = "primary"
	StreamSecondary StreamRole = "secondary"
	StreamScreen    StreamRole = "screen"
)

// SignalPayload addresses an opaque negotiation blob to an endpoint.
type SignalPayload struct {
	Kind       SignalKind
	Target     string
	StreamRole StreamRole
	Payload    json.RawMessage
}

// CodePayload carries shared-editor state. Cursor and Selection are
// opaque to the coordinator; only the client renders them.
type CodePayload struct {
	Text      string
	Language  string
	Cursor    json.RawMessage
	Selection json.RawMessage
}

// PairingPayload carries pairing-code operations.
type PairingPayload struct {
	Code   string
	Status json.RawMessage
	Image  string
}

// CameraPayload toggles one camera of the sender.
type CameraPayload struct {
	Kind     CameraKind
	Enabled  bool
	StreamID string
}

// Command represents an action requested by an endpoint.
type Command struct {
	Kind        CommandKind
	Room        string
	Participant *Participant
	Signal      *SignalPayload
	Code        *CodePayload
	Stroke      json.RawMessage
	Pairing     *PairingPayload
	Camera      *CameraPayload
	StreamID    string
	Text        string
	Alert       *ProctoringAlert
}
