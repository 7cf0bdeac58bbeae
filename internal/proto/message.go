package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom          = "join-room"
	InboundTypeLeaveRoom         = "leave-room"
	InboundTypeEndRoom           = "end-room"
	InboundTypeSignalOffer       = "signal-offer"
	InboundTypeSignalAnswer      = "signal-answer"
	InboundTypeSignalICE         = "signal-ice"
	InboundTypeCodeUpdate        = "code-update"
	InboundTypeCursorUpdate      = "cursor-update"
	InboundTypeWhiteboardDraw    = "whiteboard-draw"
	InboundTypeWhiteboardClear   = "whiteboard-clear"
	InboundTypeRegisterSecondary = "register-secondary"
	InboundTypeConnectSecondary  = "connect-secondary"
	InboundTypeSecondarySnapshot = "secondary-snapshot"
	InboundTypeSubscribeDash     = "subscribe-dashboard"
	InboundTypeCameraUpdate      = "camera-update"
	InboundTypeScreenShareStart  = "screen-share-start"
	InboundTypeScreenShareStop   = "screen-share-stop"
	InboundTypeChatMessage       = "chat-message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// CameraState mirrors one camera's enablement on the wire.
type CameraState struct {
	Enabled  bool   `json:"enabled"`
	StreamID string `json:"streamId,omitempty"`
}

// JoinRoomData enters a room.
type JoinRoomData struct {
	RoomID        string                 `json:"roomId"`
	ParticipantID string                 `json:"participantId"`
	Name          string                 `json:"name"`
	Role          string                 `json:"role"`
	Cameras       map[string]CameraState `json:"cameras,omitempty"`
}

// RoomRefData carries only a room reference (leave-room, end-room,
// whiteboard-clear, screen-share-stop).
type RoomRefData struct {
	RoomID string `json:"roomId"`
}

// SignalData addresses an opaque negotiation payload to an endpoint.
type SignalData struct {
	Target     string          `json:"target"`
	Payload    json.RawMessage `json:"payload"`
	StreamRole string          `json:"streamRole,omitempty"`
}

// CodeUpdateData replaces the room's shared editor state.
type CodeUpdateData struct {
	RoomID    string          `json:"roomId"`
	Code      string          `json:"code"`
	Language  string          `json:"language"`
	Cursor    json.RawMessage `json:"cursor,omitempty"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

// CursorUpdateData moves only the sender's cursor/selection.
type CursorUpdateData struct {
	RoomID    string          `json:"roomId"`
	Cursor    json.RawMessage `json:"cursor,omitempty"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

// WhiteboardDrawData appends a stroke.
type WhiteboardDrawData struct {
	RoomID string          `json:"roomId"`
	Stroke json.RawMessage `json:"strokeData"`
}

// RegisterSecondaryData binds a pairing code to the caller's room.
type RegisterSecondaryData struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// ConnectSecondaryData attaches a secondary capture device.
type ConnectSecondaryData struct {
	Code   string          `json:"code"`
	Status json.RawMessage `json:"status,omitempty"`
}

// SecondarySnapshotData relays a captured frame.
type SecondarySnapshotData struct {
	Code  string `json:"code"`
	Image string `json:"image"`
}

// CameraUpdateData toggles one of the sender's cameras.
type CameraUpdateData struct {
	RoomID   string `json:"roomId"`
	Camera   string `json:"camera"`
	Enabled  bool   `json:"enabled"`
	StreamID string `json:"streamId,omitempty"`
}

// ScreenShareStartData publishes a screen-share stream.
type ScreenShareStartData struct {
	RoomID   string `json:"roomId"`
	StreamID string `json:"streamId"`
}

// ChatMessageData sends a chat line to the room.
type ChatMessageData struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ParticipantData describes one participant on the wire.
type ParticipantData struct {
	Endpoint string                 `json:"endpoint"`
	UserID   string                 `json:"userId"`
	Name     string                 `json:"name"`
	Role     string                 `json:"role"`
	Cameras  map[string]CameraState `json:"cameras,omitempty"`
	JoinedAt int64                  `json:"joinedAt"`
}

// CursorData is one endpoint's cursor/selection.
type CursorData struct {
	Cursor    json.RawMessage `json:"cursor,omitempty"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

// CodeStateData is the shared editor state inside a snapshot.
type CodeStateData struct {
	Text     string                `json:"text"`
	Language string                `json:"language"`
	Cursors  map[string]CursorData `json:"cursors"`
}

// ScreenShareData describes one active screen share.
type ScreenShareData struct {
	StreamID  string `json:"streamId"`
	StartedAt int64  `json:"startedAt"`
}

// SettingsData mirrors the room's feature toggles.
type SettingsData struct {
	ChatEnabled        bool `json:"chatEnabled"`
	ScreenShareEnabled bool `json:"screenShareEnabled"`
	CodeExecEnabled    bool `json:"codeExecEnabled"`
}

// RoomStateData is the full snapshot delivered on join.
type RoomStateData struct {
	RoomID       string                     `json:"roomId"`
	Participants []ParticipantData          `json:"participants"`
	Code         CodeStateData              `json:"code"`
	Strokes      []json.RawMessage          `json:"strokes"`
	ScreenShares map[string]ScreenShareData `json:"screenShares"`
	Settings     SettingsData               `json:"settings"`
}

// EventParticipant notifies about a join or leave.
type EventParticipant struct {
	RoomID      string           `json:"roomId"`
	Participant *ParticipantData `json:"participant,omitempty"`
}

// EventRoomEnded notifies that the interview ended.
type EventRoomEnded struct {
	RoomID string `json:"roomId"`
}

// EventSignal delivers a relayed negotiation payload.
type EventSignal struct {
	From       string          `json:"from"`
	Kind       string          `json:"kind"`
	StreamRole string          `json:"streamRole,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// EventCodeUpdate delivers a shared-editor change.
type EventCodeUpdate struct {
	RoomID    string          `json:"roomId"`
	From      string          `json:"from"`
	Code      string          `json:"code,omitempty"`
	Language  string          `json:"language,omitempty"`
	Cursor    json.RawMessage `json:"cursor,omitempty"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

// EventWhiteboard delivers a stroke or a clear.
type EventWhiteboard struct {
	RoomID string          `json:"roomId"`
	From   string          `json:"from"`
	Stroke json.RawMessage `json:"strokeData,omitempty"`
}

// EventSecondaryConnected confirms pairing to the primary device.
type EventSecondaryConnected struct {
	Code     string          `json:"code"`
	Endpoint string          `json:"endpoint"`
	Status   json.RawMessage `json:"status,omitempty"`
}

// EventSecondarySnapshot delivers a captured frame.
type EventSecondarySnapshot struct {
	Code  string `json:"code"`
	From  string `json:"from"`
	Image string `json:"image"`
}

// EventCameraUpdate notifies about a camera toggle.
type EventCameraUpdate struct {
	RoomID   string `json:"roomId"`
	From     string `json:"from"`
	Camera   string `json:"camera"`
	Enabled  bool   `json:"enabled"`
	StreamID string `json:"streamId,omitempty"`
}

// EventScreenShare notifies about a screen-share start or stop.
type EventScreenShare struct {
	RoomID   string `json:"roomId"`
	From     string `json:"from"`
	StreamID string `json:"streamId,omitempty"`
}

// EventChatMessage delivers a chat line.
type EventChatMessage struct {
	RoomID string `json:"roomId"`
	From   string `json:"from"`
	Text   string `json:"text"`
}

// EventProctoringAlert notifies monitoring endpoints about a recorded
// integrity event.
type EventProctoringAlert struct {
	SessionID string `json:"sessionId"`
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Severity  string `json:"severity"`
	Detail    string `json:"detail,omitempty"`
	Score     int    `json:"score"`
	TS        int64  `json:"ts"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
