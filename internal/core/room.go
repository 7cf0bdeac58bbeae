package core

import (
	"encoding/json"
	"time"
)

// Settings is the room's feature toggles.
type Settings struct {
	ChatEnabled        bool `json:"chatEnabled"`
	ScreenShareEnabled bool `json:"screenShareEnabled"`
	CodeExecEnabled    bool `json:"codeExecEnabled"`
}

func defaultSettings() Settings {
	return Settings{
		ChatEnabled:        true,
		ScreenShareEnabled: true,
		CodeExecEnabled:    true,
	}
}

// CursorState is one endpoint's cursor and selection, opaque blobs.
type CursorState struct {
	Cursor    json.RawMessage `json:"cursor,omitempty"`
	Selection json.RawMessage `json:"selection,omitempty"`
}

// CodeState is the room's shared editor state. Last writer wins: the
// expected cardinality is one active typist at a time.
type CodeState struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Cursors  map[string]CursorState `json:"cursors"`
}

// ScreenShareInfo describes one endpoint's active screen share.
type ScreenShareInfo struct {
	StreamID  string    `json:"streamId"`
	StartedAt time.Time `json:"startedAt"`
}

type member struct {
	client      *Client
	participant *Participant
}

// Room is the unit of isolation for a single interview's realtime state.
// All access happens on the hub goroutine; no locking needed.
type Room struct {
	ID           string
	order        []string // endpoint ids in join order
	members      map[string]*member
	code         CodeState
	strokes      []json.RawMessage
	screenShares map[string]ScreenShareInfo
	settings     Settings
}

// NewRoom constructs an empty room.
func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		members:      make(map[string]*member),
		code:         CodeState{Cursors: make(map[string]CursorState)},
		strokes:      make([]json.RawMessage, 0),
		screenShares: make(map[string]ScreenShareInfo),
		settings:     defaultSettings(),
	}
}

// Add inserts or replaces a participant. Join order is preserved for
// returning snapshots.
func (r *Room) Add(c *Client, p *Participant) {
	if _, exists := r.members[c.ID]; !exists {
		r.order = append(r.order, c.ID)
	}
	r.members[c.ID] = &member{client: c, participant: p}
}

// Remove deletes a participant and any associated screen share.
// Returns true if the endpoint was a member.
func (r *Room) Remove(endpoint string) bool {
	if _, exists := r.members[endpoint]; !exists {
		return false
	}
	delete(r.members, endpoint)
	delete(r.screenShares, endpoint)
	delete(r.code.Cursors, endpoint)
	for i, id := range r.order {
		if id == endpoint {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Member returns the participant for an endpoint, if present.
func (r *Room) Member(endpoint string) (*Participant, bool) {
	m, ok := r.members[endpoint]
	if !ok {
		return nil, false
	}
	return m.participant, true
}

// Broadcast sends an event to all members except skip (empty = everyone).
func (r *Room) Broadcast(skip string, event *Event) {
	for _, id := range r.order {
		if id == skip {
			continue
		}
		send(r.members[id].client, event)
	}
}

// Empty returns true if no participants remain.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// RoomSnapshot is the point-in-time state handed to a new joiner so it
// can render everything that already exists without waiting for deltas.
type RoomSnapshot struct {
	RoomID       string
	Participants []Participant
	Code         CodeState
	Strokes      []json.RawMessage
	ScreenShares map[string]ScreenShareInfo
	Settings     Settings
}

// Snapshot copies the room's current state.
func (r *Room) Snapshot() *RoomSnapshot {
	snap := &RoomSnapshot{
		RoomID:       r.ID,
		Participants: make([]Participant, 0, len(r.order)),
		Code: CodeState{
			Text:     r.code.Text,
			Language: r.code.Language,
			Cursors:  make(map[string]CursorState, len(r.code.Cursors)),
		},
		Strokes:      make([]json.RawMessage, len(r.strokes)),
		ScreenShares: make(map[string]ScreenShareInfo, len(r.screenShares)),
		Settings:     r.settings,
	}
	for _, id := range r.order {
		snap.Participants = append(snap.Participants, *r.members[id].participant)
	}
	for id, cur := range r.code.Cursors {
		snap.Code.Cursors[id] = cur
	}
	copy(snap.Strokes, r.strokes)
	for id, info := range r.screenShares {
		snap.ScreenShares[id] = info
	}
	return snap
}

// send delivers an event to one client, dropping if the consumer is slow.
func send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		// Drop if slow consumer.
	}
}
