package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SessionTracker is notified of room membership changes so the session
// lifecycle can advance. Implemented by the session service.
type SessionTracker interface {
	MarkJoined(ctx context.Context, sessionID, role string) error
	MarkLeft(ctx context.Context, sessionID, role string) error
	Complete(ctx context.Context, sessionID string) error
}

// Pairing links a short code to a room and its primary endpoint, later
// enriched with the paired secondary endpoint.
type Pairing struct {
	Code      string
	Room      string
	Primary   string
	Secondary string
}

type request struct {
	client *Client
	cmd    *Command
}

// Hub is the coordinator: it owns all rooms, pairings and dashboard
// membership, and mutates them from a single goroutine. Every handler
// runs to completion before the next queued request, so no two
// mutations ever interleave.
type Hub struct {
	queue     chan request
	rooms     map[string]*Room
	clients   map[string]*Client
	pairings  map[string]*Pairing
	dashboard map[string]*Client
	teardowns map[string]*time.Timer
	grace     time.Duration
	sessions  SessionTracker
	drops     map[string]uint64
	log       *zerolog.Logger
}

// NewHub creates the coordinator. sessions may be nil (no lifecycle
// tracking); grace <= 0 falls back to 30 seconds.
func NewHub(sessions SessionTracker, grace time.Duration, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if grace <= 0 {
		grace = 30 * time.Second
	}
	return &Hub{
		queue:     make(chan request, 256),
		rooms:     make(map[string]*Room),
		clients:   make(map[string]*Client),
		pairings:  make(map[string]*Pairing),
		dashboard: make(map[string]*Client),
		teardowns: make(map[string]*time.Timer),
		grace:     grace,
		sessions:  sessions,
		drops:     make(map[string]uint64),
		log:       logger,
	}
}

// RegisterClient attaches a client and starts pumping its commands into
// the hub queue, preserving per-sender FIFO order.
func (h *Hub) RegisterClient(c *Client) {
	h.queue <- request{client: c, cmd: &Command{Kind: commandAttach}}
	go func() {
		for cmd := range c.Commands {
			h.queue <- request{client: c, cmd: cmd}
		}
		// Channel closed: detach strictly after all queued commands.
		h.queue <- request{client: c, cmd: &Command{Kind: commandDetach}}
	}()
}

// UnregisterClient detaches a client. Call once, after the transport
// loops have exited; disconnection is the only cancellation signal.
func (h *Hub) UnregisterClient(c *Client) {
	close(c.Commands)
}

// NotifyProctoring fans a recorded integrity event out to the dashboard
// group and the session's room. Safe to call from any goroutine.
func (h *Hub) NotifyProctoring(a ProctoringAlert) {
	h.queue <- request{cmd: &Command{Kind: commandAlert, Alert: &a}}
}

// Run processes requests until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.queue:
			h.dispatch(ctx, req)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, req request) {
	c, cmd := req.client, req.cmd
	switch cmd.Kind {
	case commandAttach:
		h.clients[c.ID] = c
	case commandDetach:
		h.handleDetach(ctx, c)
	case commandTeardown:
		h.handleTeardown(cmd.Room)
	case commandAlert:
		h.handleAlert(cmd.Alert)
	case CommandJoinRoom:
		h.handleJoin(ctx, c, cmd)
	case CommandLeaveRoom:
		h.handleLeave(ctx, c)
	case CommandEndRoom:
		h.handleEnd(ctx, c, cmd)
	case CommandSignal:
		h.handleSignal(c, cmd)
	case CommandCodeUpdate:
		h.handleCodeUpdate(c, cmd)
	case CommandCursorUpdate:
		h.handleCursorUpdate(c, cmd)
	case CommandWhiteboardDraw:
		h.handleWhiteboardDraw(c, cmd)
	case CommandWhiteboardClear:
		h.handleWhiteboardClear(c, cmd)
	case CommandRegisterSecondary:
		h.handleRegisterSecondary(c, cmd)
	case CommandConnectSecondary:
		h.handleConnectSecondary(c, cmd)
	case CommandSecondarySnapshot:
		h.handleSecondarySnapshot(c, cmd)
	case CommandSubscribeDashboard:
		c.dashboard = true
		h.dashboard[c.ID] = c
	case CommandCameraUpdate:
		h.handleCameraUpdate(c, cmd)
	case CommandScreenShareStart:
		h.handleScreenShareStart(c, cmd)
	case CommandScreenShareStop:
		h.handleScreenShareStop(c)
	case CommandChatMessage:
		h.handleChat(c, cmd)
	}
}

// drop records a silently ignored push operation. The wire contract
// stays "no error back", but the reason is observable.
func (h *Hub) drop(reason string) {
	h.drops[reason]++
	h.log.Debug().Str("reason", reason).Uint64("count", h.drops[reason]).Msg("dropped push message")
}

// reply sends an event back to the requesting client if it is still
// attached. Commands can outlive their sender in the queue.
func (h *Hub) reply(c *Client, event *Event) {
	if current, ok := h.clients[c.ID]; ok && current == c {
		send(c, event)
	}
}

func (h *Hub) dashboardBroadcast(event *Event) {
	for _, c := range h.dashboard {
		send(c, event)
	}
}

func (h *Hub) getOrCreateRoom(id string) *Room {
	if room, ok := h.rooms[id]; ok {
		return room
	}
	room := NewRoom(id)
	h.rooms[id] = room
	h.log.Info().Str("room_id", id).Msg("room created")
	return room
}

func (h *Hub) handleJoin(ctx context.Context, c *Client, cmd *Command) {
	p := cmd.Participant
	if p == nil || cmd.Room == "" {
		h.reply(c, &Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "join requires room and participant")})
		return
	}
	if !ValidRole(p.Role) {
		h.reply(c, &Event{Kind: EventError, Error: coreError(ErrCodeInvalidRole, "unknown role")})
		return
	}
	p.Endpoint = c.ID
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	if p.Cameras == nil {
		p.Cameras = make(map[CameraKind]CameraState)
	}

	// Switching rooms implies leaving the previous one.
	if c.room != "" && c.room != cmd.Room {
		h.handleLeave(ctx, c)
	}

	// A rejoin cancels any pending teardown.
	if timer, ok := h.teardowns[cmd.Room]; ok {
		timer.Stop()
		delete(h.teardowns, cmd.Room)
	}

	room := h.getOrCreateRoom(cmd.Room)
	room.Add(c, p)
	c.room = cmd.Room

	// Snapshot-on-join: the new endpoint renders existing state without
	// waiting for individual deltas.
	h.reply(c, &Event{Kind: EventRoomState, Room: room.ID, Snapshot: room.Snapshot()})

	joined := &Event{Kind: EventParticipantJoined, Room: room.ID, From: c.ID, Participant: p}
	room.Broadcast(c.ID, joined)
	h.dashboardBroadcast(joined)

	if h.sessions != nil {
		if err := h.sessions.MarkJoined(ctx, room.ID, string(p.Role)); err != nil {
			h.log.Warn().Err(err).Str("room_id", room.ID).Msg("session join tracking failed")
		}
	}
	h.log.Debug().Str("room_id", room.ID).Str("endpoint", c.ID).Str("role", string(p.Role)).Msg("participant joined")
}

func (h *Hub) handleLeave(ctx context.Context, c *Client) {
	if c.room == "" {
		h.drop("leave_without_room")
		return
	}
	room, ok := h.rooms[c.room]
	if !ok {
		c.room = ""
		h.drop("leave_room_gone")
		return
	}

	p, _ := room.Member(c.ID)
	room.Remove(c.ID)
	c.room = ""

	left := &Event{Kind: EventParticipantLeft, Room: room.ID, From: c.ID, Participant: p}
	room.Broadcast("", left)
	h.dashboardBroadcast(left)

	if h.sessions != nil && p != nil {
		if err := h.sessions.MarkLeft(ctx, room.ID, string(p.Role)); err != nil {
			h.log.Warn().Err(err).Str("room_id", room.ID).Msg("session leave tracking failed")
		}
	}
	// Empty rooms linger: late reconnections are supported until the
	// end-of-interview teardown fires.
}

func (h *Hub) handleEnd(ctx context.Context, c *Client, cmd *Command) {
	roomID := cmd.Room
	if roomID == "" {
		roomID = c.room
	}
	room, ok := h.rooms[roomID]
	if !ok {
		h.drop("end_room_gone")
		return
	}

	if h.sessions != nil {
		if err := h.sessions.Complete(ctx, roomID); err != nil {
			h.log.Warn().Err(err).Str("room_id", roomID).Msg("session completion failed")
		}
	}

	ended := &Event{Kind: EventRoomEnded, Room: roomID, From: c.ID}
	room.Broadcast("", ended)
	h.dashboardBroadcast(ended)

	// Grace period for late stragglers before state is torn down.
	if timer, ok := h.teardowns[roomID]; ok {
		timer.Stop()
	}
	h.teardowns[roomID] = time.AfterFunc(h.grace, func() {
		h.queue <- request{cmd: &Command{Kind: commandTeardown, Room: roomID}}
	})
	h.log.Info().Str("room_id", roomID).Dur("grace", h.grace).Msg("room end scheduled")
}

func (h *Hub) handleTeardown(roomID string) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for _, m := range room.members {
		m.client.room = ""
	}
	delete(h.rooms, roomID)
	delete(h.teardowns, roomID)
	for code, p := range h.pairings {
		if p.Room == roomID {
			delete(h.pairings, code)
		}
	}
	h.log.Info().Str("room_id", roomID).Msg("room torn down")
}

func (h *Hub) handleAlert(a *ProctoringAlert) {
	event := &Event{Kind: EventProctoringAlert, Room: a.SessionID, Alert: a}
	h.dashboardBroadcast(event)
	if room, ok := h.rooms[a.SessionID]; ok {
		room.Broadcast("", event)
	}
}

func (h *Hub) handleSignal(c *Client, cmd *Command) {
	if cmd.Signal == nil || cmd.Signal.Target == "" {
		h.drop("signal_unaddressed")
		return
	}
	target, ok := h.clients[cmd.Signal.Target]
	if !ok {
		// Signaling protocols above this layer tolerate loss and retry
		// via renegotiation.
		h.drop("signal_target_gone")
		return
	}
	send(target, &Event{Kind: EventSignal, Room: c.room, From: c.ID, Signal: cmd.Signal})
}

func (h *Hub) handleCodeUpdate(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		// The room may already be torn down by the end-of-interview
		// grace timer.
		h.drop("code_update_room_gone")
		return
	}
	if cmd.Code == nil {
		h.drop("code_update_empty")
		return
	}
	room.code.Text = cmd.Code.Text
	room.code.Language = cmd.Code.Language
	room.code.Cursors[c.ID] = CursorState{Cursor: cmd.Code.Cursor, Selection: cmd.Code.Selection}
	room.Broadcast(c.ID, &Event{Kind: EventCodeUpdated, Room: room.ID, From: c.ID, Code: cmd.Code})
}

func (h *Hub) handleCursorUpdate(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.drop("cursor_update_room_gone")
		return
	}
	if cmd.Code == nil {
		h.drop("cursor_update_empty")
		return
	}
	room.code.Cursors[c.ID] = CursorState{Cursor: cmd.Code.Cursor, Selection: cmd.Code.Selection}
	room.Broadcast(c.ID, &Event{Kind: EventCursorUpdated, Room: room.ID, From: c.ID, Code: cmd.Code})
}

func (h *Hub) handleWhiteboardDraw(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.drop("whiteboard_room_gone")
		return
	}
	room.strokes = append(room.strokes, cmd.Stroke)
	room.Broadcast(c.ID, &Event{Kind: EventWhiteboardDraw, Room: room.ID, From: c.ID, Stroke: cmd.Stroke})
}

func (h *Hub) handleWhiteboardClear(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.drop("whiteboard_room_gone")
		return
	}
	room.strokes = room.strokes[:0]
	room.Broadcast(c.ID, &Event{Kind: EventWhiteboardClear, Room: room.ID, From: c.ID})
}

func (h *Hub) handleRegisterSecondary(c *Client, cmd *Command) {
	if cmd.Pairing == nil || cmd.Pairing.Code == "" || cmd.Room == "" {
		h.drop("pairing_register_invalid")
		return
	}
	// Collision handling is overwrite; callers regenerate codes when in
	// doubt. Pairings die with their room.
	h.pairings[cmd.Pairing.Code] = &Pairing{
		Code:    cmd.Pairing.Code,
		Room:    cmd.Room,
		Primary: c.ID,
	}
	h.log.Debug().Str("room_id", cmd.Room).Str("code", cmd.Pairing.Code).Msg("pairing registered")
}

func (h *Hub) handleConnectSecondary(c *Client, cmd *Command) {
	if cmd.Pairing == nil {
		h.drop("pairing_connect_invalid")
		return
	}
	pairing, ok := h.pairings[cmd.Pairing.Code]
	if !ok {
		h.drop("pairing_code_unknown")
		return
	}
	pairing.Secondary = c.ID
	primary, ok := h.clients[pairing.Primary]
	if !ok {
		h.drop("pairing_primary_gone")
		return
	}
	send(primary, &Event{
		Kind:    EventSecondaryConnected,
		Room:    pairing.Room,
		From:    c.ID,
		Pairing: &PairingEvent{Code: pairing.Code, Status: cmd.Pairing.Status},
	})
}

func (h *Hub) handleSecondarySnapshot(c *Client, cmd *Command) {
	if cmd.Pairing == nil {
		h.drop("pairing_snapshot_invalid")
		return
	}
	pairing, ok := h.pairings[cmd.Pairing.Code]
	if !ok {
		h.drop("pairing_code_unknown")
		return
	}

	event := &Event{
		Kind:    EventSecondarySnapshot,
		Room:    pairing.Room,
		From:    c.ID,
		Pairing: &PairingEvent{Code: pairing.Code, Image: cmd.Pairing.Image},
	}
	if primary, ok := h.clients[pairing.Primary]; ok {
		send(primary, event)
	}
	if room, ok := h.rooms[pairing.Room]; ok {
		room.Broadcast(c.ID, event)
	}

	// A frame sender is a participant device, not a dashboard viewer.
	if c.dashboard {
		c.dashboard = false
		delete(h.dashboard, c.ID)
	}
}

func (h *Hub) handleCameraUpdate(c *Client, cmd *Command) {
	if cmd.Camera == nil {
		h.drop("camera_update_empty")
		return
	}
	roomID := cmd.Room
	if roomID == "" {
		roomID = c.room
	}
	room, ok := h.rooms[roomID]
	if !ok {
		h.drop("camera_update_room_gone")
		return
	}
	p, ok := room.Member(c.ID)
	if !ok {
		h.reply(c, &Event{Kind: EventError, Error: coreError(ErrCodeNotInRoom, "not in room")})
		return
	}
	p.Cameras[cmd.Camera.Kind] = CameraState{Enabled: cmd.Camera.Enabled, StreamID: cmd.Camera.StreamID}
	room.Broadcast(c.ID, &Event{Kind: EventCameraUpdated, Room: room.ID, From: c.ID, Camera: cmd.Camera})
}

func (h *Hub) handleScreenShareStart(c *Client, cmd *Command) {
	room, ok := h.rooms[c.room]
	if !ok {
		h.drop("screen_share_room_gone")
		return
	}
	if !room.settings.ScreenShareEnabled {
		h.drop("screen_share_disabled")
		return
	}
	room.screenShares[c.ID] = ScreenShareInfo{StreamID: cmd.StreamID, StartedAt: time.Now()}
	room.Broadcast(c.ID, &Event{Kind: EventScreenShareStarted, Room: room.ID, From: c.ID, StreamID: cmd.StreamID})
}

func (h *Hub) handleScreenShareStop(c *Client) {
	room, ok := h.rooms[c.room]
	if !ok {
		h.drop("screen_share_room_gone")
		return
	}
	delete(room.screenShares, c.ID)
	room.Broadcast(c.ID, &Event{Kind: EventScreenShareStopped, Room: room.ID, From: c.ID})
}

func (h *Hub) handleChat(c *Client, cmd *Command) {
	roomID := cmd.Room
	if roomID == "" {
		roomID = c.room
	}
	room, ok := h.rooms[roomID]
	if !ok {
		h.drop("chat_room_gone")
		return
	}
	if !room.settings.ChatEnabled {
		h.drop("chat_disabled")
		return
	}
	// Chat echoes to everyone including the sender, as delivery receipt.
	room.Broadcast("", &Event{Kind: EventChatMessage, Room: room.ID, From: c.ID, Text: cmd.Text})
}

func (h *Hub) handleDetach(ctx context.Context, c *Client) {
	if c.room != "" {
		h.handleLeave(ctx, c)
	}
	if c.dashboard {
		delete(h.dashboard, c.ID)
	}
	if current, ok := h.clients[c.ID]; ok && current == c {
		delete(h.clients, c.ID)
	}
	close(c.Events)
}
