package http

import (
	"encoding/json"

	"github.com/hireloop/interview-server/internal/core"
	"github.com/hireloop/interview-server/internal/proto"
)

// inboundToCommand validates an inbound envelope and maps it onto a core
// command. A non-nil proto.Error means the envelope was recognized but
// rejected; a non-nil error means it could not be decoded at all.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		role, ok := core.ParseRole(join.Role)
		if !ok {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRole, Msg: "unknown role"}, nil
		}
		cameras := make(map[core.CameraKind]core.CameraState, len(join.Cameras))
		for kind, state := range join.Cameras {
			cameras[core.CameraKind(kind)] = core.CameraState(state)
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: join.RoomID,
			Participant: &core.Participant{
				UserID:  join.ParticipantID,
				Name:    join.Name,
				Role:    role,
				Cameras: cameras,
			},
		}, nil, nil

	case proto.InboundTypeLeaveRoom:
		var leave proto.RoomRefData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: leave.RoomID}, nil, nil

	case proto.InboundTypeEndRoom:
		var end proto.RoomRefData
		if err := json.Unmarshal(inbound.Data, &end); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandEndRoom, Room: end.RoomID}, nil, nil

	case proto.InboundTypeSignalOffer, proto.InboundTypeSignalAnswer, proto.InboundTypeSignalICE:
		var sig proto.SignalData
		if err := json.Unmarshal(inbound.Data, &sig); err != nil {
			return nil, nil, err
		}
		if sig.Target == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "target is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandSignal,
			Signal: &core.SignalPayload{
				Kind:       signalKind(inbound.Type),
				Target:     sig.Target,
				StreamRole: core.StreamRole(sig.StreamRole),
				Payload:    sig.Payload,
			},
		}, nil, nil

	case proto.InboundTypeCodeUpdate:
		var code proto.CodeUpdateData
		if err := json.Unmarshal(inbound.Data, &code); err != nil {
			return nil, nil, err
		}
		if code.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandCodeUpdate,
			Room: code.RoomID,
			Code: &core.CodePayload{
				Text:      code.Code,
				Language:  code.Language,
				Cursor:    code.Cursor,
				Selection: code.Selection,
			},
		}, nil, nil

	case proto.InboundTypeCursorUpdate:
		var cursor proto.CursorUpdateData
		if err := json.Unmarshal(inbound.Data, &cursor); err != nil {
			return nil, nil, err
		}
		if cursor.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandCursorUpdate,
			Room: cursor.RoomID,
			Code: &core.CodePayload{Cursor: cursor.Cursor, Selection: cursor.Selection},
		}, nil, nil

	case proto.InboundTypeWhiteboardDraw:
		var draw proto.WhiteboardDrawData
		if err := json.Unmarshal(inbound.Data, &draw); err != nil {
			return nil, nil, err
		}
		if draw.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{Kind: core.CommandWhiteboardDraw, Room: draw.RoomID, Stroke: draw.Stroke}, nil, nil

	case proto.InboundTypeWhiteboardClear:
		var clear proto.RoomRefData
		if err := json.Unmarshal(inbound.Data, &clear); err != nil {
			return nil, nil, err
		}
		if clear.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}, nil
		}
		return &core.Command{Kind: core.CommandWhiteboardClear, Room: clear.RoomID}, nil, nil

	case proto.InboundTypeRegisterSecondary:
		var reg proto.RegisterSecondaryData
		if err := json.Unmarshal(inbound.Data, &reg); err != nil {
			return nil, nil, err
		}
		if reg.RoomID == "" || reg.Code == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId and code are required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandRegisterSecondary,
			Room:    reg.RoomID,
			Pairing: &core.PairingPayload{Code: reg.Code},
		}, nil, nil

	case proto.InboundTypeConnectSecondary:
		var conn proto.ConnectSecondaryData
		if err := json.Unmarshal(inbound.Data, &conn); err != nil {
			return nil, nil, err
		}
		if conn.Code == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "code is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandConnectSecondary,
			Pairing: &core.PairingPayload{Code: conn.Code, Status: conn.Status},
		}, nil, nil

	case proto.InboundTypeSecondarySnapshot:
		var snap proto.SecondarySnapshotData
		if err := json.Unmarshal(inbound.Data, &snap); err != nil {
			return nil, nil, err
		}
		if snap.Code == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "code is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandSecondarySnapshot,
			Pairing: &core.PairingPayload{Code: snap.Code, Image: snap.Image},
		}, nil, nil

	case proto.InboundTypeSubscribeDash:
		return &core.Command{Kind: core.CommandSubscribeDashboard}, nil, nil

	case proto.InboundTypeCameraUpdate:
		var cam proto.CameraUpdateData
		if err := json.Unmarshal(inbound.Data, &cam); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandCameraUpdate,
			Room: cam.RoomID,
			Camera: &core.CameraPayload{
				Kind:     core.CameraKind(cam.Camera),
				Enabled:  cam.Enabled,
				StreamID: cam.StreamID,
			},
		}, nil, nil

	case proto.InboundTypeScreenShareStart:
		var share proto.ScreenShareStartData
		if err := json.Unmarshal(inbound.Data, &share); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandScreenShareStart, Room: share.RoomID, StreamID: share.StreamID}, nil, nil

	case proto.InboundTypeScreenShareStop:
		var stop proto.RoomRefData
		if err := json.Unmarshal(inbound.Data, &stop); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandScreenShareStop, Room: stop.RoomID}, nil, nil

	case proto.InboundTypeChatMessage:
		var chat proto.ChatMessageData
		if err := json.Unmarshal(inbound.Data, &chat); err != nil {
			return nil, nil, err
		}
		if chat.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "text is required"}, nil
		}
		return &core.Command{Kind: core.CommandChatMessage, Room: chat.RoomID, Text: chat.Text}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func signalKind(inboundType string) core.SignalKind {
	switch inboundType {
	case proto.InboundTypeSignalOffer:
		return core.SignalOffer
	case proto.InboundTypeSignalAnswer:
		return core.SignalAnswer
	default:
		return core.SignalICE
	}
}

func participantData(p *core.Participant) *proto.ParticipantData {
	if p == nil {
		return nil
	}
	cameras := make(map[string]proto.CameraState, len(p.Cameras))
	for kind, state := range p.Cameras {
		cameras[string(kind)] = proto.CameraState(state)
	}
	return &proto.ParticipantData{
		Endpoint: p.Endpoint,
		UserID:   p.UserID,
		Name:     p.Name,
		Role:     string(p.Role),
		Cameras:  cameras,
		JoinedAt: p.JoinedAt.Unix(),
	}
}

func roomStateData(snap *core.RoomSnapshot) proto.RoomStateData {
	data := proto.RoomStateData{
		RoomID:       snap.RoomID,
		Participants: make([]proto.ParticipantData, 0, len(snap.Participants)),
		Code: proto.CodeStateData{
			Text:     snap.Code.Text,
			Language: snap.Code.Language,
			Cursors:  make(map[string]proto.CursorData, len(snap.Code.Cursors)),
		},
		Strokes:      snap.Strokes,
		ScreenShares: make(map[string]proto.ScreenShareData, len(snap.ScreenShares)),
		Settings:     proto.SettingsData(snap.Settings),
	}
	for i := range snap.Participants {
		data.Participants = append(data.Participants, *participantData(&snap.Participants[i]))
	}
	for id, cur := range snap.Code.Cursors {
		data.Code.Cursors[id] = proto.CursorData(cur)
	}
	for id, info := range snap.ScreenShares {
		data.ScreenShares[id] = proto.ScreenShareData{StreamID: info.StreamID, StartedAt: info.StartedAt.Unix()}
	}
	return data
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomState:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "room-state", Data: roomStateData(event.Snapshot)}
	case core.EventParticipantJoined:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "participant-joined", Data: proto.EventParticipant{
			RoomID:      event.Room,
			Participant: participantData(event.Participant),
		}}
	case core.EventParticipantLeft:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "participant-left", Data: proto.EventParticipant{
			RoomID:      event.Room,
			Participant: participantData(event.Participant),
		}}
	case core.EventRoomEnded:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "room-ended", Data: proto.EventRoomEnded{RoomID: event.Room}}
	case core.EventSignal:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "signal", Data: proto.EventSignal{
			From:       event.From,
			Kind:       string(event.Signal.Kind),
			StreamRole: string(event.Signal.StreamRole),
			Payload:    event.Signal.Payload,
		}}
	case core.EventCodeUpdated:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "code-updated", Data: proto.EventCodeUpdate{
			RoomID:    event.Room,
			From:      event.From,
			Code:      event.Code.Text,
			Language:  event.Code.Language,
			Cursor:    event.Code.Cursor,
			Selection: event.Code.Selection,
		}}
	case core.EventCursorUpdated:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "cursor-updated", Data: proto.EventCodeUpdate{
			RoomID:    event.Room,
			From:      event.From,
			Cursor:    event.Code.Cursor,
			Selection: event.Code.Selection,
		}}
	case core.EventWhiteboardDraw:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "whiteboard-draw", Data: proto.EventWhiteboard{
			RoomID: event.Room,
			From:   event.From,
			Stroke: event.Stroke,
		}}
	case core.EventWhiteboardClear:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "whiteboard-clear", Data: proto.EventWhiteboard{
			RoomID: event.Room,
			From:   event.From,
		}}
	case core.EventSecondaryConnected:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "secondary-connected", Data: proto.EventSecondaryConnected{
			Code:     event.Pairing.Code,
			Endpoint: event.From,
			Status:   event.Pairing.Status,
		}}
	case core.EventSecondarySnapshot:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "secondary-snapshot", Data: proto.EventSecondarySnapshot{
			Code:  event.Pairing.Code,
			From:  event.From,
			Image: event.Pairing.Image,
		}}
	case core.EventCameraUpdated:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "camera-updated", Data: proto.EventCameraUpdate{
			RoomID:   event.Room,
			From:     event.From,
			Camera:   string(event.Camera.Kind),
			Enabled:  event.Camera.Enabled,
			StreamID: event.Camera.StreamID,
		}}
	case core.EventScreenShareStarted:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "screen-share-started", Data: proto.EventScreenShare{
			RoomID:   event.Room,
			From:     event.From,
			StreamID: event.StreamID,
		}}
	case core.EventScreenShareStopped:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "screen-share-stopped", Data: proto.EventScreenShare{
			RoomID: event.Room,
			From:   event.From,
		}}
	case core.EventChatMessage:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "chat-message", Data: proto.EventChatMessage{
			RoomID: event.Room,
			From:   event.From,
			Text:   event.Text,
		}}
	case core.EventProctoringAlert:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: "proctoring-alert", Data: proto.EventProctoringAlert{
			SessionID: event.Alert.SessionID,
			EventID:   event.Alert.EventID,
			EventType: event.Alert.Type,
			Severity:  event.Alert.Severity,
			Detail:    event.Alert.Detail,
			Score:     event.Alert.Score,
			TS:        event.Alert.At.Unix(),
		}}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message}}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
