// Command ws_smoke connects to a running coordinator, joins a room and
// sends a code update, printing everything it receives. Handy for
// poking at a local server without a browser client.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/hireloop/interview-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "smoke-room", "room id to join")
	name := flag.String("name", "tester", "display name")
	role := flag.String("role", "recruiter", "participant role")
	text := flag.String("text", "// hello from smoke test", "editor text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw}); err != nil {
			return fmt.Errorf("send %s: %w", msgType, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeJoinRoom, proto.JoinRoomData{
		RoomID:        *room,
		ParticipantID: *name,
		Name:          *name,
		Role:          *role,
	}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeCodeUpdate, proto.CodeUpdateData{
		RoomID:   *room,
		Code:     *text,
		Language: "go",
	}); err != nil {
		return err
	}

	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("received: type=%s", outbound.Type)
		if outbound.Event != "" {
			fmt.Printf(" event=%s", outbound.Event)
		}
		fmt.Println()

		if outbound.Error != nil {
			return fmt.Errorf("server error: %s (%s)", outbound.Error.Msg, outbound.Error.Code)
		}

		switch outbound.Event {
		case "room-state":
			var snap proto.RoomStateData
			if err := json.Unmarshal(outbound.Data, &snap); err != nil {
				return fmt.Errorf("unmarshal room-state: %w", err)
			}
			fmt.Printf("room %s: %d participant(s), code %q\n",
				snap.RoomID, len(snap.Participants), snap.Code.Text)
			// The join snapshot arrives before our own code update is
			// applied; wait for another participant's echo or time out.
			return nil
		case "participant-joined":
			var evt proto.EventParticipant
			if err := json.Unmarshal(outbound.Data, &evt); err == nil && evt.Participant != nil {
				fmt.Printf("joined: room=%s name=%s\n", evt.RoomID, evt.Participant.Name)
			}
		case "participant-left":
			var evt proto.EventParticipant
			if err := json.Unmarshal(outbound.Data, &evt); err == nil && evt.Participant != nil {
				fmt.Printf("left: room=%s name=%s\n", evt.RoomID, evt.Participant.Name)
			}
		default:
			fmt.Printf("raw data: %s\n", string(outbound.Data))
		}
	}
}
