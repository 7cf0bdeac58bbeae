package core

import (
	"fmt"
	"testing"
)

func benchmarkRoomBroadcast(b *testing.B, size int) {
	room := NewRoom("bench")
	for i := 0; i < size; i++ {
		id := fmt.Sprintf("c%d", i)
		c := NewClient(id)
		room.Add(c, &Participant{Endpoint: id, Name: id, Role: RoleCandidate})
	}
	event := &Event{Kind: EventCodeUpdated, Room: room.ID, Code: &CodePayload{Text: "x"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		room.Broadcast("c0", event)
		// Drain so the buffered channels never force drops.
		for _, m := range room.members {
			for len(m.client.Events) > 0 {
				<-m.client.Events
			}
		}
	}
}

func BenchmarkRoomBroadcast4(b *testing.B)  { benchmarkRoomBroadcast(b, 4) }
func BenchmarkRoomBroadcast16(b *testing.B) { benchmarkRoomBroadcast(b, 16) }
