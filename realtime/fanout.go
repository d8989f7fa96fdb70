package realtime

import (
	"encoding/json"
	"log"

	"amoria_server/models"
)

// Broadcaster fans a typed event out to every open connection of a profile.
type Broadcaster struct {
	Registry Registry
}

func NewBroadcaster(registry Registry) *Broadcaster {
	return &Broadcaster{Registry: registry}
}

// Broadcast serializes the event once and sends it to every open connection
// registered for the profile. Closed connections are skipped (the transport's
// own close handling prunes them), and a send failure on one connection never
// aborts delivery to the rest. Returns true iff at least one open connection
// received the payload; false means the recipient is simply not connected and
// callers that need guaranteed delivery fall back to notifications.
func (b *Broadcaster) Broadcast(profileID string, event models.RealtimeEvent) bool {
	conns := b.Registry.Connections(profileID)
	if len(conns) == 0 {
		log.Printf("📭 No open connections for profile %s, skipping %s event", profileID, event.Type)
		return false
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Failed to serialize %s event for profile %s: %v", event.Type, profileID, err)
		return false
	}

	delivered := false
	for _, conn := range conns {
		if !conn.IsOpen() {
			continue
		}
		if err := conn.Send(data); err != nil {
			log.Printf("❌ Failed to deliver %s event to a connection of profile %s: %v", event.Type, profileID, err)
			continue
		}
		delivered = true
	}
	return delivered
}
