package relay

import (
	"log"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

// Broadcaster fans presence transitions out to every registered
// connection, the subject of the event included.
type Broadcaster struct {
	registry *Registry
}

// NewBroadcaster wires a broadcaster to the registry it reads targets from.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Publish delivers event to a snapshot of the current registrants.
// Delivery is fire and forget: a connection mid-teardown or with a full
// send buffer is skipped, never waited on or retried.
func (b *Broadcaster) Publish(event models.PresenceEvent) {
	data, err := MarshalEvent(EventUserStatus, event)
	if err != nil {
		log.Printf("presence: failed to marshal event: %v", err)
		return
	}

	for _, client := range b.registry.Snapshot() {
		if !client.deliver(data) {
			log.Printf("presence: skipped delivery to %s", client.Identity)
		}
	}
}
