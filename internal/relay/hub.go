// Package relay implements the presence-and-delivery core: the registry
// mapping user identities to live websocket connections, the presence
// broadcaster announcing online/offline transitions, and the message
// router forwarding chat messages between connected users.
package relay

import (
	"log"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

// Hub runs the relay's event loop. Registrations, disconnections and
// message routing all funnel through Run, so registry mutations and the
// presence events they trigger are serialized: every connection observes
// userStatus events in the order the mutations actually happened.
type Hub struct {
	registry *Registry
	presence *Broadcaster
	router   *Router

	// Register requests from connections that received a register event
	Register chan *Client

	// Unregister requests from disconnecting connections
	Unregister chan *Client

	// Messages inbound from connections, awaiting routing
	Messages chan models.Message

	quit chan struct{}
}

// NewHub creates a hub with its registry, broadcaster and router wired
// together. Call Run in its own goroutine to start processing.
func NewHub() *Hub {
	registry := NewRegistry()
	return &Hub{
		registry:   registry,
		presence:   NewBroadcaster(registry),
		router:     NewRouter(registry),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Messages:   make(chan models.Message, 64),
		quit:       make(chan struct{}),
	}
}

// Run processes hub events until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case msg := <-h.Messages:
			h.router.Route(msg)
		case <-h.quit:
			return
		}
	}
}

// Stop terminates the Run loop. Connections are not torn down; their
// pumps exit when their sockets close.
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) registerClient(client *Client) {
	h.registry.Register(client.Identity, client)
	h.presence.Publish(models.PresenceEvent{UserID: client.Identity, Status: models.StatusOnline})
	log.Printf("relay: client registered: %s (conn %s)", client.Identity, client.ConnID)
}

// unregisterClient runs once per connection, whether or not the
// connection ever registered. Only the current holder of an identity's
// registration may remove it: a connection that was replaced by a later
// registration for the same identity is torn down without touching the
// registry or emitting a presence event.
func (h *Hub) unregisterClient(client *Client) {
	defer client.close()

	if client.Identity == "" {
		log.Printf("relay: unregistered conn %s disconnected", client.ConnID)
		return
	}

	current, ok := h.registry.Lookup(client.Identity)
	if !ok || current != client {
		log.Printf("relay: stale conn %s for %s disconnected", client.ConnID, client.Identity)
		return
	}

	h.registry.Unregister(client.Identity)
	h.presence.Publish(models.PresenceEvent{UserID: client.Identity, Status: models.StatusOffline})
	log.Printf("relay: client disconnected: %s (conn %s)", client.Identity, client.ConnID)
}

// IsOnline reports whether identity currently holds a registration.
func (h *Hub) IsOnline(identity string) bool {
	return h.registry.IsOnline(identity)
}

// OnlineUsers returns the identities currently registered.
func (h *Hub) OnlineUsers() []string {
	return h.registry.Online()
}

// OnlineCount returns the number of live registrations.
func (h *Hub) OnlineCount() int {
	return h.registry.Count()
}
