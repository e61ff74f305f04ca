package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

// registerClient pushes a register request through the hub loop and
// waits for its own online event, so the caller knows the mutation has
// been processed.
func registerClient(t *testing.T, hub *Hub, identity string) *Client {
	t.Helper()
	client := NewClient(nil, hub)
	client.Identity = identity
	client.registered = true
	hub.Register <- client

	event := nextPresence(t, client)
	require.Equal(t, identity, event.UserID)
	require.Equal(t, models.StatusOnline, event.Status)
	return client
}

func nextPresence(t *testing.T, client *Client) models.PresenceEvent {
	t.Helper()
	env := nextFrame(t, client)
	require.Equal(t, EventUserStatus, env.Event)

	var event models.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Payload, &event))
	return event
}

func TestHub_PresenceRoundTrip(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	// Given a third party watching
	observer := registerClient(t, hub, "observer")

	// When a user registers and then disconnects
	alice := registerClient(t, hub, "alice")
	req.ElementsMatch([]string{"observer", "alice"}, hub.OnlineUsers())

	online := nextPresence(t, observer)
	req.Equal(models.PresenceEvent{UserID: "alice", Status: models.StatusOnline}, online)

	hub.Unregister <- alice

	// Then the observer sees exactly one online and one offline event,
	// in that order
	offline := nextPresence(t, observer)
	req.Equal(models.PresenceEvent{UserID: "alice", Status: models.StatusOffline}, offline)
	requireNoFrame(t, observer, 50*time.Millisecond)
	req.False(hub.IsOnline("alice"))
}

func TestHub_BroadcastIncludesSubject(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	// registerClient already consumed the client's own online event;
	// nothing else should be pending.
	alice := registerClient(t, hub, "alice")
	requireNoFrame(t, alice, 50*time.Millisecond)
	req.True(hub.IsOnline("alice"))
}

func TestHub_StaleConnectionCannotEvictReplacement(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)
	observer := registerClient(t, hub, "observer")

	// Given an identity whose first connection was replaced by a second
	first := registerClient(t, hub, "alice")
	_ = nextPresence(t, observer)

	second := NewClient(nil, hub)
	second.Identity = "alice"
	second.registered = true
	hub.Register <- second
	_ = nextPresence(t, observer) // online event for the re-registration

	// When the stale connection disconnects
	hub.Unregister <- first

	// Then the live registration survives and no offline event leaks
	requireNoFrame(t, observer, 50*time.Millisecond)
	req.True(hub.IsOnline("alice"))

	current, ok := hub.registry.Lookup("alice")
	req.True(ok)
	req.Same(second, current)

	// The stale connection is torn down for good
	req.False(first.deliver([]byte("frame")))

	// And the live connection's eventual disconnect emits the offline
	hub.Unregister <- second
	offline := nextPresence(t, observer)
	req.Equal(models.PresenceEvent{UserID: "alice", Status: models.StatusOffline}, offline)
}

func TestHub_UnregisteredConnectionDisconnectIsQuiet(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)
	observer := registerClient(t, hub, "observer")

	// A connection that never sent register produces no presence noise
	// when it disconnects.
	ghost := NewClient(nil, hub)
	hub.Unregister <- ghost

	requireNoFrame(t, observer, 50*time.Millisecond)
	req.Equal(1, hub.OnlineCount())
}

func TestHub_RoutesMessagesThroughLoop(t *testing.T) {
	req := require.New(t)
	hub := startHub(t)

	sender := registerClient(t, hub, "12345")
	recipient := registerClient(t, hub, "67890")
	_ = nextPresence(t, sender) // online event for the recipient

	msg := models.Message{
		From:      "12345",
		To:        "67890",
		Text:      "hi",
		Timestamp: "2024-01-01T00:00:00Z",
	}
	hub.Messages <- msg

	env := nextFrame(t, recipient)
	req.Equal(EventNewMessage, env.Event)

	var delivered models.Message
	req.NoError(json.Unmarshal(env.Payload, &delivered))
	req.Equal(msg, delivered)

	// The sender gets no echo and no acknowledgement
	requireNoFrame(t, sender, 50*time.Millisecond)
}
