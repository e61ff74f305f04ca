package routes_test

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/HardcoreSInd/ReazComu/internal/config"
	"github.com/HardcoreSInd/ReazComu/internal/handlers"
	"github.com/HardcoreSInd/ReazComu/internal/models"
	"github.com/HardcoreSInd/ReazComu/internal/relay"
	"github.com/HardcoreSInd/ReazComu/internal/routes"
	"github.com/HardcoreSInd/ReazComu/internal/utils"
)

// startServer boots the full app on a random port and returns its
// address.
func startServer(t *testing.T) string {
	t.Helper()
	utils.InitJWT("test-secret")
	handlers.Init(config.Config{Port: "0", SessionSecret: "test-secret"})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	routes.SetupRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})
	return ln.Addr().String()
}

func dialWS(t *testing.T, addr, userID string) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateToken(models.User{ID: userID})
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Cookie", "token="+token)

	conn, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", header)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return conn
}

func emit(t *testing.T, conn *websocket.Conn, event relay.EventType, payload any) {
	t.Helper()
	data, err := relay.MarshalEvent(event, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func nextEvent(t *testing.T, conn *websocket.Conn) relay.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env relay.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func expectStatus(t *testing.T, conn *websocket.Conn, userID, status string) {
	t.Helper()
	env := nextEvent(t, conn)
	require.Equal(t, relay.EventUserStatus, env.Event)

	var event models.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Payload, &event))
	require.Equal(t, models.PresenceEvent{UserID: userID, Status: status}, event)
}

func expectSilence(t *testing.T, conn *websocket.Conn, window time.Duration) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(window)))
	_, data, err := conn.ReadMessage()
	if err == nil {
		t.Fatalf("expected no event, got %s", data)
	}
	netErr, ok := err.(net.Error)
	require.True(t, ok && netErr.Timeout(), "expected read timeout, got %v", err)
}

// TestRelay_EndToEnd walks the full scenario: two users register, one
// messages the other, the recipient drops, presence fans out, and a
// message to the now-offline recipient vanishes without an error.
func TestRelay_EndToEnd(t *testing.T) {
	addr := startServer(t)

	connA := dialWS(t, addr, "12345")
	emit(t, connA, relay.EventRegister, "12345")
	expectStatus(t, connA, "12345", models.StatusOnline)

	connB := dialWS(t, addr, "67890")
	emit(t, connB, relay.EventRegister, "67890")
	expectStatus(t, connB, "67890", models.StatusOnline)
	expectStatus(t, connA, "67890", models.StatusOnline)

	// A messages B; B receives it verbatim
	msg := models.Message{
		From:      "12345",
		To:        "67890",
		Text:      "hi",
		Timestamp: "2024-01-01T00:00:00Z",
	}
	emit(t, connA, relay.EventSendMessage, msg)

	env := nextEvent(t, connB)
	require.Equal(t, relay.EventNewMessage, env.Event)
	var delivered models.Message
	require.NoError(t, json.Unmarshal(env.Payload, &delivered))
	require.Equal(t, msg, delivered)

	// B drops; every remaining party hears about it
	require.NoError(t, connB.Close())
	expectStatus(t, connA, "67890", models.StatusOffline)

	// A messages the departed B: dropped silently, no error event
	emit(t, connA, relay.EventSendMessage, models.Message{
		From:      "12345",
		To:        "67890",
		Text:      "still there?",
		Timestamp: "2024-01-01T00:01:00Z",
	})
	expectSilence(t, connA, 300*time.Millisecond)
}

// TestRelay_LastRegistrationWins exercises the replacement contract over
// real connections: the newest registration receives traffic and the
// abandoned one goes quiet without being evicted early.
func TestRelay_LastRegistrationWins(t *testing.T) {
	addr := startServer(t)

	sender := dialWS(t, addr, "12345")
	emit(t, sender, relay.EventRegister, "12345")
	expectStatus(t, sender, "12345", models.StatusOnline)

	oldConn := dialWS(t, addr, "67890")
	emit(t, oldConn, relay.EventRegister, "67890")
	expectStatus(t, oldConn, "67890", models.StatusOnline)
	expectStatus(t, sender, "67890", models.StatusOnline)

	newConn := dialWS(t, addr, "67890")
	emit(t, newConn, relay.EventRegister, "67890")
	expectStatus(t, newConn, "67890", models.StatusOnline)
	expectStatus(t, sender, "67890", models.StatusOnline)

	msg := models.Message{
		From:      "12345",
		To:        "67890",
		Text:      "which tab?",
		Timestamp: "2024-01-01T00:00:00Z",
	}
	emit(t, sender, relay.EventSendMessage, msg)

	env := nextEvent(t, newConn)
	require.Equal(t, relay.EventNewMessage, env.Event)
	expectSilence(t, oldConn, 300*time.Millisecond)

	// The stale connection's exit must not evict the live registration
	require.NoError(t, oldConn.Close())
	time.Sleep(100 * time.Millisecond)
	require.True(t, handlers.WSHub.IsOnline("67890"))

	// Only the live connection's exit marks the identity offline
	require.NoError(t, newConn.Close())
	expectStatus(t, sender, "67890", models.StatusOffline)
	require.Eventually(t, func() bool {
		return !handlers.WSHub.IsOnline("67890")
	}, time.Second, 10*time.Millisecond)
}
