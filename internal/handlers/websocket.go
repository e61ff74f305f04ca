package handlers

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/HardcoreSInd/ReazComu/internal/config"
	"github.com/HardcoreSInd/ReazComu/internal/relay"
)

var (
	// Cfg is the active server configuration, set by Init.
	Cfg config.Config

	// WSHub is the relay hub every websocket connection attaches to.
	WSHub *relay.Hub
)

// Init stores the configuration and starts the relay hub.
func Init(cfg config.Config) {
	Cfg = cfg
	if WSHub != nil {
		WSHub.Stop()
	}
	WSHub = relay.NewHub()
	go WSHub.Run()
	log.Println("relay hub started")
}

// WebSocketUpgrade lets actual upgrade requests through to the websocket
// handler and rejects plain HTTP requests on the same path.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"error": "WebSocket upgrade required",
	})
}

// WebSocketHandler attaches an upgraded connection to the hub. The
// connection joins the registry only once it sends its register event.
func WebSocketHandler(conn *websocket.Conn) {
	client := relay.NewClient(conn, WSHub)

	go client.WritePump()
	client.ReadPump() // blocks until the connection closes
}

// WebSocketStats reports live connection counts, for debugging.
func WebSocketStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"onlineUsers": WSHub.OnlineCount(),
		"userIds":     WSHub.OnlineUsers(),
	})
}
