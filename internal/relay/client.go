package relay

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/HardcoreSInd/ReazComu/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 256
)

// Client is one live websocket connection. Identity stays empty until
// the connection sends its register event; ConnID tells two connections
// for the same identity apart.
type Client struct {
	Identity string
	ConnID   string

	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	registered bool
	cleanup    sync.Once

	mu     sync.Mutex
	closed bool
}

// NewClient wraps an accepted websocket connection. Run WritePump in its
// own goroutine and ReadPump on the connection's handler goroutine.
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ConnID: uuid.NewString(),
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
	}
}

// deliver queues data for the write pump without ever blocking. It
// reports false when the connection is mid-teardown or its buffer is
// full; the frame is then simply skipped.
func (c *Client) deliver(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close stops deliveries and lets the write pump drain out. Safe to call
// more than once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump consumes frames from the connection until it drops, then runs
// the once-only disconnect cleanup. Disconnection is the only
// cancellation signal: it unconditionally hands the client to the hub
// for unregistration, whether or not register was ever received.
func (c *Client) ReadPump() {
	defer func() {
		c.cleanup.Do(func() {
			c.hub.Unregister <- c
		})
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("relay: read error on conn %s: %v", c.ConnID, err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("relay: dropping unparseable frame from conn %s: %v", c.ConnID, err)
			continue
		}

		c.handleEvent(env)
	}
}

// WritePump drains the send buffer to the socket and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("relay: write error on conn %s: %v", c.ConnID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEvent(env Envelope) {
	switch env.Event {
	case EventRegister:
		c.handleRegister(env.Payload)
	case EventSendMessage:
		c.handleSendMessage(env.Payload)
	default:
		log.Printf("relay: unknown event %q from conn %s", env.Event, c.ConnID)
	}
}

func (c *Client) handleRegister(payload json.RawMessage) {
	var identity string
	if err := json.Unmarshal(payload, &identity); err != nil || identity == "" {
		log.Printf("relay: invalid register payload from conn %s", c.ConnID)
		return
	}
	if c.registered {
		log.Printf("relay: duplicate register from conn %s ignored", c.ConnID)
		return
	}
	c.Identity = identity
	c.registered = true
	c.hub.Register <- c
}

func (c *Client) handleSendMessage(payload json.RawMessage) {
	var msg models.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Printf("relay: invalid sendMessage payload from conn %s: %v", c.ConnID, err)
		return
	}
	c.hub.Messages <- msg
}
