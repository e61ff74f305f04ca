package client

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/HardcoreSInd/ReazComu/internal/relay"
)

// Transport is the persistent named-event channel to the relay. Handlers
// must be installed before the first event of their kind can arrive.
type Transport interface {
	Emit(event relay.EventType, payload any) error
	On(event relay.EventType, handler func(payload json.RawMessage))
	OnDisconnect(handler func(err error))
	Close() error
}

// DialFunc opens a Transport. The session calls it when entering the
// authenticated state.
type DialFunc func(ctx context.Context) (Transport, error)

// WSTransport is the websocket Transport implementation.
type WSTransport struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu           sync.Mutex
	handlers     map[relay.EventType]func(json.RawMessage)
	onDisconnect func(error)
	closed       bool
}

// Dial connects to the relay's websocket endpoint. header carries the
// session cookie.
func Dial(ctx context.Context, wsURL string, header http.Header) (*WSTransport, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, err
	}
	if resp != nil {
		resp.Body.Close()
	}

	t := &WSTransport{
		conn:     conn,
		handlers: make(map[relay.EventType]func(json.RawMessage)),
	}
	go t.readLoop()
	return t, nil
}

// Emit sends a named event to the relay. Fire and forget: no
// acknowledgement ever comes back.
func (t *WSTransport) Emit(event relay.EventType, payload any) error {
	data, err := relay.MarshalEvent(event, payload)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, data)
}

// On installs the handler for a named event, replacing any previous one.
func (t *WSTransport) On(event relay.EventType, handler func(json.RawMessage)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[event] = handler
}

// OnDisconnect installs the handler invoked when the connection drops.
// It does not fire on an explicit Close.
func (t *WSTransport) OnDisconnect(handler func(error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDisconnect = handler
}

// Close shuts the connection down without firing the disconnect handler.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	return t.conn.Close()
}

func (t *WSTransport) readLoop() {
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			handler := t.onDisconnect
			closed := t.closed
			t.mu.Unlock()
			if !closed && handler != nil {
				handler(err)
			}
			return
		}

		var env relay.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("client: dropping unparseable frame: %v", err)
			continue
		}

		t.mu.Lock()
		handler := t.handlers[env.Event]
		t.mu.Unlock()
		if handler != nil {
			handler(env.Payload)
		}
	}
}
