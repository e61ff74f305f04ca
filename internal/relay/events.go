package relay

import "encoding/json"

// EventType names a websocket event, mirroring the named-event protocol
// the client speaks.
type EventType string

const (
	// Client -> server
	EventRegister    EventType = "register"
	EventSendMessage EventType = "sendMessage"

	// Server -> client
	EventNewMessage EventType = "newMessage"
	EventUserStatus EventType = "userStatus"
)

// Envelope is the wire frame for every event in both directions.
type Envelope struct {
	Event   EventType       `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalEvent frames payload under the given event name.
func MarshalEvent(event EventType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Payload: data})
}
