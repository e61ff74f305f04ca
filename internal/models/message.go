package models

// Message is a chat message in flight. It lives only for the duration of
// the forwarding hop and whatever cache the client keeps; the relay never
// stores it. Timestamp is an ISO-8601 string minted by the sender.
type Message struct {
	From      string `json:"from"`
	To        string `json:"to" validate:"required"`
	Text      string `json:"text" validate:"required"`
	Timestamp string `json:"timestamp"`
}
