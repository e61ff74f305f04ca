package models

// Contact is a roster entry as the client renders it. Online starts from
// the server's answer at fetch time and is kept current by userStatus
// events afterwards.
type Contact struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Avatar          string `json:"avatar,omitempty"`
	LastMessage     string `json:"lastMessage,omitempty"`
	LastMessageTime string `json:"lastMessageTime,omitempty"`
	Online          bool   `json:"online"`
}
