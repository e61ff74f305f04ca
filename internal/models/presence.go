package models

// Presence status values carried by userStatus events.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// PresenceEvent announces a user's online/offline transition. One is
// emitted per registration and one per disconnection, with no debouncing.
type PresenceEvent struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}
