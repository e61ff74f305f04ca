package models

// User is the profile the identity provider hands us after login.
// The relay itself only ever uses ID; the rest is display data.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}
