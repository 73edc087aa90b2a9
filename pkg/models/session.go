package models

import "time"

// Session is the authenticated handle returned by register and login.
type Session struct {
	Token     string    `json:"token"`
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user,omitempty"`
}
