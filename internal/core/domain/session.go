package domain

import (
	"errors"
	"time"
)

// Session binds an opaque token to a user for the lifetime of a login.
// The token itself is the lookup key and is never stored inside the record.
type Session struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

var ErrSessionInvalid = errors.New("session invalid or expired")

// Expired reports whether the session's lifetime has elapsed at ts.
func (s Session) Expired(ts time.Time) bool {
	return !s.ExpiresAt.IsZero() && ts.After(s.ExpiresAt)
}
