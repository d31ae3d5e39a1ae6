package domain

import "time"

// AuthEventType enumerates the auditable moments of the auth lifecycle.
type AuthEventType string

const (
	EventUserRegistered AuthEventType = "user_registered"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventLoggedOut      AuthEventType = "logged_out"
)

// AuthEvent is an append-only audit record. Subject is the normalized email
// the event concerns; UserID is set when the account is known.
type AuthEvent struct {
	ID      string        `json:"id"`
	Type    AuthEventType `json:"type"`
	Subject string        `json:"subject"`
	UserID  string        `json:"user_id,omitempty"`
	At      time.Time     `json:"at"`
}
