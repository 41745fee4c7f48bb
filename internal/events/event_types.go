package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventTokenIssued       EventType = "token_issued"
	EventLoginFailed       EventType = "login_failed"
)

// Event represents an audit event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserName  string      `json:"user_name"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Email string `json:"email"`
}

// TokenIssuedPayload payload. The token itself is never recorded.
type TokenIssuedPayload struct {
	ExpiresIn time.Duration `json:"expires_in"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}
