package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded     EventType = "login_succeeded"
	EventLoginFailed        EventType = "login_failed"
	EventIdentityRegistered EventType = "identity_registered"
	EventAuthorCreated      EventType = "author_created"
	EventAuthorUpdated      EventType = "author_updated"
	EventAuthorDeleted      EventType = "author_deleted"
	EventBookCreated        EventType = "book_created"
	EventBookUpdated        EventType = "book_updated"
	EventBookDeleted        EventType = "book_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginPayload payload. Failed logins carry the presented identifier only;
// never the password and never whether the identifier exists.
type LoginPayload struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason,omitempty"`
}

// IdentityRegisteredPayload payload.
type IdentityRegisteredPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ResourcePayload payload for author/book mutations.
type ResourcePayload struct {
	ResourceID string `json:"resource_id"`
	Summary    string `json:"summary,omitempty"`
}
