package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeactivated EventType = "user_deactivated"
	EventUserDeleted     EventType = "user_deleted"
)

// Event represents a domain event emitted by the user service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserUpdatedPayload payload. Fields carry the post-update values of the
// attributes that were present in the update request.
type UserUpdatedPayload struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}
