package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated  EventType = "user_created"
	EventUserUpdated  EventType = "user_updated"
	EventUserArchived EventType = "user_archived"
)

// Event represents a domain event emitted after a successful user write.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps a new event with a fresh id.
func NewEvent(eventType EventType, userID string, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: at,
		Payload:   payload,
	}
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUpdatedPayload lists the fields whose values changed.
type UserUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
}

// UserArchivedPayload payload.
type UserArchivedPayload struct {
	ArchivedAt time.Time `json:"archived_at"`
}
