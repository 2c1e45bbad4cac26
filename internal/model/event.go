package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates user lifecycle events.
type EventType string

const (
	EventUserRegistered   EventType = "USER_REGISTERED"
	EventUserUpdated      EventType = "USER_UPDATED"
	EventUserActivated    EventType = "USER_ACTIVATED"
	EventUserDeactivated  EventType = "USER_DEACTIVATED"
	EventUserDeleted      EventType = "USER_DELETED"
	EventUserLoginSuccess EventType = "USER_LOGIN_SUCCESS"
	EventUserLoginFailed  EventType = "USER_LOGIN_FAILED"
)

// UnknownUserID is the subject of events that could not be tied to a user,
// such as failed login attempts.
const UnknownUserID = "unknown"

// UserEvent is an immutable record of a user state change. Events are never
// persisted, only published.
type UserEvent struct {
	EventID   string         `json:"eventId"`
	EventType EventType      `json:"eventType"`
	UserID    string         `json:"userId"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// NewUserEvent creates a UserEvent with a fresh event ID and timestamp.
func NewUserEvent(eventType EventType, userID string, data map[string]any) UserEvent {
	return UserEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher delivers user events to downstream subscribers. Delivery is
// best-effort: implementations absorb transport failures instead of
// propagating them into the mutation that triggered the event.
type EventPublisher interface {
	UserRegistered(ctx context.Context, user User)
	UserUpdated(ctx context.Context, user User)
	UserActivated(ctx context.Context, userID string)
	UserDeactivated(ctx context.Context, userID string)
	UserDeleted(ctx context.Context, userID string)
	LoginSucceeded(ctx context.Context, userID, username string)
	LoginFailed(ctx context.Context, usernameOrEmail, reason string)
}
