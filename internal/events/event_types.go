package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated   EventType = "user_created"
	EventUserLoggedIn  EventType = "user_logged_in"
	EventSignupBlocked EventType = "signup_blocked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SignupBlockedPayload notes why a signup attempt was turned away.
type SignupBlockedPayload struct {
	Reason string `json:"reason"`
}
