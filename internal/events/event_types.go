package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventClientCreated  EventType = "client_created"
	EventClientDeleted  EventType = "client_deleted"
	EventNoteAdded      EventType = "note_added"
	EventNoteDeleted    EventType = "note_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	ActorEmail string         `json:"actor_email,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Payload    map[string]any `json:"payload,omitempty"`
}
