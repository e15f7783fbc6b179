// Package events defines the payloads published on the pub/sub hub.
package events

import "time"

// SessionEventType represents session-specific event types.
type SessionEventType string

// Session event type constants.
const (
	SessionEventCreated SessionEventType = "created"
	SessionEventTitled  SessionEventType = "titled"
	SessionEventEnded   SessionEventType = "ended"
)

// SessionEvent represents a session lifecycle event on the backend.
type SessionEvent struct {
	SessionID string
	Title     string
	Type      SessionEventType
	Timestamp time.Time

	// Summary is set for SessionEventEnded.
	Summary string
}

// NewSessionCreatedEvent creates a session created event.
func NewSessionCreatedEvent(id string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Type:      SessionEventCreated,
		Timestamp: time.Now(),
	}
}

// NewSessionTitledEvent is published once a title has been generated.
func NewSessionTitledEvent(id, title string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Title:     title,
		Type:      SessionEventTitled,
		Timestamp: time.Now(),
	}
}

// NewSessionEndedEvent creates a session ended event.
func NewSessionEndedEvent(id, summary string) SessionEvent {
	return SessionEvent{
		SessionID: id,
		Type:      SessionEventEnded,
		Summary:   summary,
		Timestamp: time.Now(),
	}
}
