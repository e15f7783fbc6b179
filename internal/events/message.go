package events

import "time"

// MessageEvent is published when a message is stored.
type MessageEvent struct {
	SessionID string
	MessageID string
	Role      string
	// Length is the content length in bytes; content itself is not carried.
	Length    int
	Timestamp time.Time
}

// NewMessageStoredEvent creates a message stored event.
func NewMessageStoredEvent(sessionID, messageID, role string, length int) MessageEvent {
	return MessageEvent{
		SessionID: sessionID,
		MessageID: messageID,
		Role:      role,
		Length:    length,
		Timestamp: time.Now(),
	}
}
