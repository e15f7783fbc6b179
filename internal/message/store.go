package message

import (
	"context"
)

// Store defines the interface for message persistence.
type Store interface {
	// Create creates a new message.
	Create(ctx context.Context, msg *Message) error

	// GetBySession returns all messages for a session ordered by created_at.
	GetBySession(ctx context.Context, sessionID string) ([]*Message, error)

	// GetLatest returns the last limit messages of a session, oldest first.
	GetLatest(ctx context.Context, sessionID string, limit int) ([]*Message, error)

	// Count returns the number of messages in a session.
	Count(ctx context.Context, sessionID string) (int64, error)
}
