// Package session persists the development backend's chats.
package session

import (
	"context"
	"time"
)

// Status is the lifecycle state of a chat.
type Status string

// Chat states.
const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Session is one chat kept by the backend.
type Session struct {
	ID        string
	Title     string
	Status    Status
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ended reports whether the chat has been closed.
func (s *Session) Ended() bool {
	return s.Status == StatusEnded
}

// Store defines the interface for session persistence.
type Store interface {
	// Create creates an active session with the given ID.
	Create(ctx context.Context, id, title string) (*Session, error)

	// Get retrieves a session by ID. It returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*Session, error)

	// List returns all sessions, newest first.
	List(ctx context.Context) ([]*Session, error)

	// ListSince returns sessions created at or after since, newest first.
	ListSince(ctx context.Context, since time.Time) ([]*Session, error)

	// UpdateTitle updates the title of a session.
	UpdateTitle(ctx context.Context, id, title string) error

	// End marks a session ended and stores its summary.
	End(ctx context.Context, id, summary string) error
}
