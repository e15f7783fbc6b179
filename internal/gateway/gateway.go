// Package gateway provides the client side of the remote session service.
//
// The package defines the strict domain types the rest of parley works with
// and an HTTP client that maps the service's loosely shaped payloads into them.
package gateway

import (
	"context"
	"errors"
	"time"
)

// Role represents the author of a message.
type Role string

// Role constants.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status represents the lifecycle state of a session.
type Status string

// Status constants.
const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// History is the server-confirmed state of a session.
type History struct {
	Status   Status
	Messages []Message
}

// RecentSession is an entry of the recent sessions list.
type RecentSession struct {
	ID      string
	Title   string
	Status  Status
	Created time.Time
}

// PromptReply is the service's answer to a prompt.
type PromptReply struct {
	Reply  string
	Status Status
}

// EndResult is returned when a session is ended.
type EndResult struct {
	Status  Status
	Summary string
}

// SearchResult is one ranked match of a session search.
type SearchResult struct {
	ChatID  string
	Title   string
	Status  Status
	Score   float64
	Snippet string
}

// ErrNotFound is returned when the service has no record of a session.
var ErrNotFound = errors.New("session not found")

// Gateway is the contract the conversation controller consumes.
type Gateway interface {
	// RecentSessions returns the recent sessions, newest first.
	RecentSessions(ctx context.Context) ([]RecentSession, error)

	// History returns the messages and status of a session.
	// It returns ErrNotFound when the session has no history yet.
	History(ctx context.Context, sessionID string) (History, error)

	// SubmitPrompt sends a user prompt and returns the assistant reply.
	SubmitPrompt(ctx context.Context, sessionID, content string) (PromptReply, error)

	// EndSession closes a session and returns its summary.
	EndSession(ctx context.Context, sessionID string) (EndResult, error)

	// Search returns sessions matching query, ranked by relevance.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
