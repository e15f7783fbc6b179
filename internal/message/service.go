package message

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/guilhermegouw/parley/internal/events"
	"github.com/guilhermegouw/parley/internal/pubsub"
)

// MaxContextMessages caps how much history is sent to the model.
const MaxContextMessages = 100

// Service manages messages with pub/sub event publishing.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.MessageEvent]
}

// NewService creates a new message service. broker may be nil.
func NewService(store Store, broker *pubsub.Broker[events.MessageEvent]) *Service {
	return &Service{
		store:  store,
		broker: broker,
	}
}

// Add stores a message under a fresh ID and returns it.
func (s *Service) Add(ctx context.Context, sessionID string, role Role, content string) (*Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	msg := &Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	if err := s.store.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.broker != nil {
		s.broker.Publish(pubsub.EventCreated,
			events.NewMessageStoredEvent(sessionID, msg.ID, string(role), len(content)))
	}
	return msg, nil
}

// History returns the whole timeline of a session.
func (s *Service) History(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.store.GetBySession(ctx, sessionID)
}

// Context returns the messages sent to the model for a session.
func (s *Service) Context(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.store.GetLatest(ctx, sessionID, MaxContextMessages)
}

// Count returns the number of messages in a session.
func (s *Service) Count(ctx context.Context, sessionID string) (int64, error) {
	return s.store.Count(ctx, sessionID)
}
