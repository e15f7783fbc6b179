package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guilhermegouw/parley/internal/events"
	"github.com/guilhermegouw/parley/internal/pubsub"
)

// Service manages sessions with pub/sub event publishing.
type Service struct {
	store  Store
	broker *pubsub.Broker[events.SessionEvent]
	now    func() time.Time
}

// NewService creates a new session service. broker may be nil.
func NewService(store Store, broker *pubsub.Broker[events.SessionEvent]) *Service {
	return &Service{
		store:  store,
		broker: broker,
		now:    time.Now,
	}
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// GetOrCreate returns the session with the given ID, creating an untitled
// active one when it does not exist. The boolean reports whether it was
// created.
func (s *Service) GetOrCreate(ctx context.Context, id string) (*Session, bool, error) {
	session, err := s.store.Get(ctx, id)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	session, err = s.store.Create(ctx, id, "")
	if err != nil {
		return nil, false, err
	}
	s.publish(pubsub.EventCreated, events.NewSessionCreatedEvent(session.ID))
	return session, true, nil
}

// List returns all sessions, newest first.
func (s *Service) List(ctx context.Context) ([]*Session, error) {
	return s.store.List(ctx)
}

// Today returns the sessions created since local midnight, newest first.
func (s *Service) Today(ctx context.Context) ([]*Session, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.store.ListSince(ctx, midnight)
}

// SetTitle stores a generated title.
func (s *Service) SetTitle(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if err := s.store.UpdateTitle(ctx, id, title); err != nil {
		return err
	}
	s.publish(pubsub.EventUpdated, events.NewSessionTitledEvent(id, title))
	return nil
}

// End closes the session with its summary.
func (s *Service) End(ctx context.Context, id, summary string) error {
	if err := s.store.End(ctx, id, summary); err != nil {
		return err
	}
	s.publish(pubsub.EventCompleted, events.NewSessionEndedEvent(id, summary))
	return nil
}

func (s *Service) publish(t pubsub.EventType, e events.SessionEvent) {
	if s.broker != nil {
		s.broker.Publish(t, e)
	}
}
