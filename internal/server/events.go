package server

import (
	"context"

	"github.com/guilhermegouw/parley/internal/events"
	"github.com/guilhermegouw/parley/internal/pubsub"
)

// logEvents writes session and message events to the log until ctx ends.
func (s *Server) logEvents(ctx context.Context) {
	s.hub.Session.Listen(ctx, func(e pubsub.Event[events.SessionEvent]) {
		ev := s.log.Debug().
			Str("chat_id", e.Payload.SessionID).
			Str("event", string(e.Payload.Type))
		if e.Payload.Title != "" {
			ev = ev.Str("title", e.Payload.Title)
		}
		ev.Msg("session event")
	})
	s.hub.Message.Listen(ctx, func(e pubsub.Event[events.MessageEvent]) {
		s.log.Debug().
			Str("chat_id", e.Payload.SessionID).
			Str("message_id", e.Payload.MessageID).
			Str("role", e.Payload.Role).
			Int("length", e.Payload.Length).
			Msg("message stored")
	})
}
