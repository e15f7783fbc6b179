// Package server is the development backend behind "parley serve". It speaks
// the same HTTP contract the client's gateway expects and keeps chats in
// SQLite.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/guilhermegouw/parley/internal/assistant"
	"github.com/guilhermegouw/parley/internal/message"
	"github.com/guilhermegouw/parley/internal/pubsub"
	"github.com/guilhermegouw/parley/internal/session"
)

// Limits applied to search requests.
const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 50
)

// bodyLimit caps request bodies.
const bodyLimit = 1 << 20

// Deps are the collaborators a Server needs.
type Deps struct {
	Sessions  *session.Service
	Messages  *message.Service
	Assistant *assistant.Assistant
	Hub       *pubsub.Hub
	Log       zerolog.Logger
}

// Server wraps the fiber app serving the chat API.
type Server struct {
	app       *fiber.App
	sessions  *session.Service
	messages  *message.Service
	assistant *assistant.Assistant
	hub       *pubsub.Hub
	log       zerolog.Logger
}

// New creates a Server with its routes registered.
func New(deps Deps) (*Server, error) {
	if deps.Sessions == nil || deps.Messages == nil || deps.Assistant == nil {
		return nil, errors.New("server: sessions, messages and assistant are required")
	}

	app := fiber.New(fiber.Config{
		AppName:               "parley",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(deps.Log),
	})

	s := &Server{
		app:       app,
		sessions:  deps.Sessions,
		messages:  deps.Messages,
		assistant: deps.Assistant,
		hub:       deps.Hub,
		log:       deps.Log,
	}

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger(s.log))
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/recent_chat/", s.handleRecent)
	s.app.Get("/get_chat_messages/:id/", s.handleHistory)
	s.app.Post("/prompt_gpt/", s.handlePrompt)
	s.app.Post("/end_chat/", s.handleEnd)
	s.app.Post("/search_chats/", s.handleSearch)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if s.hub != nil {
		s.logEvents(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
		s.log.Info().Msg("server shutting down")
		if err := s.app.Shutdown(); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// errorHandler renders errors in the {"error": ...} shape clients parse.
func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
