package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/guilhermegouw/parley/internal/assistant"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/message"
	"github.com/guilhermegouw/parley/internal/session"
)

// Error messages returned to clients.
const (
	msgNoChatID   = "Chat ID was not provided."
	msgNoPrompt   = "There was no prompt passed."
	msgNoQuery    = "There was no query passed."
	msgNotFound   = "Chat not found."
	msgChatEnded  = "This chat has ended."
	msgBadRequest = "Request body must be a JSON object."
)

type chatJSON struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type messageJSON struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type promptRequest struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

type endRequest struct {
	ChatID string `json:"chat_id"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// handleRecent lists the chats created today, newest first.
func (s *Server) handleRecent(c *fiber.Ctx) error {
	chats, err := s.sessions.Today(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]chatJSON, 0, len(chats))
	for _, chat := range chats {
		out = append(out, chatJSON{
			ID:        chat.ID,
			Title:     chat.Title,
			Status:    string(chat.Status),
			CreatedAt: chat.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return c.JSON(out)
}

// handleHistory returns a chat's status and messages.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	chat, err := s.sessions.Get(ctx, c.Params("id"))
	if errors.Is(err, session.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msgNotFound)
	}
	if err != nil {
		return err
	}

	msgs, err := s.messages.History(ctx, chat.ID)
	if err != nil {
		return err
	}
	out := make([]messageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageJSON{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return c.JSON(fiber.Map{"status": string(chat.Status), "messages": out})
}

// handlePrompt stores a user prompt, asks the model and stores its reply.
// A reply starting with the summary marker ends the chat.
func (s *Server) handlePrompt(c *fiber.Ctx) error {
	var req promptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgBadRequest)
	}
	req.ChatID = strings.TrimSpace(req.ChatID)
	if req.ChatID == "" {
		return fiber.NewError(fiber.StatusBadRequest, msgNoChatID)
	}
	if strings.TrimSpace(req.Content) == "" {
		return fiber.NewError(fiber.StatusBadRequest, msgNoPrompt)
	}

	ctx := c.UserContext()
	chat, _, err := s.sessions.GetOrCreate(ctx, req.ChatID)
	if err != nil {
		return err
	}
	if chat.Ended() {
		return fiber.NewError(fiber.StatusConflict, msgChatEnded)
	}

	if chat.Title == "" {
		title := s.assistant.Title(ctx, req.Content)
		if err := s.sessions.SetTitle(ctx, chat.ID, title); err != nil {
			s.log.Warn().Err(err).Str("chat_id", chat.ID).Msg("storing title")
		}
	}

	if _, err := s.messages.Add(ctx, chat.ID, message.RoleUser, req.Content); err != nil {
		return err
	}

	history, err := s.messages.Context(ctx, chat.ID)
	if err != nil {
		return err
	}
	reply, err := s.assistant.Reply(ctx, toTurns(history))
	if err != nil {
		s.log.Error().Err(err).Str("chat_id", chat.ID).Msg("model request failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error from the model: "+err.Error())
	}

	if _, err := s.messages.Add(ctx, chat.ID, message.RoleAssistant, reply); err != nil {
		return err
	}

	status := session.StatusActive
	if summary, ok := gateway.CutSummary(reply); ok {
		if err := s.sessions.End(ctx, chat.ID, summary); err != nil {
			return err
		}
		status = session.StatusEnded
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reply": reply, "status": string(status)})
}

// handleEnd summarizes and closes a chat. Ending an ended chat returns the
// stored summary.
func (s *Server) handleEnd(c *fiber.Ctx) error {
	var req endRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgBadRequest)
	}
	req.ChatID = strings.TrimSpace(req.ChatID)
	if req.ChatID == "" {
		return fiber.NewError(fiber.StatusBadRequest, msgNoChatID)
	}

	ctx := c.UserContext()
	chat, err := s.sessions.Get(ctx, req.ChatID)
	if errors.Is(err, session.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, msgNotFound)
	}
	if err != nil {
		return err
	}
	if chat.Ended() {
		return c.JSON(fiber.Map{"status": string(session.StatusEnded), "summary": chat.Summary})
	}

	history, err := s.messages.Context(ctx, chat.ID)
	if err != nil {
		return err
	}
	summary, err := s.assistant.Summarize(ctx, toTurns(history))
	if err != nil {
		s.log.Error().Err(err).Str("chat_id", chat.ID).Msg("summary request failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error from the model: "+err.Error())
	}

	if _, err := s.messages.Add(ctx, chat.ID, message.RoleAssistant, gateway.SummaryMarker+" "+summary); err != nil {
		return err
	}
	if err := s.sessions.End(ctx, chat.ID, summary); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": string(session.StatusEnded), "summary": summary})
}

// handleSearch ranks chats against the query.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgBadRequest)
	}
	if strings.TrimSpace(req.Query) == "" {
		return fiber.NewError(fiber.StatusBadRequest, msgNoQuery)
	}
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	ctx := c.UserContext()
	chats, err := s.sessions.List(ctx)
	if err != nil {
		return err
	}

	docs := make([]document, 0, len(chats))
	for _, chat := range chats {
		msgs, err := s.messages.History(ctx, chat.ID)
		if err != nil {
			return err
		}
		doc := document{chat: chat}
		for _, m := range msgs {
			if m.Role != message.RoleSystem {
				doc.messages = append(doc.messages, m.Content)
			}
		}
		docs = append(docs, doc)
	}

	hits := rank(req.Query, docs, limit)
	results := make([]fiber.Map, 0, len(hits))
	for _, h := range hits {
		results = append(results, fiber.Map{
			"chat_id": h.chat.ID,
			"title":   h.chat.Title,
			"status":  string(h.chat.Status),
			"score":   h.score,
			"snippet": h.snippet,
		})
	}
	return c.JSON(fiber.Map{"results": results})
}

func toTurns(msgs []*message.Message) []assistant.Turn {
	turns := make([]assistant.Turn, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == message.RoleSystem {
			continue
		}
		role := gateway.RoleAssistant
		if m.Role == message.RoleUser {
			role = gateway.RoleUser
		}
		turns = append(turns, assistant.Turn{Role: role, Content: m.Content})
	}
	return turns
}
