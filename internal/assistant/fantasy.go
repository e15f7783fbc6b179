package assistant

import (
	"context"
	"errors"
	"strings"

	"charm.land/fantasy"

	"github.com/guilhermegouw/parley/internal/gateway"
)

// defaultMaxTokens is sent when a request sets none; Anthropic requires it.
const defaultMaxTokens = 8192

// ErrEmptyConversation is returned for a request without turns.
var ErrEmptyConversation = errors.New("conversation has no messages")

// FantasyCompleter streams completions from a fantasy language model.
type FantasyCompleter struct {
	model fantasy.LanguageModel
}

// NewFantasyCompleter creates a Completer backed by model.
func NewFantasyCompleter(model fantasy.LanguageModel) *FantasyCompleter {
	return &FantasyCompleter{model: model}
}

// Complete runs the request and returns the concatenated text deltas.
func (c *FantasyCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Turns) == 0 {
		return "", ErrEmptyConversation
	}
	last := req.Turns[len(req.Turns)-1]

	var messages []fantasy.Message
	if req.System != "" {
		messages = append(messages, fantasy.NewSystemMessage(req.System))
	}
	messages = append(messages, buildHistory(req.Turns[:len(req.Turns)-1])...)

	call := fantasy.AgentStreamCall{
		Prompt:   last.Content,
		Messages: messages,
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	call.MaxOutputTokens = &maxTokens
	if req.Temperature != nil {
		call.Temperature = req.Temperature
	}

	var reply strings.Builder
	call.OnTextDelta = func(_, text string) error {
		reply.WriteString(text)
		return nil
	}

	agent := fantasy.NewAgent(c.model)
	if _, err := agent.Stream(ctx, call); err != nil {
		return "", err
	}
	return reply.String(), nil
}

// buildHistory converts turns to fantasy messages.
func buildHistory(turns []Turn) []fantasy.Message {
	history := make([]fantasy.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case gateway.RoleUser:
			history = append(history, fantasy.NewUserMessage(t.Content))
		default:
			history = append(history, fantasy.Message{
				Role:    fantasy.MessageRoleAssistant,
				Content: []fantasy.MessagePart{fantasy.TextPart{Text: t.Content}},
			})
		}
	}
	return history
}
