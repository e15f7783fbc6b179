// Package assistant produces replies, titles and summaries for the
// development backend.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guilhermegouw/parley/internal/gateway"
)

// Prompts sent to the model.
const (
	TitlePrompt   = "Give a short, descriptive title for this conversation in not more than 5 words."
	SummaryPrompt = "Summarize this conversation in two or three sentences. Reply with the summary only."
)

const (
	maxTitleWords    = 5
	fallbackTitleLen = 50
)

// Purpose tells a Completer what a request is for.
type Purpose int

// Request purposes.
const (
	PurposeReply Purpose = iota
	PurposeTitle
	PurposeSummary
)

// Turn is one message of the conversation sent to the model.
type Turn struct {
	Role    gateway.Role
	Content string
}

// Request is a single completion request.
type Request struct {
	Purpose     Purpose
	System      string
	Turns       []Turn
	MaxTokens   int64
	Temperature *float64
}

// Completer turns a request into the model's text reply.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Options tune the requests an Assistant sends.
type Options struct {
	SystemPrompt string
	MaxTokens    int64
	Temperature  *float64
}

// Assistant wraps a Completer with the backend's prompts.
type Assistant struct {
	completer Completer
	opts      Options
}

// New creates an Assistant.
func New(completer Completer, opts Options) *Assistant {
	return &Assistant{completer: completer, opts: opts}
}

// Reply answers the last user turn given the whole history.
func (a *Assistant) Reply(ctx context.Context, history []Turn) (string, error) {
	reply, err := a.completer.Complete(ctx, Request{
		Purpose:     PurposeReply,
		System:      a.opts.SystemPrompt,
		Turns:       history,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return reply, nil
}

// Title names a conversation from its first prompt. It never fails: when the
// model errors or answers with nothing usable the prompt itself is cut down.
func (a *Assistant) Title(ctx context.Context, prompt string) string {
	raw, err := a.completer.Complete(ctx, Request{
		Purpose:     PurposeTitle,
		System:      TitlePrompt,
		Turns:       []Turn{{Role: gateway.RoleUser, Content: prompt}},
		MaxTokens:   32,
		Temperature: a.opts.Temperature,
	})
	if err == nil {
		if title := CleanTitle(raw); title != "" {
			return title
		}
	}
	return FallbackTitle(prompt)
}

// Summarize condenses the conversation into a short paragraph.
func (a *Assistant) Summarize(ctx context.Context, history []Turn) (string, error) {
	turns := append(append([]Turn(nil), history...), Turn{Role: gateway.RoleUser, Content: SummaryPrompt})
	summary, err := a.completer.Complete(ctx, Request{
		Purpose:     PurposeSummary,
		System:      a.opts.SystemPrompt,
		Turns:       turns,
		MaxTokens:   a.opts.MaxTokens,
		Temperature: a.opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("summarizing: %w", err)
	}
	if rest, ok := gateway.CutSummary(strings.TrimSpace(summary)); ok {
		summary = rest
	}
	return strings.TrimSpace(summary), nil
}

// CleanTitle keeps the first line of a model answer, strips quotes and
// trailing punctuation, and keeps at most five words.
func CleanTitle(raw string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	line = strings.TrimPrefix(strings.TrimSpace(line), "Title:")
	line = strings.Trim(strings.TrimSpace(line), `"'*.`)

	words := strings.Fields(line)
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	return strings.Join(words, " ")
}

// FallbackTitle returns the first fifty characters of the prompt.
func FallbackTitle(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if utf8.RuneCountInString(prompt) <= fallbackTitleLen {
		return prompt
	}
	return string([]rune(prompt)[:fallbackTitleLen])
}
