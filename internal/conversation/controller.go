package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/gateway"
)

// Controller drives one chat screen. It is not safe for concurrent use: all
// methods must be called from the same event loop.
type Controller struct {
	gateway     gateway.Gateway
	invalidator Invalidator
	newID       func() string
	searchLimit int

	id       string
	route    Route
	timeline timeline
	status   statusMachine

	fetching      bool
	promptPending bool
	pendingPrompt string
	endPending    bool
	failure       *Failure

	search searchState
}

// Option configures a Controller.
type Option func(*Controller)

// WithInvalidator sets who is told when the recent sessions list changes.
func WithInvalidator(inv Invalidator) Option {
	return func(c *Controller) {
		if inv != nil {
			c.invalidator = inv
		}
	}
}

// WithSearchLimit sets the number of search results requested.
func WithSearchLimit(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.searchLimit = limit
		}
	}
}

// WithIDGenerator replaces the generator used for new session ids.
func WithIDGenerator(gen func() string) Option {
	return func(c *Controller) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// New creates a Controller backed by gw. No session is active until the
// first Navigate.
func New(gw gateway.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:     gw,
		invalidator: nopInvalidator{},
		newID:       uuid.NewString,
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timeline.reset()
	c.status.reset()
	return c
}

// Navigate resolves the active session for nav. Navigating to an explicit
// session returns a task fetching its history. Root and new routes get a
// fresh id and need no fetch, so they return nil.
func (c *Controller) Navigate(nav Navigation) Task {
	id := nav.SessionID
	if nav.Route != RouteSession || strings.TrimSpace(id) == "" {
		c.onSessionIDChanged(c.newID())
		c.route = nav.Route
		if c.route == RouteSession {
			c.route = RouteNew
		}
		return nil
	}

	if id != c.id {
		c.onSessionIDChanged(id)
	}
	c.route = RouteSession
	return c.fetch()
}

// onSessionIDChanged makes id the active session and drops everything that
// belonged to the previous one.
func (c *Controller) onSessionIDChanged(id string) {
	c.logf("session changed %q -> %q", c.id, id)
	c.id = id
	c.timeline.reset()
	c.status.reset()
	c.fetching = false
	c.promptPending = false
	c.pendingPrompt = ""
	c.endPending = false
	c.failure = nil
}

// Refresh refetches the active session's history. It returns nil for
// sessions that only exist locally.
func (c *Controller) Refresh() Task {
	if c.id == "" || c.route != RouteSession {
		return nil
	}
	return c.fetch()
}

func (c *Controller) fetch() Task {
	c.fetching = true
	id, gw := c.id, c.gateway
	return func(ctx context.Context) Result {
		history, err := gw.History(ctx, id)
		return HistoryResult{SessionID: id, History: history, Err: err}
	}
}

// SubmitPrompt appends content to the timeline and returns the task sending
// it. Nothing changes when an error is returned.
func (c *Controller) SubmitPrompt(content string) (Task, error) {
	content = strings.TrimSpace(content)
	switch {
	case c.id == "":
		return nil, ErrNoSession
	case c.status.ended():
		return nil, ErrSessionEnded
	case content == "":
		return nil, ErrEmptyPrompt
	case c.promptPending:
		return nil, ErrPromptPending
	}

	c.timeline.append(gateway.RoleUser, content)
	c.promptPending = true
	c.pendingPrompt = content
	c.failure = nil
	// The first prompt makes a fresh session addressable.
	c.route = RouteSession

	id, gw := c.id, c.gateway
	return func(ctx context.Context) Result {
		reply, err := gw.SubmitPrompt(ctx, id, content)
		return PromptResult{SessionID: id, Reply: reply, Err: err}
	}, nil
}

// CanEnd reports whether the end action is available.
func (c *Controller) CanEnd() bool {
	return c.id != "" &&
		!c.endPending &&
		!c.promptPending &&
		!c.status.ended() &&
		c.timeline.realCount() > 0
}

// EndSession returns the task ending the active session.
func (c *Controller) EndSession() (Task, error) {
	if !c.CanEnd() {
		return nil, ErrEndUnavailable
	}
	c.endPending = true
	c.failure = nil

	id, gw := c.id, c.gateway
	return func(ctx context.Context) Result {
		end, err := gw.EndSession(ctx, id)
		return EndResult{SessionID: id, End: end, Err: err}
	}, nil
}

// DismissFailure clears the error shown for the session.
func (c *Controller) DismissFailure() {
	c.failure = nil
}

// Apply folds the result of a task into the controller. It may return a
// follow-up task.
func (c *Controller) Apply(r Result) Task {
	switch r := r.(type) {
	case HistoryResult:
		c.applyHistory(r)
	case PromptResult:
		c.applyPrompt(r)
	case EndResult:
		return c.applyEnd(r)
	case SearchOutcome:
		c.applySearch(r)
	default:
		c.logf("ignoring unknown result %T", r)
	}
	return nil
}

func (c *Controller) applyHistory(r HistoryResult) {
	if r.SessionID != c.id {
		c.logf("discarding history for inactive session %q", r.SessionID)
		return
	}
	c.fetching = false

	history := r.History
	if r.Err != nil {
		if !errors.Is(r.Err, gateway.ErrNotFound) {
			c.fail(OpFetch, r.Err)
			return
		}
		history = gateway.History{Status: gateway.StatusActive}
	}

	if c.failure != nil && c.failure.Op == OpFetch {
		c.failure = nil
	}
	c.timeline.replace(history.Messages)
	// History fetched before the service stored an unanswered prompt must
	// not drop it from the timeline.
	if c.promptPending && !endsWithPrompt(history.Messages, c.pendingPrompt) {
		c.timeline.append(gateway.RoleUser, c.pendingPrompt)
	}
	c.status.observe(history.Status, c.timeline.real())
}

func endsWithPrompt(messages []gateway.Message, content string) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.Role == gateway.RoleUser && last.Content == content
}

func (c *Controller) applyPrompt(r PromptResult) {
	if r.SessionID != c.id {
		c.logf("discarding reply for inactive session %q", r.SessionID)
		if r.Err == nil {
			c.invalidator.Invalidate()
		}
		return
	}
	c.promptPending = false
	c.pendingPrompt = ""

	if r.Err != nil {
		c.fail(OpPrompt, r.Err)
		return
	}
	c.timeline.append(gateway.RoleAssistant, r.Reply.Reply)
	c.status.observe(r.Reply.Status, c.timeline.real())
	c.invalidator.Invalidate()
}

func (c *Controller) applyEnd(r EndResult) Task {
	if r.SessionID != c.id {
		c.logf("discarding end for inactive session %q", r.SessionID)
		if r.Err == nil {
			c.invalidator.Invalidate()
		}
		return nil
	}
	c.endPending = false

	if r.Err != nil {
		c.fail(OpEnd, r.Err)
		return nil
	}
	c.status.endExplicitly(r.End.Summary, c.timeline.real())
	c.invalidator.Invalidate()
	// The service records the summary as a message; pick it up.
	return c.fetch()
}

func (c *Controller) fail(op Op, err error) {
	c.failure = &Failure{Op: op, Err: err}
	c.logError(err, fmt.Sprintf("%s for session %q", op, c.id))
}

func (c *Controller) logf(format string, args ...any) {
	debug.Log("[conversation] "+format, args...)
}

func (c *Controller) logError(err error, what string) {
	debug.Error("conversation", err, what)
}
