// Package conversation implements the session controller behind the chat
// screen.
//
// A Controller owns the active session identity, its message timeline, its
// active/ended status and the search dialog state. It never performs I/O
// itself: operations that need the remote service return a Task, the caller
// runs the task off the event loop, and the Result is fed back through
// Controller.Apply. Apply is the only place asynchronous results touch state,
// so staleness checks live there.
package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/guilhermegouw/parley/internal/gateway"
)

// Placeholder is the greeting shown when a session has no real messages.
const Placeholder = "Welcome! I'm here to assist you."

// Gate errors returned when an action is not allowed in the current state.
var (
	ErrNoSession      = errors.New("no active session")
	ErrSessionEnded   = errors.New("session has ended")
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrPromptPending  = errors.New("a prompt is already pending")
	ErrEndUnavailable = errors.New("session cannot be ended now")
)

// Route is the kind of screen being navigated to.
type Route int

// Route constants.
const (
	RouteRoot Route = iota
	RouteNew
	RouteSession
)

func (r Route) String() string {
	switch r {
	case RouteRoot:
		return "root"
	case RouteNew:
		return "new"
	case RouteSession:
		return "session"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// Navigation is a request to show a session. SessionID is only meaningful
// for RouteSession.
type Navigation struct {
	Route     Route
	SessionID string
}

// Op names the remote operation a Failure came from.
type Op string

// Op constants.
const (
	OpFetch  Op = "fetch"
	OpPrompt Op = "prompt"
	OpEnd    Op = "end"
	OpSearch Op = "search"
)

// Failure is a remote error converted into controller state.
type Failure struct {
	Op  Op
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Task is a deferred remote call. It is safe to run on any goroutine.
type Task func(ctx context.Context) Result

// Result is the tagged outcome of a Task.
type Result interface {
	isResult()
}

// HistoryResult carries a history fetch for SessionID.
type HistoryResult struct {
	SessionID string
	History   gateway.History
	Err       error
}

// PromptResult carries the reply to a prompt sent for SessionID.
type PromptResult struct {
	SessionID string
	Reply     gateway.PromptReply
	Err       error
}

// EndResult carries the outcome of ending SessionID.
type EndResult struct {
	SessionID string
	End       gateway.EndResult
	Err       error
}

// SearchOutcome carries the results of the search with sequence number Seq.
type SearchOutcome struct {
	Seq     uint64
	Query   string
	Results []gateway.SearchResult
	Err     error
}

func (HistoryResult) isResult() {}
func (PromptResult) isResult()  {}
func (EndResult) isResult()     {}
func (SearchOutcome) isResult() {}
