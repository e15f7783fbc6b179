package conversation

import "github.com/guilhermegouw/parley/internal/gateway"

// View is a read-only copy of the controller state for rendering.
type View struct {
	SessionID string
	Route     Route
	Messages  []Message
	Status    gateway.Status
	Summary   string
	// HasSummary distinguishes an empty summary from none.
	HasSummary bool

	Fetching      bool
	PromptPending bool
	EndPending    bool
	CanEnd        bool
	CanPrompt     bool
	Failure       *Failure

	Search SearchView
}

// SearchView is the state of the search dialog.
type SearchView struct {
	Open      bool
	Query     string
	LastQuery string
	Pending   bool
	Results   []gateway.SearchResult
	Err       error
	NoResults bool
}

// Ended reports whether the session no longer accepts prompts.
func (v View) Ended() bool {
	return v.Status == gateway.StatusEnded
}

// RealMessageCount returns the number of non-placeholder messages.
func (v View) RealMessageCount() int {
	n := 0
	for _, m := range v.Messages {
		if !m.Placeholder {
			n++
		}
	}
	return n
}

// LastReply returns the newest assistant message that is not the placeholder.
func (v View) LastReply() (string, bool) {
	for i := len(v.Messages) - 1; i >= 0; i-- {
		m := v.Messages[i]
		if m.Role == gateway.RoleAssistant && !m.Placeholder {
			return m.Content, true
		}
	}
	return "", false
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() View {
	var failure *Failure
	if c.failure != nil {
		f := *c.failure
		failure = &f
	}
	results := make([]gateway.SearchResult, len(c.search.results))
	copy(results, c.search.results)

	return View{
		SessionID:     c.id,
		Route:         c.route,
		Messages:      c.timeline.snapshot(),
		Status:        c.status.status,
		Summary:       c.status.summary,
		HasSummary:    c.status.has,
		Fetching:      c.fetching,
		PromptPending: c.promptPending,
		EndPending:    c.endPending,
		CanEnd:        c.CanEnd(),
		CanPrompt:     c.id != "" && !c.status.ended() && !c.promptPending,
		Failure:       failure,
		Search: SearchView{
			Open:      c.search.open,
			Query:     c.search.query,
			LastQuery: c.search.lastQuery,
			Pending:   c.search.pending,
			Results:   results,
			Err:       c.search.err,
			NoResults: c.search.noResults(),
		},
	}
}
