package conversation

import (
	"context"
	"strings"

	"github.com/guilhermegouw/parley/internal/gateway"
)

// DefaultSearchLimit is the number of results requested per search.
const DefaultSearchLimit = 5

// searchState is the search dialog. It is independent from the session and
// only reaches it through SelectResult.
type searchState struct {
	open      bool
	query     string
	lastQuery string
	seq       uint64
	pending   bool
	results   []gateway.SearchResult
	err       error
}

// clear resets everything but the sequence counter, so results of requests
// issued before the reset are still recognized as stale.
func (s *searchState) clear() {
	s.query = ""
	s.lastQuery = ""
	s.pending = false
	s.results = nil
	s.err = nil
}

func (s *searchState) noResults() bool {
	return s.lastQuery != "" && !s.pending && len(s.results) == 0 && s.err == nil
}

// OpenSearch shows the search dialog.
func (c *Controller) OpenSearch() {
	c.search.open = true
}

// DismissSearch closes the search dialog and discards its state.
func (c *Controller) DismissSearch() {
	c.search.open = false
	c.search.clear()
	c.search.seq++
}

// TriggerSearch starts a search for query. It returns nil when the trimmed
// query is empty. Results of earlier searches are discarded when they arrive.
func (c *Controller) TriggerSearch(query string) Task {
	c.search.query = query
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	c.search.open = true
	c.search.seq++
	c.search.lastQuery = trimmed
	c.search.pending = true
	c.search.results = nil
	c.search.err = nil

	seq, limit, gw := c.search.seq, c.searchLimit, c.gateway
	return func(ctx context.Context) Result {
		results, err := gw.Search(ctx, trimmed, limit)
		return SearchOutcome{Seq: seq, Query: trimmed, Results: results, Err: err}
	}
}

// SelectResult commits to the i-th search result. It closes the dialog and
// returns the navigation to perform.
func (c *Controller) SelectResult(i int) (Navigation, bool) {
	if i < 0 || i >= len(c.search.results) {
		return Navigation{}, false
	}
	chatID := c.search.results[i].ChatID
	c.DismissSearch()
	return Navigation{Route: RouteSession, SessionID: chatID}, true
}

func (c *Controller) applySearch(r SearchOutcome) {
	if r.Seq != c.search.seq || !c.search.pending {
		c.logf("discarding stale search %q (seq %d, latest %d)", r.Query, r.Seq, c.search.seq)
		return
	}
	c.search.pending = false
	if r.Err != nil {
		c.search.results = nil
		c.search.err = &Failure{Op: OpSearch, Err: r.Err}
		c.logError(r.Err, "search "+r.Query)
		return
	}
	c.search.results = r.Results
}
