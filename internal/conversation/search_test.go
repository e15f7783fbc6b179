package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/guilhermegouw/parley/internal/gateway"
)

func TestTriggerSearch(t *testing.T) {
	t.Run("blank query never calls the gateway", func(t *testing.T) {
		gw := newFakeGateway()
		c := newTestController(gw, nil)

		for _, q := range []string{"", "   ", "\t\n"} {
			if task := c.TriggerSearch(q); task != nil {
				t.Errorf("TriggerSearch(%q) returned a task", q)
			}
		}
		if gw.calls["search"] != 0 {
			t.Errorf("search calls = %d, want 0", gw.calls["search"])
		}
		if c.Snapshot().Search.NoResults {
			t.Error("no query submitted, NoResults must be false")
		}
	})

	t.Run("results keep collaborator order", func(t *testing.T) {
		gw := newFakeGateway()
		gw.search["greetings"] = []gateway.SearchResult{
			{ChatID: "b", Score: 0.2},
			{ChatID: "a", Score: 0.9},
		}
		c := newTestController(gw, nil)

		run(t, c, c.TriggerSearch("  greetings "))
		s := c.Snapshot().Search
		if s.LastQuery != "greetings" || s.Pending {
			t.Errorf("unexpected search state: %+v", s)
		}
		if len(s.Results) != 2 || s.Results[0].ChatID != "b" || s.Results[1].ChatID != "a" {
			t.Errorf("results = %+v", s.Results)
		}
	})

	t.Run("late results of a superseded query are discarded", func(t *testing.T) {
		gw := newFakeGateway()
		gw.search["q1"] = []gateway.SearchResult{{ChatID: "one"}}
		gw.search["q2"] = []gateway.SearchResult{{ChatID: "two"}}
		c := newTestController(gw, nil)

		t1 := c.TriggerSearch("q1")
		t2 := c.TriggerSearch("q2")
		r2 := t2(context.Background())
		r1 := t1(context.Background())
		c.Apply(r2)
		c.Apply(r1)

		s := c.Snapshot().Search
		if s.LastQuery != "q2" {
			t.Errorf("LastQuery = %q, want q2", s.LastQuery)
		}
		if len(s.Results) != 1 || s.Results[0].ChatID != "two" {
			t.Errorf("results = %+v, want q2's", s.Results)
		}
	})

	t.Run("no results condition", func(t *testing.T) {
		gw := newFakeGateway()
		c := newTestController(gw, nil)

		task := c.TriggerSearch("nothing")
		if c.Snapshot().Search.NoResults {
			t.Error("pending search must not report no results")
		}
		run(t, c, task)
		if !c.Snapshot().Search.NoResults {
			t.Error("expected NoResults after empty response")
		}
	})

	t.Run("failure clears previous results and stays inline", func(t *testing.T) {
		gw := newFakeGateway()
		gw.search["ok"] = []gateway.SearchResult{{ChatID: "x"}}
		gw.history["abc"] = gateway.History{
			Messages: []gateway.Message{{Role: gateway.RoleUser, Content: "hi"}},
		}
		c := newTestController(gw, nil)
		run(t, c, c.Navigate(Navigation{Route: RouteSession, SessionID: "abc"}))
		run(t, c, c.TriggerSearch("ok"))

		gw.searchErr = errors.New("index offline")
		run(t, c, c.TriggerSearch("again"))

		v := c.Snapshot()
		if v.Search.Err == nil {
			t.Fatal("expected search error")
		}
		if len(v.Search.Results) != 0 || v.Search.NoResults {
			t.Errorf("results = %+v, NoResults = %v", v.Search.Results, v.Search.NoResults)
		}
		if v.Failure != nil {
			t.Errorf("session failure = %v, want nil", v.Failure)
		}
		if !v.CanPrompt {
			t.Error("search failure must not disable prompting")
		}
	})
}

func TestSelectResult(t *testing.T) {
	gw := newFakeGateway()
	gw.search["greetings"] = []gateway.SearchResult{{ChatID: "chat-7", Title: "Greetings"}}
	c := newTestController(gw, nil)
	c.Navigate(Navigation{Route: RouteNew})
	before := c.Snapshot()

	c.OpenSearch()
	run(t, c, c.TriggerSearch("greetings"))

	if _, ok := c.SelectResult(5); ok {
		t.Error("out of range selection should fail")
	}

	nav, ok := c.SelectResult(0)
	if !ok {
		t.Fatal("SelectResult(0) failed")
	}
	if nav.Route != RouteSession || nav.SessionID != "chat-7" {
		t.Errorf("nav = %+v", nav)
	}

	v := c.Snapshot()
	if v.Search.Open || v.Search.Query != "" || v.Search.LastQuery != "" || len(v.Search.Results) != 0 || v.Search.Err != nil {
		t.Errorf("search state not cleared: %+v", v.Search)
	}
	if v.SessionID != before.SessionID {
		t.Error("selecting must not change the session until navigation")
	}
}

func TestDismissSearch(t *testing.T) {
	gw := newFakeGateway()
	gw.search["q"] = []gateway.SearchResult{{ChatID: "x"}}
	c := newTestController(gw, nil)

	task := c.TriggerSearch("q")
	c.DismissSearch()
	c.Apply(task(context.Background()))

	s := c.Snapshot().Search
	if s.Open || len(s.Results) != 0 || s.LastQuery != "" {
		t.Errorf("dismissed search received results: %+v", s)
	}
}
