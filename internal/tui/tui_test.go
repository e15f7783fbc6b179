package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/parley/internal/bridge"
	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/events"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/pubsub"
	"github.com/guilhermegouw/parley/internal/tui/components/search"
	"github.com/guilhermegouw/parley/internal/tui/components/sidebar"
	"github.com/guilhermegouw/parley/internal/tui/page/chat"
	"github.com/guilhermegouw/parley/internal/tui/util"
)

// fakeGateway is an in-memory service.
type fakeGateway struct {
	mu       sync.Mutex
	sessions map[string]*gateway.History
	recent   []gateway.RecentSession
	results  []gateway.SearchResult
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*gateway.History{}}
}

func (g *fakeGateway) RecentSessions(context.Context) ([]gateway.RecentSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recent, nil
}

func (g *fakeGateway) History(_ context.Context, id string) (gateway.History, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.sessions[id]
	if !ok {
		return gateway.History{}, gateway.ErrNotFound
	}
	return gateway.History{Status: h.Status, Messages: append([]gateway.Message(nil), h.Messages...)}, nil
}

func (g *fakeGateway) SubmitPrompt(_ context.Context, id, content string) (gateway.PromptReply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.sessions[id]
	if !ok {
		h = &gateway.History{Status: gateway.StatusActive}
		g.sessions[id] = h
	}
	reply := "Echo: " + content
	h.Messages = append(h.Messages,
		gateway.Message{Role: gateway.RoleUser, Content: content},
		gateway.Message{Role: gateway.RoleAssistant, Content: reply},
	)
	return gateway.PromptReply{Reply: reply, Status: gateway.StatusActive}, nil
}

func (g *fakeGateway) EndSession(_ context.Context, id string) (gateway.EndResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	h, ok := g.sessions[id]
	if !ok {
		return gateway.EndResult{}, gateway.ErrNotFound
	}
	h.Status = gateway.StatusEnded
	h.Messages = append(h.Messages, gateway.Message{Role: gateway.RoleAssistant, Content: "Summary: We said hi."})
	return gateway.EndResult{Status: gateway.StatusEnded, Summary: "We said hi."}, nil
}

func (g *fakeGateway) Search(context.Context, string, int) ([]gateway.SearchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.results, nil
}

// fakeRecent serves a fixed list.
type fakeRecent struct {
	sessions []gateway.RecentSession
	err      error
}

func (r *fakeRecent) List(context.Context) ([]gateway.RecentSession, error) {
	return r.sessions, r.err
}

func (r *fakeRecent) Cached() ([]gateway.RecentSession, bool) {
	return r.sessions, r.sessions != nil
}

func newTestModel(t *testing.T, gw *fakeGateway, rl *fakeRecent) (*Model, *int) {
	t.Helper()
	invalidations := 0
	ctrl := conversation.New(gw,
		conversation.WithInvalidator(conversation.InvalidatorFunc(func() { invalidations++ })),
		conversation.WithIDGenerator(func() string { return "fresh" }),
	)
	m := New(context.Background(), ctrl, rl, conversation.Navigation{Route: conversation.RouteRoot})
	m.ctrl.Navigate(m.initial)
	m.sync()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, &invalidations
}

// drain runs cmd and feeds controller results back until no task remains.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for range 10 {
		if cmd == nil {
			return
		}
		msg := cmd()
		res, ok := msg.(resultMsg)
		if !ok {
			m.Update(msg)
			return
		}
		_, cmd = m.Update(res)
	}
	t.Fatal("task chain did not settle")
}

// applyResults runs every command of a batch and applies the controller
// results among their messages.
func applyResults(m *Model, cmd tea.Cmd) {
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case resultMsg:
			m.Update(msg)
		}
	}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func TestPromptFlow(t *testing.T) {
	gw := newFakeGateway()
	m, invalidations := newTestModel(t, gw, &fakeRecent{})

	v := m.ctrl.Snapshot()
	if v.SessionID != "fresh" || len(v.Messages) != 1 || !v.Messages[0].Placeholder {
		t.Fatalf("initial view = %+v", v)
	}

	_, cmd := m.Update(chat.SubmitMsg{Content: "Hello"})
	if !m.ctrl.Snapshot().PromptPending {
		t.Error("prompt should be pending before the reply")
	}
	if m.chatPage.StatusText() != "Thinking..." {
		t.Errorf("status = %q, want Thinking...", m.chatPage.StatusText())
	}
	drain(t, m, cmd)

	v = m.ctrl.Snapshot()
	if reply, ok := v.LastReply(); !ok || reply != "Echo: Hello" {
		t.Errorf("last reply = %q, %v", reply, ok)
	}
	if *invalidations == 0 {
		t.Error("a new session should invalidate the recent list")
	}

	_, cmd = m.Update(chat.SubmitMsg{Content: "   "})
	if cmd == nil {
		t.Fatal("blank prompt should report a warning")
	}
	if info, ok := cmd().(util.InfoMsg); !ok || info.Type != util.InfoTypeWarn {
		t.Errorf("got %#v, want a warning", info)
	}
}

func TestEndSessionAndCopy(t *testing.T) {
	gw := newFakeGateway()
	m, _ := newTestModel(t, gw, &fakeRecent{})

	var copied string
	old := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = old })

	_, cmd := m.Update(ctrlKey('e'))
	if info, ok := cmd().(util.InfoMsg); !ok || info.Type != util.InfoTypeWarn {
		t.Error("ending an empty session should warn")
	}

	_, cmd = m.Update(chat.SubmitMsg{Content: "Hi"})
	drain(t, m, cmd)

	_, cmd = m.Update(ctrlKey('y'))
	cmd()
	if copied != "Echo: Hi" {
		t.Errorf("copied %q, want the last reply", copied)
	}

	_, cmd = m.Update(ctrlKey('e'))
	if m.chatPage.StatusText() != "Summarizing..." {
		t.Errorf("status = %q, want Summarizing...", m.chatPage.StatusText())
	}
	drain(t, m, cmd)

	v := m.ctrl.Snapshot()
	if !v.Ended() || v.Summary != "We said hi." {
		t.Fatalf("view after end = %+v", v)
	}
	if v.CanPrompt {
		t.Error("an ended session should not accept prompts")
	}

	_, cmd = m.Update(ctrlKey('y'))
	cmd()
	if copied != "We said hi." {
		t.Errorf("copied %q, want the summary", copied)
	}

	out := ansi.Strip(m.View().Content)
	if !strings.Contains(out, "Session ended") {
		t.Errorf("ended panel missing:\n%s", out)
	}
}

func TestCopyFailure(t *testing.T) {
	m, _ := newTestModel(t, newFakeGateway(), &fakeRecent{})
	old := copyToClipboard
	copyToClipboard = func(string) error { return errors.New("no display") }
	t.Cleanup(func() { copyToClipboard = old })

	_, cmd := m.Update(ctrlKey('y'))
	if info := cmd().(util.InfoMsg); !strings.Contains(info.Msg, "Nothing to copy") {
		t.Errorf("got %q", info.Msg)
	}

	_, cmd = m.Update(chat.SubmitMsg{Content: "Hi"})
	drain(t, m, cmd)
	_, cmd = m.Update(ctrlKey('y'))
	if info := cmd().(util.InfoMsg); !strings.Contains(info.Msg, "no display") {
		t.Errorf("got %q", info.Msg)
	}
}

func TestSidebarSelectsSession(t *testing.T) {
	gw := newFakeGateway()
	gw.sessions["old"] = &gateway.History{
		Status:   gateway.StatusActive,
		Messages: []gateway.Message{{Role: gateway.RoleUser, Content: "Earlier"}},
	}
	rl := &fakeRecent{sessions: []gateway.RecentSession{
		{ID: "fresh", Title: "Current", Created: time.Now()},
		{ID: "old", Title: "Earlier chat", Created: time.Now()},
	}}
	m, _ := newTestModel(t, gw, rl)

	m.Update(recentLoadedMsg{sessions: rl.sessions})
	if m.sidebar.Len() != 2 {
		t.Fatalf("sidebar has %d sessions", m.sidebar.Len())
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !m.sidebar.Focused() {
		t.Fatal("tab should focus the sidebar")
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	selected, ok := cmd().(sidebar.SelectedMsg)
	if !ok || selected.SessionID != "old" {
		t.Fatalf("got %#v", selected)
	}

	_, cmd = m.Update(selected)
	if m.sidebar.Focused() {
		t.Error("selecting should return focus to the chat")
	}
	applyResults(m, cmd)

	v := m.ctrl.Snapshot()
	if v.SessionID != "old" || v.RealMessageCount() != 1 {
		t.Errorf("view after select = %+v", v)
	}
}

func TestRecentEvents(t *testing.T) {
	rl := &fakeRecent{}
	m, _ := newTestModel(t, newFakeGateway(), rl)

	m.Update(bridge.RecentEventMsg{Event: pubsub.Event[events.RecentEvent]{
		Payload: events.NewRecentFailedEvent(errors.New("offline")),
	}})
	if out := ansi.Strip(m.sidebar.View()); !strings.Contains(out, "Could not load") {
		t.Errorf("sidebar should show the failure:\n%s", out)
	}

	rl.sessions = []gateway.RecentSession{{ID: "a", Title: "Refreshed", Created: time.Now()}}
	m.Update(bridge.RecentEventMsg{Event: pubsub.Event[events.RecentEvent]{
		Payload: events.NewRecentRefreshedEvent(1),
	}})
	if m.sidebar.Len() != 1 {
		t.Errorf("sidebar has %d sessions after refresh", m.sidebar.Len())
	}
}

func TestSearchFlow(t *testing.T) {
	gw := newFakeGateway()
	gw.sessions["s9"] = &gateway.History{
		Status:   gateway.StatusEnded,
		Messages: []gateway.Message{{Role: gateway.RoleUser, Content: "generics"}},
	}
	gw.results = []gateway.SearchResult{{ChatID: "s9", Title: "Go Generics", Score: 1}}
	m, _ := newTestModel(t, gw, &fakeRecent{})

	m.Update(ctrlKey('f'))
	if !m.ctrl.Snapshot().Search.Open {
		t.Fatal("ctrl+f should open search")
	}

	_, cmd := m.Update(search.TriggerMsg{Query: "generics"})
	drain(t, m, cmd)
	if got := m.ctrl.Snapshot().Search.Results; len(got) != 1 {
		t.Fatalf("results = %+v", got)
	}
	if out := ansi.Strip(m.View().Content); !strings.Contains(out, "Go Generics") {
		t.Errorf("dialog missing result:\n%s", out)
	}

	_, cmd = m.Update(search.PickMsg{Index: 0})
	applyResults(m, cmd)

	v := m.ctrl.Snapshot()
	if v.Search.Open || v.SessionID != "s9" || !v.Ended() {
		t.Errorf("view after pick = %+v", v)
	}

	m.Update(ctrlKey('f'))
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m.Update(cmd())
	if m.ctrl.Snapshot().Search.Open {
		t.Error("esc should close search")
	}
}

func TestNewSessionKey(t *testing.T) {
	n := 0
	ctrl := conversation.New(newFakeGateway(),
		conversation.WithIDGenerator(func() string { n++; return "id" + string(rune('0'+n)) }),
	)
	m := New(context.Background(), ctrl, &fakeRecent{}, conversation.Navigation{Route: conversation.RouteRoot})
	m.ctrl.Navigate(m.initial)
	m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})

	first := m.ctrl.Snapshot().SessionID
	m.Update(ctrlKey('n'))
	if second := m.ctrl.Snapshot().SessionID; second == first {
		t.Errorf("ctrl+n kept session %q", first)
	}

	// Narrow terminals hide the sidebar, so tab does nothing.
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.sidebar.Focused() {
		t.Error("hidden sidebar should not take focus")
	}
}

func TestViewBeforeResize(t *testing.T) {
	ctrl := conversation.New(newFakeGateway())
	m := New(context.Background(), ctrl, nil, conversation.Navigation{})
	if got := m.View().Content; got != "Loading..." {
		t.Errorf("View() = %q", got)
	}
}
