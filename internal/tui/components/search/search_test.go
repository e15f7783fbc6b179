package search

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/gateway"
)

func typeText(d *Dialog, s string) {
	for _, r := range s {
		d.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func keyCmd(d *Dialog, code rune) tea.Msg {
	_, cmd := d.Update(tea.KeyPressMsg{Code: code})
	if cmd == nil {
		return nil
	}
	return cmd()
}

func results() []gateway.SearchResult {
	return []gateway.SearchResult{
		{ChatID: "a", Title: "Go Generics", Status: gateway.StatusActive, Score: 1, Snippet: "type parameters in Go"},
		{ChatID: "b", Title: "", Status: gateway.StatusEnded, Score: 0.5},
	}
}

func TestEnterTriggersThenPicks(t *testing.T) {
	d := New()
	d.SetWidth(90)
	d.Open()

	if msg := keyCmd(d, tea.KeyEnter); msg != nil {
		t.Errorf("empty query produced %#v", msg)
	}

	typeText(d, "go")
	if got, ok := keyCmd(d, tea.KeyEnter).(TriggerMsg); !ok || got.Query != "go" {
		t.Fatalf("got %#v, want TriggerMsg{go}", got)
	}

	d.SetView(conversation.SearchView{Open: true, Query: "go", LastQuery: "go", Pending: true})
	if msg := keyCmd(d, tea.KeyEnter); msg != nil {
		t.Errorf("enter while pending produced %#v", msg)
	}

	d.SetView(conversation.SearchView{Open: true, Query: "go", LastQuery: "go", Results: results()})
	keyCmd(d, tea.KeyDown)
	if got, ok := keyCmd(d, tea.KeyEnter).(PickMsg); !ok || got.Index != 1 {
		t.Errorf("got %#v, want PickMsg{1}", got)
	}

	typeText(d, "pher")
	if got, ok := keyCmd(d, tea.KeyEnter).(TriggerMsg); !ok || got.Query != "gopher" {
		t.Errorf("edited query: got %#v, want TriggerMsg{gopher}", got)
	}
}

func TestEscDismisses(t *testing.T) {
	d := New()
	d.Open()
	if _, ok := keyCmd(d, tea.KeyEscape).(DismissMsg); !ok {
		t.Error("esc should dismiss")
	}
}

func TestCursorClamped(t *testing.T) {
	d := New()
	d.SetView(conversation.SearchView{LastQuery: "go", Results: results()})
	for range 5 {
		keyCmd(d, tea.KeyDown)
	}
	if d.cursor != 1 {
		t.Errorf("cursor = %d, want 1", d.cursor)
	}
	d.SetView(conversation.SearchView{LastQuery: "rust", Results: results()[:1]})
	if d.cursor != 0 {
		t.Errorf("cursor = %d after new results, want 0", d.cursor)
	}
}

func TestView(t *testing.T) {
	tests := []struct {
		name string
		view conversation.SearchView
		want []string
	}{
		{"idle", conversation.SearchView{}, []string{"Search", "Type a query"}},
		{"pending", conversation.SearchView{LastQuery: "go", Pending: true}, []string{"Searching..."}},
		{"failed", conversation.SearchView{LastQuery: "go", Err: errors.New("offline")}, []string{"Search failed: offline"}},
		{"empty", conversation.SearchView{LastQuery: "go", NoResults: true}, []string{`No sessions match "go".`}},
		{"results", conversation.SearchView{LastQuery: "go", Results: results()}, []string{"Go Generics", "100%", "type parameters", "Untitled", "ended"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			d.SetWidth(120)
			d.SetView(tt.view)
			out := ansi.Strip(d.View())
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("view missing %q:\n%s", want, out)
				}
			}
		})
	}
}
