package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/guilhermegouw/parley/internal/gateway"
)

type stubCompleter struct {
	reply string
	err   error
	got   []Request
}

func (s *stubCompleter) Complete(_ context.Context, req Request) (string, error) {
	s.got = append(s.got, req)
	return s.reply, s.err
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Friendly Greeting", "Friendly Greeting"},
		{`"Quoted Title"`, "Quoted Title"},
		{"Title: Go Concurrency Basics.", "Go Concurrency Basics"},
		{"One two three four five six seven", "One two three four five"},
		{"First line\nsecond line", "First line"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := CleanTitle(tt.in); got != tt.want {
			t.Errorf("CleanTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFallbackTitle(t *testing.T) {
	long := strings.Repeat("é", 60)
	if got := FallbackTitle(long); got != strings.Repeat("é", 50) {
		t.Errorf("FallbackTitle() kept %d runes", len([]rune(got)))
	}
	if got := FallbackTitle("  short  "); got != "short" {
		t.Errorf("FallbackTitle() = %q", got)
	}
}

func TestAssistant_Title(t *testing.T) {
	t.Run("uses the model answer", func(t *testing.T) {
		stub := &stubCompleter{reply: `"Saying Hello"`}
		a := New(stub, Options{})
		if got := a.Title(context.Background(), "Hello"); got != "Saying Hello" {
			t.Errorf("Title() = %q", got)
		}
		if stub.got[0].Purpose != PurposeTitle || stub.got[0].System != TitlePrompt {
			t.Errorf("request = %+v", stub.got[0])
		}
	})

	t.Run("falls back on error", func(t *testing.T) {
		a := New(&stubCompleter{err: errors.New("offline")}, Options{})
		prompt := strings.Repeat("a", 80)
		if got := a.Title(context.Background(), prompt); got != prompt[:50] {
			t.Errorf("Title() = %q", got)
		}
	})

	t.Run("falls back on empty answer", func(t *testing.T) {
		a := New(&stubCompleter{reply: "  "}, Options{})
		if got := a.Title(context.Background(), "Hello"); got != "Hello" {
			t.Errorf("Title() = %q", got)
		}
	})
}

func TestAssistant_Reply(t *testing.T) {
	temp := 0.7
	stub := &stubCompleter{reply: "Hi there"}
	a := New(stub, Options{SystemPrompt: "You are a helpful assistant.", MaxTokens: 500, Temperature: &temp})

	got, err := a.Reply(context.Background(), []Turn{{Role: gateway.RoleUser, Content: "Hello"}})
	if err != nil || got != "Hi there" {
		t.Fatalf("Reply() = %q, %v", got, err)
	}
	req := stub.got[0]
	if req.System != "You are a helpful assistant." || req.MaxTokens != 500 || *req.Temperature != 0.7 {
		t.Errorf("request = %+v", req)
	}

	stub.err = errors.New("boom")
	if _, err := a.Reply(context.Background(), nil); err == nil {
		t.Error("expected error")
	}
}

func TestAssistant_Summarize(t *testing.T) {
	stub := &stubCompleter{reply: "Summary: Discussed greetings. "}
	a := New(stub, Options{})
	history := []Turn{
		{Role: gateway.RoleUser, Content: "Hello"},
		{Role: gateway.RoleAssistant, Content: "Hi there"},
	}

	got, err := a.Summarize(context.Background(), history)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Discussed greetings." {
		t.Errorf("Summarize() = %q, want marker stripped", got)
	}
	turns := stub.got[0].Turns
	if len(turns) != 3 || turns[2].Content != SummaryPrompt {
		t.Errorf("turns = %+v", turns)
	}
	if len(history) != 2 {
		t.Error("history was modified")
	}
}

func TestEchoCompleter(t *testing.T) {
	ctx := context.Background()
	var echo EchoCompleter

	reply, err := echo.Complete(ctx, Request{Turns: []Turn{{Role: gateway.RoleUser, Content: " Hello "}}})
	if err != nil || reply != "You said: Hello" {
		t.Errorf("reply = %q, %v", reply, err)
	}

	a := New(echo, Options{})
	if title := a.Title(ctx, "How do goroutines work in practice today"); title != "How do goroutines work in" {
		t.Errorf("title = %q", title)
	}

	summary, err := a.Summarize(ctx, []Turn{
		{Role: gateway.RoleUser, Content: "Hello"},
		{Role: gateway.RoleAssistant, Content: "You said: Hello"},
	})
	if err != nil || !strings.Contains(summary, `"Hello"`) {
		t.Errorf("summary = %q, %v", summary, err)
	}

	if _, err := echo.Complete(ctx, Request{}); !errors.Is(err, ErrEmptyConversation) {
		t.Errorf("err = %v", err)
	}
}
