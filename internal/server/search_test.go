package server

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/guilhermegouw/parley/internal/session"
)

func doc(id, title string, msgs ...string) document {
	return document{chat: &session.Session{ID: id, Title: title}, messages: msgs}
}

func TestRank(t *testing.T) {
	docs := []document{
		doc("body", "Weekend plans", "We talked about golang channels"),
		doc("title", "Golang channels", "Buffered or not"),
		doc("none", "Cooking", "Pasta"),
		doc("partial", "Misc", "channels in rivers"),
	}

	hits := rank("Golang channels golang", docs, 10)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.chat.ID
	}
	if strings.Join(ids, ",") != "title,body,partial" {
		t.Fatalf("order = %v", ids)
	}
	for _, h := range hits {
		if h.score <= 0 || h.score > 1 {
			t.Errorf("%s score = %v", h.chat.ID, h.score)
		}
	}
	if hits[0].score != 2.0/3.0 {
		t.Errorf("title-only score = %v, want 2/3", hits[0].score)
	}

	if got := rank("golang", docs, 1); len(got) != 1 || got[0].chat.ID != "title" {
		t.Errorf("limit not applied: %+v", got)
	}
	if got := rank("   ", docs, 5); got != nil {
		t.Errorf("blank query matched %d docs", len(got))
	}
}

func TestRankFullCoverageScoresOne(t *testing.T) {
	hits := rank("go", []document{doc("a", "Go", "go go")}, 5)
	if len(hits) != 1 || hits[0].score != 1 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestSnippet(t *testing.T) {
	t.Run("short text is returned whole", func(t *testing.T) {
		if got := snippet("hello world", 6); got != "hello world" {
			t.Errorf("snippet = %q", got)
		}
	})

	t.Run("long text is windowed around the hit", func(t *testing.T) {
		text := strings.Repeat("a ", 100) + "needle" + strings.Repeat(" b", 100)
		got := snippet(text, strings.Index(text, "needle"))
		if !strings.Contains(got, "needle") {
			t.Errorf("snippet lost the hit: %q", got)
		}
		if !strings.HasPrefix(got, ellipsis) || !strings.HasSuffix(got, ellipsis) {
			t.Errorf("snippet should be cut on both sides: %q", got)
		}
	})

	t.Run("multibyte text stays valid", func(t *testing.T) {
		text := strings.Repeat("héllo wörld 👋🏽 ", 20)
		got := snippet(text, len(text)/2)
		if !utf8.ValidString(got) {
			t.Errorf("invalid utf-8 in %q", got)
		}
	})

	t.Run("snippet comes from the matching message", func(t *testing.T) {
		msgs := []string{"nothing here", "Found   the   NEEDLE"}
		lowered := []string{"nothing here", "found   the   needle"}
		if got := snippetFor(msgs, lowered, []string{"needle"}); got != "Found the NEEDLE" {
			t.Errorf("snippetFor = %q", got)
		}
	})
}
