package gateway

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrMalformedPayload is returned when a response body cannot be ingested.
var ErrMalformedPayload = errors.New("malformed payload")

// UntitledSession is shown for sessions the service has not titled yet.
const UntitledSession = "Untitled"

func parseRecentSessions(body []byte) ([]RecentSession, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	list := listOf(root, "sessions", "chats", "results")
	if !list.IsArray() {
		return nil, ErrMalformedPayload
	}

	items := list.Array()
	sessions := make([]RecentSession, 0, len(items))
	for _, item := range items {
		id := item.Get("id")
		if id.Type != gjson.String || strings.TrimSpace(id.String()) == "" {
			continue
		}
		sessions = append(sessions, RecentSession{
			ID:      id.String(),
			Title:   NormalizeTitle(item.Get("title").String()),
			Status:  ParseStatus(item.Get("status").String()),
			Created: parseTime(firstOf(item, "created_at", "created")),
		})
	}
	return sessions, nil
}

func parseHistory(body []byte) (History, error) {
	root, err := parseRoot(body)
	if err != nil {
		return History{}, err
	}

	history := History{Status: StatusActive}
	list := root
	if root.IsObject() {
		history.Status = ParseStatus(root.Get("status").String())
		list = root.Get("messages")
		if !list.Exists() || list.Type == gjson.Null {
			return history, nil
		}
	}
	if !list.IsArray() {
		return History{}, ErrMalformedPayload
	}

	items := list.Array()
	history.Messages = make([]Message, 0, len(items))
	for _, item := range items {
		msg, ok := parseMessage(item)
		if !ok {
			continue
		}
		history.Messages = append(history.Messages, msg)
	}
	return history, nil
}

func parsePromptReply(body []byte) (PromptReply, error) {
	root, err := parseRoot(body)
	if err != nil {
		return PromptReply{}, err
	}
	reply := root.Get("reply")
	if reply.Type != gjson.String {
		return PromptReply{}, ErrMalformedPayload
	}
	return PromptReply{
		Reply:  reply.String(),
		Status: ParseStatus(root.Get("status").String()),
	}, nil
}

func parseEndResult(body []byte) (EndResult, error) {
	root, err := parseRoot(body)
	if err != nil {
		return EndResult{}, err
	}
	if !root.IsObject() {
		return EndResult{}, ErrMalformedPayload
	}
	// The service only answers end requests once the session is closed, so a
	// missing status still means ended.
	status := StatusEnded
	if s := root.Get("status"); s.Exists() {
		status = ParseStatus(s.String())
	}
	return EndResult{
		Status:  status,
		Summary: strings.TrimSpace(root.Get("summary").String()),
	}, nil
}

func parseSearchResults(body []byte) ([]SearchResult, error) {
	root, err := parseRoot(body)
	if err != nil {
		return nil, err
	}
	list := listOf(root, "results")
	if !list.IsArray() {
		return nil, ErrMalformedPayload
	}

	items := list.Array()
	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		id := firstOf(item, "chat_id", "id")
		if strings.TrimSpace(id.String()) == "" {
			continue
		}
		results = append(results, SearchResult{
			ChatID:  id.String(),
			Title:   NormalizeTitle(item.Get("title").String()),
			Status:  ParseStatus(item.Get("status").String()),
			Score:   clampScore(item.Get("score").Float()),
			Snippet: strings.TrimSpace(item.Get("snippet").String()),
		})
	}
	return results, nil
}

// parseMessage maps a raw message. System turns are dropped and unknown roles
// become assistant turns.
func parseMessage(item gjson.Result) (Message, bool) {
	content := item.Get("content")
	if content.Type != gjson.String {
		return Message{}, false
	}
	role, ok := ParseRole(item.Get("role").String())
	if !ok {
		return Message{}, false
	}
	return Message{Role: role, Content: content.String()}, true
}

// ParseRole maps a raw role onto the two roles parley renders. The second
// return value is false for system turns, which are never shown.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RoleUser):
		return RoleUser, true
	case "system":
		return "", false
	default:
		return RoleAssistant, true
	}
}

// ParseStatus maps a raw status, treating anything but "ended" as active.
func ParseStatus(raw string) Status {
	if strings.EqualFold(strings.TrimSpace(raw), string(StatusEnded)) {
		return StatusEnded
	}
	return StatusActive
}

// NormalizeTitle strips matching surrounding quotes that title generators
// tend to add and substitutes a placeholder for empty titles.
func NormalizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if len(title) >= 2 {
		first, last := title[0], title[len(title)-1]
		if (first == '"' || first == '\'') && first == last {
			title = strings.TrimSpace(title[1 : len(title)-1])
		}
	}
	if title == "" {
		return UntitledSession
	}
	return title
}

func parseRoot(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrMalformedPayload
	}
	return gjson.ParseBytes(body), nil
}

// listOf returns root when it is already an array, otherwise the first
// array-valued key among keys.
func listOf(root gjson.Result, keys ...string) gjson.Result {
	if root.IsArray() {
		return root
	}
	for _, key := range keys {
		if v := root.Get(key); v.IsArray() {
			return v
		}
	}
	return gjson.Result{}
}

func firstOf(item gjson.Result, keys ...string) gjson.Result {
	for _, key := range keys {
		if v := item.Get(key); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func parseTime(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.String:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v.String()); err == nil {
				return t
			}
		}
	case gjson.Number:
		return time.UnixMilli(v.Int())
	}
	return time.Time{}
}

func clampScore(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
