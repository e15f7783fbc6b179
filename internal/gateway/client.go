package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is where the assistant service listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultTimeout bounds a single request to the service.
const DefaultTimeout = 60 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client talks to the assistant service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RecentSessions fetches the recent sessions list.
func (c *Client) RecentSessions(ctx context.Context) ([]RecentSession, error) {
	body, err := c.do(ctx, http.MethodGet, "/recent_chat/", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching recent sessions: %w", err)
	}
	sessions, err := parseRecentSessions(body)
	if err != nil {
		return nil, fmt.Errorf("fetching recent sessions: %w", err)
	}
	return sessions, nil
}

// History fetches the messages of a session.
func (c *Client) History(ctx context.Context, sessionID string) (History, error) {
	if strings.TrimSpace(sessionID) == "" {
		return History{}, errors.New("session id is required")
	}
	path := "/get_chat_messages/" + url.PathEscape(sessionID) + "/"
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return History{}, ErrNotFound
		}
		return History{}, fmt.Errorf("fetching history: %w", err)
	}
	history, err := parseHistory(body)
	if err != nil {
		return History{}, fmt.Errorf("fetching history: %w", err)
	}
	return history, nil
}

// SubmitPrompt sends a prompt for a session.
func (c *Client) SubmitPrompt(ctx context.Context, sessionID, content string) (PromptReply, error) {
	req := map[string]string{
		"chat_id": sessionID,
		"content": content,
	}
	body, err := c.do(ctx, http.MethodPost, "/prompt_gpt/", req)
	if err != nil {
		return PromptReply{}, fmt.Errorf("submitting prompt: %w", err)
	}
	reply, err := parsePromptReply(body)
	if err != nil {
		return PromptReply{}, fmt.Errorf("submitting prompt: %w", err)
	}
	return reply, nil
}

// EndSession ends a session and returns its summary.
func (c *Client) EndSession(ctx context.Context, sessionID string) (EndResult, error) {
	req := map[string]string{"chat_id": sessionID}
	body, err := c.do(ctx, http.MethodPost, "/end_chat/", req)
	if err != nil {
		return EndResult{}, fmt.Errorf("ending session: %w", err)
	}
	result, err := parseEndResult(body)
	if err != nil {
		return EndResult{}, fmt.Errorf("ending session: %w", err)
	}
	return result, nil
}

// Search runs a session search.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	req := struct {
		Query string `json:"query"`
		Limit int    `json:"limit,omitempty"`
	}{
		Query: query,
		Limit: limit,
	}
	body, err := c.do(ctx, http.MethodPost, "/search_chats/", req)
	if err != nil {
		return nil, fmt.Errorf("searching sessions: %w", err)
	}
	results, err := parseSearchResults(body)
	if err != nil {
		return nil, fmt.Errorf("searching sessions: %w", err)
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp, body)
	}
	return body, nil
}

func decodeAPIError(resp *http.Response, body []byte) error {
	if gjson.ValidBytes(body) {
		for _, key := range []string{"error", "detail", "message"} {
			if msg := gjson.GetBytes(body, key); msg.Type == gjson.String && msg.String() != "" {
				return &APIError{StatusCode: resp.StatusCode, Message: msg.String()}
			}
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}
