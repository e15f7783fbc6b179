package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/guilhermegouw/parley/internal/gateway"
)

// EchoCompleter answers without a model so the backend runs offline.
type EchoCompleter struct{}

// Complete echoes the last user turn, or derives a title or summary from the
// conversation.
func (EchoCompleter) Complete(_ context.Context, req Request) (string, error) {
	var users []string
	for _, t := range req.Turns {
		if t.Role == gateway.RoleUser {
			users = append(users, t.Content)
		}
	}
	if len(users) == 0 {
		return "", ErrEmptyConversation
	}

	switch req.Purpose {
	case PurposeTitle:
		return users[0], nil
	case PurposeSummary:
		// The last user turn is the summary instruction itself.
		asked := users[:len(users)-1]
		if len(asked) == 0 {
			return "Nothing was discussed.", nil
		}
		return fmt.Sprintf("%d message(s) exchanged, starting with %q.",
			len(req.Turns)-1, FallbackTitle(asked[0])), nil
	default:
		return "You said: " + strings.TrimSpace(users[len(users)-1]), nil
	}
}
