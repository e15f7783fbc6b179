package conversation

import "github.com/guilhermegouw/parley/internal/gateway"

// Message is one entry of the rendered timeline.
type Message struct {
	Role        gateway.Role
	Content     string
	Placeholder bool
}

func placeholderMessage() Message {
	return Message{Role: gateway.RoleAssistant, Content: Placeholder, Placeholder: true}
}

// timeline is the ordered message list of the active session. It is either
// exactly the placeholder or a list of real messages, never both.
type timeline struct {
	messages []Message
}

func (t *timeline) reset() {
	t.messages = []Message{placeholderMessage()}
}

// replace adopts server history. Empty history falls back to the placeholder.
func (t *timeline) replace(history []gateway.Message) {
	if len(history) == 0 {
		t.reset()
		return
	}
	t.messages = make([]Message, 0, len(history))
	for _, m := range history {
		t.messages = append(t.messages, Message{Role: m.Role, Content: m.Content})
	}
}

func (t *timeline) append(role gateway.Role, content string) {
	t.stripPlaceholder()
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

func (t *timeline) stripPlaceholder() {
	kept := t.messages[:0]
	for _, m := range t.messages {
		if !m.Placeholder {
			kept = append(kept, m)
		}
	}
	t.messages = kept
}

// real returns the messages that are actual conversation turns.
func (t *timeline) real() []gateway.Message {
	out := make([]gateway.Message, 0, len(t.messages))
	for _, m := range t.messages {
		if m.Placeholder {
			continue
		}
		out = append(out, gateway.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func (t *timeline) realCount() int {
	n := 0
	for _, m := range t.messages {
		if !m.Placeholder {
			n++
		}
	}
	return n
}

func (t *timeline) snapshot() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
