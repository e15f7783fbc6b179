package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/tui/styles"
)

const wheelStep = 3

// MessageList displays the conversation timeline. Scrolling is tracked as
// an offset from the bottom so new messages stay in view.
type MessageList struct {
	messages []conversation.Message
	markdown *MarkdownRenderer
	lines    []string
	width    int
	height   int
	offset   int
	dirty    bool
}

// NewMessageList creates a new message list component.
func NewMessageList() *MessageList {
	return &MessageList{markdown: NewMarkdownRenderer(), dirty: true}
}

// SetMessages sets the messages to display. A growing timeline scrolls
// back to the bottom.
func (m *MessageList) SetMessages(messages []conversation.Message) {
	if len(messages) != len(m.messages) {
		m.offset = 0
	} else if sameMessages(messages, m.messages) {
		return
	}
	m.messages = messages
	m.dirty = true
}

func sameMessages(a, b []conversation.Message) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetSize sets the component size.
func (m *MessageList) SetSize(width, height int) {
	if width != m.width {
		m.dirty = true
	}
	m.width = width
	m.height = height
}

// ScrollUp scrolls towards older messages.
func (m *MessageList) ScrollUp(lines int) {
	m.render()
	m.offset = min(m.offset+lines, m.maxOffset())
}

// ScrollDown scrolls towards newer messages.
func (m *MessageList) ScrollDown(lines int) {
	m.offset = max(m.offset-lines, 0)
}

// PageUp scrolls up by one screen.
func (m *MessageList) PageUp() {
	m.ScrollUp(max(m.height-1, 1))
}

// PageDown scrolls down by one screen.
func (m *MessageList) PageDown() {
	m.ScrollDown(max(m.height-1, 1))
}

// AtBottom reports whether the newest line is visible.
func (m *MessageList) AtBottom() bool {
	return m.offset == 0
}

// Update handles mouse wheel scrolling.
func (m *MessageList) Update(msg tea.Msg) (*MessageList, tea.Cmd) {
	if wheel, ok := msg.(tea.MouseWheelMsg); ok {
		switch wheel.Button {
		case tea.MouseWheelUp:
			m.ScrollUp(wheelStep)
		case tea.MouseWheelDown:
			m.ScrollDown(wheelStep)
		}
	}
	return m, nil
}

func (m *MessageList) maxOffset() int {
	return max(len(m.lines)-m.height, 0)
}

// View renders the visible window of the timeline.
func (m *MessageList) View() string {
	t := styles.CurrentTheme()

	if len(m.messages) == 0 {
		empty := t.S().Muted.Render("Loading conversation...")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, empty)
	}

	m.render()
	m.offset = min(m.offset, m.maxOffset())

	end := len(m.lines) - m.offset
	start := max(end-m.height, 0)
	window := m.lines[start:end]

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(strings.Join(window, "\n"))
}

func (m *MessageList) render() {
	if !m.dirty {
		return
	}
	m.dirty = false

	contentWidth := max(m.width-4, 10)
	rendered := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		rendered = append(rendered, m.renderMessage(msg, contentWidth))
	}
	content := lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(rendered, "\n\n"))
	m.lines = strings.Split(content, "\n")
}

func (m *MessageList) renderMessage(msg conversation.Message, width int) string {
	t := styles.CurrentTheme()

	if msg.Placeholder {
		header := t.S().Primary.Bold(true).Render("Assistant")
		return lipgloss.JoinVertical(lipgloss.Left, header, t.S().Muted.Italic(true).Render(msg.Content))
	}

	if msg.Role == gateway.RoleUser {
		header := t.S().Text.Bold(true).Render("You")
		return lipgloss.JoinVertical(lipgloss.Left, header, t.S().Text.Width(width).Render(msg.Content))
	}

	header := t.S().Primary.Bold(true).Render("Assistant")
	body, err := m.markdown.Render(msg.Content, width)
	if err != nil {
		debug.Error("chat", err, "rendering markdown")
		body = t.S().Text.Width(width).Render(msg.Content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, strings.TrimRight(body, "\n"))
}
