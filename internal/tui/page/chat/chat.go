// Package chat provides the conversation page: the timeline, the ended
// panel, the status bar and the prompt input.
package chat

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/tui/styles"
	"github.com/guilhermegouw/parley/internal/tui/util"
)

// SubmitMsg asks the app to send the typed prompt.
type SubmitMsg struct {
	Content string
}

const (
	inputHeight     = 3
	statusHeight    = 1
	separatorHeight = 1
)

// Model is the chat page model.
type Model struct {
	messages *MessageList
	ended    *EndedPanel
	input    *Input
	status   *StatusBar
	view     conversation.View
	width    int
	height   int
}

// New creates a new chat page model.
func New() *Model {
	list := NewMessageList()
	return &Model{
		messages: list,
		ended:    NewEndedPanel(list.markdown),
		input:    NewInput(),
		status:   NewStatusBar(),
	}
}

// Init initializes the chat page.
func (m *Model) Init() tea.Cmd {
	return m.input.Init()
}

// SetView renders a new controller state.
func (m *Model) SetView(v conversation.View) {
	m.view = v
	m.messages.SetMessages(v.Messages)
	m.ended.Set(v.Ended(), v.Summary, v.HasSummary)
	m.status.SetView(v)

	m.input.SetEnabled(v.CanPrompt)
	switch {
	case v.Ended():
		m.input.SetPlaceholder("This session has ended. Press ctrl+n for a new one.")
	case v.PromptPending:
		m.input.SetPlaceholder("Waiting for the reply...")
	default:
		m.input.SetPlaceholder("Type a message...")
	}
}

// SetInfo shows a transient status message.
func (m *Model) SetInfo(msg util.InfoMsg) {
	m.status.SetInfo(msg)
}

// ClearInfo removes the transient status message.
func (m *Model) ClearInfo() {
	m.status.ClearInfo()
}

// ClearInput empties the prompt after it was accepted.
func (m *Model) ClearInput() {
	m.input.Clear()
}

// Update handles keys and mouse events aimed at the page.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		content := m.input.Value()
		if strings.TrimSpace(content) == "" {
			return m, nil
		}
		debug.Event("chat", "Submit", "prompt submitted")
		return m, util.CmdHandler(SubmitMsg{Content: content})
	case "pgup":
		m.messages.PageUp()
		return m, nil
	case "pgdown":
		m.messages.PageDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Focus gives the prompt input focus.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus from the prompt input.
func (m *Model) Blur() {
	m.input.Blur()
}

// SetSize sets the chat page size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ended.SetWidth(width)
	m.input.SetWidth(width)
	m.status.SetWidth(width)
}

func (m *Model) messagesAreaHeight() int {
	h := m.height - statusHeight - inputHeight - separatorHeight
	if m.ended.IsActive() {
		h -= m.ended.Height()
	}
	return max(h, 1)
}

// View renders the chat page.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	m.messages.SetSize(m.width, m.messagesAreaHeight())

	separator := lipgloss.NewStyle().
		Width(m.width).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		Render("")

	parts := []string{m.messages.View(), separator}
	if m.ended.IsActive() {
		parts = append(parts, m.ended.View())
	}
	parts = append(parts, m.input.View(), m.status.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Cursor returns the input cursor translated to page coordinates.
func (m *Model) Cursor() *tea.Cursor {
	c := m.input.Cursor()
	if c == nil {
		return nil
	}
	// Inside the input's border and padding, below the timeline.
	c.X += 2
	c.Y += m.height - statusHeight - inputHeight + 1
	return c
}

// StatusText returns the plain status bar text.
func (m *Model) StatusText() string {
	return m.status.Text()
}
