package chat

import (
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/tui/styles"
	"github.com/guilhermegouw/parley/internal/tui/util"
)

// Status is what the status bar shows on its left side.
type Status int

// Statuses, in order of precedence.
const (
	StatusReady Status = iota
	StatusLoading
	StatusThinking
	StatusSummarizing
	StatusEnded
	StatusError
)

// StatusFor derives the status from the controller view.
func StatusFor(v conversation.View) Status {
	switch {
	case v.Failure != nil:
		return StatusError
	case v.EndPending:
		return StatusSummarizing
	case v.PromptPending:
		return StatusThinking
	case v.Ended():
		return StatusEnded
	case v.Fetching:
		return StatusLoading
	default:
		return StatusReady
	}
}

// StatusBar displays the conversation status and key hints.
type StatusBar struct {
	status   Status
	errorMsg string
	canEnd   bool
	info     *util.InfoMsg
	width    int
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{status: StatusReady}
}

// SetView updates the bar from the controller view.
func (s *StatusBar) SetView(v conversation.View) {
	s.status = StatusFor(v)
	s.canEnd = v.CanEnd
	s.errorMsg = ""
	if v.Failure != nil {
		s.errorMsg = v.Failure.Error()
	}
}

// SetInfo shows a transient message until ClearInfo.
func (s *StatusBar) SetInfo(msg util.InfoMsg) {
	s.info = &msg
}

// ClearInfo removes the transient message.
func (s *StatusBar) ClearInfo() {
	s.info = nil
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// Text returns the plain status text.
func (s *StatusBar) Text() string {
	switch s.status {
	case StatusLoading:
		return "Loading..."
	case StatusThinking:
		return "Thinking..."
	case StatusSummarizing:
		return "Summarizing..."
	case StatusEnded:
		return "Session ended"
	case StatusError:
		return "Error: " + s.errorMsg
	default:
		return "Ready"
	}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := styles.CurrentTheme()

	var statusStyle lipgloss.Style
	switch s.status {
	case StatusReady:
		statusStyle = t.S().Success
	case StatusLoading, StatusThinking, StatusSummarizing:
		statusStyle = t.S().Info
	case StatusEnded:
		statusStyle = t.S().Warning
	case StatusError:
		statusStyle = t.S().Error
	}
	left := statusStyle.Render(s.Text())
	if s.info != nil {
		infoStyle := t.S().Muted
		switch s.info.Type {
		case util.InfoTypeWarn:
			infoStyle = t.S().Warning
		case util.InfoTypeError:
			infoStyle = t.S().Error
		}
		left += "  " + infoStyle.Render(s.info.Msg)
	}

	right := t.S().Muted.Render(s.hints())

	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	content := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return lipgloss.NewStyle().
		Width(s.width).
		Padding(0, 1).
		Background(t.BgSubtle).
		Render(content)
}

func (s *StatusBar) hints() string {
	switch {
	case s.status == StatusError:
		return "esc dismiss • ctrl+n new • ctrl+c quit"
	case s.status == StatusEnded:
		return "ctrl+y copy summary • ctrl+n new • ctrl+f search"
	case s.canEnd:
		return "enter send • ctrl+e end • ctrl+f search • ctrl+n new"
	default:
		return "enter send • ctrl+f search • ctrl+n new • tab sidebar"
	}
}
