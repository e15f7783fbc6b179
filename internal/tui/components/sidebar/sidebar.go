// Package sidebar renders the recent sessions list.
package sidebar

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/tui/components/logo"
	"github.com/guilhermegouw/parley/internal/tui/styles"
	"github.com/guilhermegouw/parley/internal/tui/util"
)

// untitled is shown for sessions the service has not named yet.
const untitled = "Untitled"

// rowHeight is the number of lines one session takes.
const rowHeight = 3

// SelectedMsg is sent when a session is picked from the list.
type SelectedMsg struct {
	SessionID string
}

// Model is the recent sessions list.
type Model struct {
	sessions []gateway.RecentSession
	current  string
	err      error
	loaded   bool
	focused  bool
	cursor   int
	offset   int
	width    int
	height   int
	now      func() time.Time
}

// New creates an empty sidebar.
func New() *Model {
	return &Model{now: time.Now}
}

// SetSessions replaces the list. The cursor stays on the same session when
// it is still present.
func (m *Model) SetSessions(sessions []gateway.RecentSession) {
	var selectedID string
	if s, ok := m.Selected(); ok {
		selectedID = s.ID
	}

	m.sessions = sessions
	m.loaded = true
	m.err = nil
	m.cursor = 0
	for i, s := range sessions {
		if s.ID == selectedID {
			m.cursor = i
			break
		}
	}
	m.ensureVisible()
}

// SetError records a failed refresh. The previous list stays visible.
func (m *Model) SetError(err error) {
	m.err = err
}

// SetCurrent marks the session shown in the timeline.
func (m *Model) SetCurrent(id string) {
	m.current = id
}

// Len returns the number of listed sessions.
func (m *Model) Len() int {
	return len(m.sessions)
}

// Selected returns the session under the cursor.
func (m *Model) Selected() (gateway.RecentSession, bool) {
	if m.cursor >= 0 && m.cursor < len(m.sessions) {
		return m.sessions[m.cursor], true
	}
	return gateway.RecentSession{}, false
}

// Focus gives the list keyboard focus.
func (m *Model) Focus() {
	m.focused = true
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
}

// Focused reports whether the list has keyboard focus.
func (m *Model) Focused() bool {
	return m.focused
}

// SetSize sets the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// Update handles navigation keys while focused.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case "down", "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case "home", "g":
		m.cursor = 0
		m.offset = 0
	case "end", "G":
		m.cursor = max(0, len(m.sessions)-1)
		m.ensureVisible()
	case "enter":
		if s, ok := m.Selected(); ok {
			return m, util.CmdHandler(SelectedMsg{SessionID: s.ID})
		}
	}
	return m, nil
}

func (m *Model) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *Model) visibleRows() int {
	// Header and footer take two lines.
	return max(1, (m.height-2)/rowHeight)
}

// View renders the sidebar.
func (m *Model) View() string {
	t := styles.CurrentTheme()

	border := t.Border
	if m.focused {
		border = t.BorderFocus
	}
	box := lipgloss.NewStyle().
		Width(max(m.width-1, 1)).
		Height(m.height).
		BorderRight(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(border)

	header := logo.RenderWithTagline("today")
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.body()))
}

func (m *Model) body() string {
	t := styles.CurrentTheme()
	inner := max(m.width-2, 4)

	switch {
	case !m.loaded && m.err != nil:
		return t.S().Error.Render(ansi.Truncate("Could not load sessions", inner, "…"))
	case !m.loaded:
		return t.S().Muted.Render("Loading...")
	case len(m.sessions) == 0:
		return t.S().Muted.Render(ansi.Wordwrap("No sessions today. Say hello!", inner, ""))
	}

	rows := make([]string, 0, m.visibleRows())
	end := min(m.offset+m.visibleRows(), len(m.sessions))
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(m.sessions[i], i == m.cursor, inner))
	}

	if m.offset > 0 {
		rows = append([]string{t.S().Muted.Render(fmt.Sprintf("↑ %d more", m.offset))}, rows...)
	}
	if remaining := len(m.sessions) - end; remaining > 0 {
		rows = append(rows, t.S().Muted.Render(fmt.Sprintf("↓ %d more", remaining)))
	}
	if m.err != nil {
		rows = append(rows, t.S().Warning.Render(ansi.Truncate("Refresh failed", inner, "…")))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(s gateway.RecentSession, selected bool, width int) string {
	t := styles.CurrentTheme()

	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = untitled
	}
	title = ansi.Truncate(strings.ReplaceAll(title, "\n", " "), width-2, "…")

	marker := "  "
	titleStyle := t.S().Text
	if s.ID == m.current {
		marker = "• "
		titleStyle = t.S().Primary
	}
	if selected && m.focused {
		marker = "> "
		titleStyle = t.S().Primary.Bold(true)
	}

	meta := formatRelativeTime(s.Created, m.now())
	if s.Status == gateway.StatusEnded {
		meta += " · ended"
	}

	return titleStyle.Render(marker+title) + "\n" +
		t.S().Muted.Render("  "+ansi.Truncate(meta, width-2, "…")) + "\n"
}

// formatRelativeTime formats t relative to now.
func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	default:
		return t.Format("Jan 2")
	}
}
