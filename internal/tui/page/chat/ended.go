package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/tui/styles"
)

// maxEndedLines caps the summary panel height.
const maxEndedLines = 8

// EndedPanel shows the summary of an ended session above the input.
type EndedPanel struct {
	markdown   *MarkdownRenderer
	summary    string
	hasSummary bool
	active     bool
	width      int
}

// NewEndedPanel creates an inactive panel.
func NewEndedPanel(md *MarkdownRenderer) *EndedPanel {
	return &EndedPanel{markdown: md}
}

// Set shows or hides the panel.
func (p *EndedPanel) Set(ended bool, summary string, hasSummary bool) {
	p.active = ended
	p.summary = summary
	p.hasSummary = hasSummary
}

// IsActive reports whether the panel is shown.
func (p *EndedPanel) IsActive() bool {
	return p.active
}

// SetWidth sets the panel width.
func (p *EndedPanel) SetWidth(width int) {
	p.width = width
}

// Height returns the rendered height, zero when inactive.
func (p *EndedPanel) Height() int {
	if !p.active {
		return 0
	}
	return lipgloss.Height(p.View())
}

// View renders the panel.
func (p *EndedPanel) View() string {
	if !p.active {
		return ""
	}
	t := styles.CurrentTheme()

	title := t.S().Title.Render("Session ended")
	var body string
	switch {
	case !p.hasSummary:
		body = t.S().Muted.Italic(true).Render("No summary available.")
	default:
		rendered, err := p.markdown.Render(p.summary, max(p.width-6, 10))
		if err != nil {
			debug.Error("chat", err, "rendering summary")
		}
		lines := strings.Split(strings.Trim(rendered, "\n"), "\n")
		if len(lines) > maxEndedLines {
			lines = append(lines[:maxEndedLines-1], t.S().Muted.Render("…"))
		}
		body = strings.Join(lines, "\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Warning).
		Padding(0, 1).
		Width(p.width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}
