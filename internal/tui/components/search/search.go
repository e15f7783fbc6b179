// Package search provides the modal session search dialog.
package search

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/guilhermegouw/parley/internal/conversation"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/tui/styles"
	"github.com/guilhermegouw/parley/internal/tui/util"
)

// TriggerMsg asks the app to run a search.
type TriggerMsg struct {
	Query string
}

// PickMsg asks the app to open the result at Index.
type PickMsg struct {
	Index int
}

// DismissMsg asks the app to close the dialog.
type DismissMsg struct{}

const (
	minWidth = 30
	maxWidth = 80
)

// Dialog is the search box and its results.
type Dialog struct {
	input  textinput.Model
	view   conversation.SearchView
	cursor int
	width  int
}

// New creates a hidden dialog.
func New() *Dialog {
	ti := textinput.New()
	ti.Placeholder = "Search your sessions..."
	ti.CharLimit = 200
	ti.SetStyles(styles.CurrentTheme().S().TextInput)

	return &Dialog{input: ti}
}

// Open resets the input and focuses it.
func (d *Dialog) Open() tea.Cmd {
	d.input.SetValue("")
	d.cursor = 0
	return d.input.Focus()
}

// Close blurs the input.
func (d *Dialog) Close() {
	d.input.Blur()
}

// SetView updates the results from the controller.
func (d *Dialog) SetView(v conversation.SearchView) {
	if len(v.Results) != len(d.view.Results) || v.LastQuery != d.view.LastQuery {
		d.cursor = 0
	}
	d.view = v
	d.cursor = min(d.cursor, max(len(v.Results)-1, 0))
}

// SetWidth sets the available width. The dialog takes part of it.
func (d *Dialog) SetWidth(width int) {
	d.width = min(max(width*2/3, minWidth), maxWidth)
	d.input.SetWidth(d.width - 6)
}

// Value returns the typed query.
func (d *Dialog) Value() string {
	return d.input.Value()
}

// Update handles keys while the dialog is open. Enter searches when the
// query changed since the last search and opens the highlighted result
// otherwise.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return d, util.CmdHandler(DismissMsg{})
		case "up", "ctrl+p":
			if d.cursor > 0 {
				d.cursor--
			}
			return d, nil
		case "down", "ctrl+n":
			if d.cursor < len(d.view.Results)-1 {
				d.cursor++
			}
			return d, nil
		case "enter":
			return d, d.submit()
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *Dialog) submit() tea.Cmd {
	query := strings.TrimSpace(d.input.Value())
	if query == "" {
		return nil
	}
	if query == d.view.LastQuery && !d.view.Pending && len(d.view.Results) > 0 {
		return util.CmdHandler(PickMsg{Index: d.cursor})
	}
	if query == d.view.LastQuery && d.view.Pending {
		return nil
	}
	return util.CmdHandler(TriggerMsg{Query: query})
}

// View renders the dialog box.
func (d *Dialog) View() string {
	t := styles.CurrentTheme()
	inner := d.width - 4

	lines := []string{
		t.S().Title.Render("Search"),
		"",
		d.input.View(),
		"",
	}

	switch {
	case d.view.Pending:
		lines = append(lines, t.S().Muted.Render("Searching..."))
	case d.view.Err != nil:
		lines = append(lines, t.S().Error.Render(ansi.Truncate("Search failed: "+d.view.Err.Error(), inner, "…")))
	case d.view.NoResults:
		lines = append(lines, t.S().Muted.Render(ansi.Truncate(fmt.Sprintf("No sessions match %q.", d.view.LastQuery), inner, "…")))
	case len(d.view.Results) == 0:
		lines = append(lines, t.S().Muted.Render("Type a query and press enter."))
	default:
		for i, r := range d.view.Results {
			lines = append(lines, d.renderResult(r, i == d.cursor, inner))
		}
	}

	lines = append(lines, "", t.S().Subtle.Render("enter search/open · ↑/↓ move · esc close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(0, 1).
		Width(d.width).
		Render(strings.Join(lines, "\n"))
}

func (d *Dialog) renderResult(r gateway.SearchResult, selected bool, width int) string {
	t := styles.CurrentTheme()

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "Untitled"
	}
	score := fmt.Sprintf(" %3.0f%%", r.Score*100)
	if r.Status == gateway.StatusEnded {
		score = " ended" + score
	}

	marker := "  "
	titleStyle := t.S().Text
	if selected {
		marker = "> "
		titleStyle = t.S().Primary.Bold(true)
	}

	titleWidth := max(width-lipgloss.Width(score)-2, 4)
	head := titleStyle.Render(marker+ansi.Truncate(title, titleWidth, "…")) + t.S().Muted.Render(score)

	if r.Snippet == "" {
		return head
	}
	snippet := ansi.Truncate(strings.ReplaceAll(r.Snippet, "\n", " "), width-2, "…")
	return head + "\n" + t.S().Muted.Render("  "+snippet)
}

// Cursor returns the input cursor relative to the dialog's top-left corner.
func (d *Dialog) Cursor() *tea.Cursor {
	c := d.input.Cursor()
	if c == nil {
		return nil
	}
	// Border and padding on the left, border, title and a blank line above.
	c.X += 2
	c.Y += 3
	return c
}
