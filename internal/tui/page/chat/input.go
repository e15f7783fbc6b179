package chat

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/guilhermegouw/parley/internal/tui/styles"
)

// Input is the prompt input.
type Input struct {
	textInput textinput.Model
	width     int
	enabled   bool
}

// NewInput creates a new input component.
func NewInput() *Input {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	// Prompts are sent whole, however long.
	ti.CharLimit = 0
	ti.SetStyles(styles.CurrentTheme().S().TextInput)
	ti.Focus()

	return &Input{
		textInput: ti,
		enabled:   true,
	}
}

// Init starts the cursor blinking.
func (i *Input) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input events. A disabled input ignores them.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	if !i.enabled {
		return i, nil
	}

	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

// View renders the input.
func (i *Input) View() string {
	t := styles.CurrentTheme()

	border := t.BorderFocus
	if !i.enabled || !i.textInput.Focused() {
		border = t.Border
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(i.width - 2).
		Render(i.textInput.View())
}

// SetWidth sets the input width.
func (i *Input) SetWidth(width int) {
	i.width = width
	i.textInput.SetWidth(max(width-6, 1))
}

// SetPlaceholder changes the hint shown when empty.
func (i *Input) SetPlaceholder(text string) {
	i.textInput.Placeholder = text
}

// Value returns the current input value.
func (i *Input) Value() string {
	return i.textInput.Value()
}

// Clear clears the input.
func (i *Input) Clear() {
	i.textInput.SetValue("")
}

// SetEnabled enables or disables typing. Text already typed is kept.
func (i *Input) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsEnabled returns whether the input is enabled.
func (i *Input) IsEnabled() bool {
	return i.enabled
}

// Focus focuses the input.
func (i *Input) Focus() tea.Cmd {
	return i.textInput.Focus()
}

// Blur removes focus from the input.
func (i *Input) Blur() {
	i.textInput.Blur()
}

// Focused reports whether the input has focus.
func (i *Input) Focused() bool {
	return i.textInput.Focused()
}

// Cursor returns the cursor for the input, or nil when it is not typing.
func (i *Input) Cursor() *tea.Cursor {
	if !i.enabled || !i.textInput.Focused() {
		return nil
	}
	return i.textInput.Cursor()
}
