package chat

import (
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/guilhermegouw/parley/internal/tui/styles"
)

// MarkdownRenderer renders assistant replies and summaries. The glamour
// renderer is rebuilt only when the width changes.
type MarkdownRenderer struct {
	renderer    *glamour.TermRenderer
	cachedWidth int
	mu          sync.Mutex
}

// NewMarkdownRenderer creates a new markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render renders markdown content for the given width. On failure the
// content is returned unchanged along with the error.
func (m *MarkdownRenderer) Render(content string, width int) (string, error) {
	if content == "" {
		return "", nil
	}

	renderer, err := m.getRenderer(width)
	if err != nil {
		return content, err
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}

func (m *MarkdownRenderer) getRenderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.renderer != nil && m.cachedWidth == width {
		return m.renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(themeStyle()),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
		glamour.WithColorProfile(termenv.TrueColor),
	)
	if err != nil {
		return nil, err
	}
	m.renderer = renderer
	m.cachedWidth = width
	return renderer, nil
}

// themeStyle adapts glamour's dark style to the current theme.
func themeStyle() ansi.StyleConfig {
	t := styles.CurrentTheme()
	style := glamourstyles.DarkStyleConfig

	primary := styles.Hex(t.Primary)
	secondary := styles.Hex(t.Secondary)
	accent := styles.Hex(t.Accent)
	muted := styles.Hex(t.FgMuted)
	subtle := styles.Hex(t.FgSubtle)
	base := styles.Hex(t.FgBase)

	// No document margin; bubbles are padded by the message list.
	var noMargin uint
	style.Document.Margin = &noMargin

	style.H1.Color, style.H1.Bold, style.H1.Prefix, style.H1.Suffix = &accent, ptr(true), "", ""
	style.H2.Color, style.H2.Bold, style.H2.Prefix = &primary, ptr(true), ""
	style.H3.Color, style.H3.Bold, style.H3.Prefix = &secondary, ptr(true), ""
	style.H4.Color, style.H4.Prefix = &secondary, ""
	style.H5.Color, style.H5.Prefix = &muted, ""
	style.H6.Color, style.H6.Prefix = &muted, ""

	style.Code.Color = &secondary
	style.CodeBlock.Chroma.Text.Color = &base
	style.CodeBlock.Chroma.Keyword.Color = &primary
	style.CodeBlock.Chroma.Comment.Color = &muted
	style.CodeBlock.Chroma.NameFunction.Color = &accent
	style.CodeBlock.Chroma.Operator.Color = &primary

	style.Link.Color, style.Link.Underline = &primary, ptr(true)
	style.LinkText.Color = &primary
	style.BlockQuote.Color, style.BlockQuote.Italic = &muted, ptr(true)
	style.HorizontalRule.Color = &subtle
	style.Table.Color = &base

	return style
}

func ptr[T any](v T) *T { return &v }
