// Package logo renders the parley wordmark.
package logo

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"

	"github.com/guilhermegouw/parley/internal/tui/styles"
)

const wordmark = "parley"

// Render returns the wordmark with a gradient from the primary to the
// secondary color.
func Render() string {
	t := styles.CurrentTheme()
	return Gradient(wordmark, t.Primary, t.Secondary)
}

// RenderWithTagline returns the wordmark followed by a muted tagline.
func RenderWithTagline(tagline string) string {
	t := styles.CurrentTheme()
	return Render() + " " + t.S().Muted.Render(tagline)
}

// Gradient colors each grapheme of s along the blend from one color to the
// other.
func Gradient(s string, from, to color.Color) string {
	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	var sb strings.Builder
	steps := max(len(clusters)-1, 1)
	for i, c := range clusters {
		fg := styles.Blend(from, to, float64(i)/float64(steps))
		sb.WriteString(lipgloss.NewStyle().Foreground(fg).Bold(true).Render(c))
	}
	return sb.String()
}
