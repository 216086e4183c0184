package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gerunddev/vaultview/internal/markdown"
	"github.com/gerunddev/vaultview/internal/styles"
)

// Theme maps document elements and inline attributes to terminal styles.
// Inline styles are layered over the block's base style, innermost flag
// first
type Theme struct {
	Text lipgloss.Style

	Bold          lipgloss.Style
	Italic        lipgloss.Style
	Strikethrough lipgloss.Style
	Highlight     lipgloss.Style
	Code          lipgloss.Style
	Link          lipgloss.Style

	Headings [6]lipgloss.Style

	QuoteMarker   lipgloss.Style
	ListMarker    lipgloss.Style
	TaskUnchecked lipgloss.Style
	TaskChecked   lipgloss.Style
	CodeBlock     lipgloss.Style
	CodeLabel     lipgloss.Style
}

// DefaultTheme uses the application palette
func DefaultTheme() Theme {
	color := func(c string) lipgloss.Color { return lipgloss.Color(c) }
	return Theme{
		Text: lipgloss.NewStyle(),

		Bold:          lipgloss.NewStyle().Bold(true),
		Italic:        lipgloss.NewStyle().Italic(true),
		Strikethrough: lipgloss.NewStyle().Strikethrough(true).Foreground(color(styles.Comment)),
		Highlight:     lipgloss.NewStyle().Background(color(styles.MarkBackground)).Foreground(color(styles.Yellow)),
		Code:          lipgloss.NewStyle().Background(color(styles.CodeBackground)).Foreground(color(styles.Orange)),
		Link:          lipgloss.NewStyle().Underline(true).Foreground(color(styles.Blue)),

		Headings: [6]lipgloss.Style{
			lipgloss.NewStyle().Italic(true).Foreground(color(styles.Magenta)),
			lipgloss.NewStyle().Foreground(color(styles.Yellow)),
			lipgloss.NewStyle().Foreground(color(styles.Cyan)),
			lipgloss.NewStyle().Foreground(color(styles.Green)),
			lipgloss.NewStyle().Foreground(color(styles.Blue)),
			lipgloss.NewStyle().Foreground(color(styles.Orange)),
		},

		QuoteMarker:   lipgloss.NewStyle().Foreground(color(styles.Comment)),
		ListMarker:    lipgloss.NewStyle().Foreground(color(styles.Comment)),
		TaskUnchecked: lipgloss.NewStyle().Foreground(color(styles.Border)),
		TaskChecked:   lipgloss.NewStyle().Foreground(color(styles.Magenta)),
		CodeBlock:     lipgloss.NewStyle().Background(color(styles.CodeBackground)).Foreground(color(styles.Foreground)),
		CodeLabel:     lipgloss.NewStyle().Background(color(styles.CodeBackground)).Foreground(color(styles.Comment)).Italic(true),
	}
}

// PlainTheme renders everything unstyled
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Text: s, Bold: s, Italic: s, Strikethrough: s, Highlight: s, Code: s, Link: s,
		Headings:    [6]lipgloss.Style{s, s, s, s, s, s},
		QuoteMarker: s, ListMarker: s, TaskUnchecked: s, TaskChecked: s, CodeBlock: s, CodeLabel: s,
	}
}

// resolve layers the inline attributes of st over base
func (t Theme) resolve(st markdown.Style, base lipgloss.Style) lipgloss.Style {
	layers := []struct {
		flag  markdown.Flags
		style lipgloss.Style
	}{
		{markdown.Code, t.Code},
		{markdown.Link, t.Link},
		{markdown.Highlight, t.Highlight},
		{markdown.Strikethrough, t.Strikethrough},
		{markdown.Italic, t.Italic},
		{markdown.Bold, t.Bold},
	}
	for _, l := range layers {
		if st.Has(l.flag) {
			base = l.style.Inherit(base)
		}
	}
	return base
}
