package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/gerunddev/vaultview/internal/markdown"
)

// Span is a piece of a rendered line. Style is the inline style of the
// source run (zero for decoration such as quote markers); Attr is the
// terminal style it resolved to
type Span struct {
	Text  string
	Style markdown.Style
	Attr  lipgloss.Style
}

// Line is one terminal row of a rendered document
type Line struct {
	Spans []Span
	// Source is the range of the block that produced the line. Separator
	// lines carry an empty range
	Source markdown.Range
}

// Width returns the number of terminal columns the line occupies
func (l Line) Width() int {
	w := 0
	for _, s := range l.Spans {
		w += ansi.StringWidth(s.Text)
	}
	return w
}

// Plain returns the text of the line without styling
func (l Line) Plain() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// String returns the line with ANSI styling applied
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Spans {
		if s.Text == "" {
			continue
		}
		b.WriteString(s.Attr.Render(s.Text))
	}
	return b.String()
}
