package markdown

import "strings"

// Flags is a set of inline text attributes
type Flags uint16

const (
	Bold Flags = 1 << iota
	Italic
	Strikethrough
	Highlight
	Code
	Link
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Strikethrough, "strikethrough"},
	{Highlight, "highlight"},
	{Code, "code"},
	{Link, "link"},
}

func (f Flags) String() string {
	if f == 0 {
		return "plain"
	}
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// StylizedVariant selects a Unicode letter transliteration for a run
type StylizedVariant uint8

const (
	VariantNone StylizedVariant = iota
	VariantFraktur
	VariantDoubleStruck
)

// Style is the full set of attributes carried by a run of text.
// Two runs with equal Style values are merged
type Style struct {
	Flags   Flags
	URL     string
	Variant StylizedVariant
}

// Has reports whether all bits of f are set
func (s Style) Has(f Flags) bool {
	return s.Flags&f == f
}

// Union layers o on top of s. Flags accumulate; the innermost link URL
// and stylized variant win
func (s Style) Union(o Style) Style {
	s.Flags |= o.Flags
	if o.Flags&Link != 0 {
		s.URL = o.URL
	}
	if o.Variant != VariantNone {
		s.Variant = o.Variant
	}
	return s
}

// Run is a maximal span of text sharing one Style
type Run struct {
	Text  string
	Style Style
}

// StyledText is an ordered list of runs that covers a piece of text with
// no gaps
type StyledText []Run

// Plain returns s as a single unstyled run
func Plain(s string) StyledText {
	return StyledText(nil).Append(s, Style{})
}

// Append adds text with the given style, merging it into the last run when
// the styles are equal. Empty text is ignored
func (t StyledText) Append(text string, style Style) StyledText {
	if text == "" {
		return t
	}
	if n := len(t); n > 0 && t[n-1].Style == style {
		t[n-1].Text += text
		return t
	}
	return append(t, Run{Text: text, Style: style})
}

// String returns the text with all styling removed
func (t StyledText) String() string {
	switch len(t) {
	case 0:
		return ""
	case 1:
		return t[0].Text
	}
	var b strings.Builder
	for _, r := range t {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Len returns the byte length of the text
func (t StyledText) Len() int {
	n := 0
	for _, r := range t {
		n += len(r.Text)
	}
	return n
}

// TrimPrefix drops the first n bytes of text, keeping the styles of what
// remains
func (t StyledText) TrimPrefix(n int) StyledText {
	var out StyledText
	for _, r := range t {
		if n >= len(r.Text) {
			n -= len(r.Text)
			continue
		}
		out = out.Append(r.Text[n:], r.Style)
		n = 0
	}
	return out
}

// WithStyle returns a copy of t with o layered onto every run
func (t StyledText) WithStyle(o Style) StyledText {
	var out StyledText
	for _, r := range t {
		out = out.Append(r.Text, r.Style.Union(o))
	}
	return out
}
