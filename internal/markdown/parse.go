package markdown

// Document is a parsed note
type Document struct {
	Nodes       []Node
	FrontMatter FrontMatter
	Source      []byte
}

var defaultTokenizer = NewGoldmarkTokenizer()

// Parse splits off front matter, tokenizes the body with goldmark and
// builds the tree. Node ranges are offsets into the full source
func Parse(source []byte) *Document {
	fm, offset := SplitFrontMatter(source)
	return &Document{
		Nodes:       Build(defaultTokenizer.TokenizeAt(source[offset:], offset)),
		FrontMatter: fm,
		Source:      source,
	}
}

// ParseString is Parse for a string
func ParseString(source string) *Document {
	return Parse([]byte(source))
}

// Title returns the front matter title, falling back to the text of the
// first heading
func (d *Document) Title() string {
	if t := d.FrontMatter.Title(); t != "" {
		return t
	}
	for _, n := range d.Nodes {
		if h, ok := n.(*Heading); ok {
			return h.Text.String()
		}
	}
	return ""
}
