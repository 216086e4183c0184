package markdown

import (
	"strings"
	"unicode/utf8"
)

// OutlineEntry is a heading and the sections nested under it
type OutlineEntry struct {
	Level int
	Title string
	// Range runs from the heading to the next heading of the same or a
	// higher rank, or to the end of the document
	Range    Range
	Children []*OutlineEntry
}

// Outline returns the heading tree of nodes
func Outline(nodes []Node) []*OutlineEntry {
	var (
		roots []*OutlineEntry
		stack []*OutlineEntry
	)
	docEnd := 0
	if len(nodes) > 0 {
		docEnd = nodes[len(nodes)-1].Range().End
	}

	Walk(nodes, func(n Node, _ int) bool {
		h, ok := n.(*Heading)
		if !ok {
			return true
		}
		start := h.Range().Start
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack[len(stack)-1].Range.End = start
			stack = stack[:len(stack)-1]
		}
		entry := &OutlineEntry{
			Level: h.Level,
			Title: h.Text.String(),
			Range: Range{Start: start, End: docEnd},
		}
		if len(stack) == 0 {
			roots = append(roots, entry)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, entry)
		}
		stack = append(stack, entry)
		return true
	})
	return roots
}

// NodeAt returns the chain of nodes whose ranges contain offset, from the
// top-level block down to the innermost one. It is empty when no block
// covers offset
func NodeAt(nodes []Node, offset int) []Node {
	var path []Node
	for level := nodes; len(level) > 0; {
		var hit Node
		for _, n := range level {
			if n.Range().Contains(offset) {
				hit = n
				break
			}
		}
		if hit == nil {
			break
		}
		path = append(path, hit)
		level = Children(hit)
	}
	return path
}

// PlainText returns the text content of n and its descendants with one
// block per line
func PlainText(n Node) string {
	var lines []string
	Walk([]Node{n}, func(c Node, _ int) bool {
		switch c := c.(type) {
		case *Heading:
			lines = append(lines, c.Text.String())
		case *Paragraph:
			lines = append(lines, c.Text.String())
		case *CodeBlock:
			lines = append(lines, c.Lines...)
		case *TextNode:
			lines = append(lines, c.Text)
		}
		return true
	})
	return strings.Join(lines, "\n")
}

// CharCount returns the number of characters in s
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

var markdownSymbols = strings.NewReplacer(
	"*", "", "_", "", "`", "", "<", "", ">", "", "?", "", "!", "",
	"[", "", "]", "", "(", "", ")", "", "=", "", "~", "", "#", "", "+", "",
)

// WordCount counts whitespace separated words after dropping Markdown
// punctuation
func WordCount(s string) int {
	return len(strings.Fields(markdownSymbols.Replace(s)))
}
