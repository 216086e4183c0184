package markdown

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Build assembles a document tree from a tokenizer event stream.
//
// Build never fails. Events that do not fit the current structure are
// repaired or dropped, and every non-empty text event ends up in the tree:
// text with no open paragraph, heading or code block becomes a TextNode.
// Nesting is tracked on an explicit stack, so depth is bounded only by
// memory
func Build(events iter.Seq[Event]) []Node {
	b := &builder{}
	if events != nil {
		for ev := range events {
			b.handle(ev)
		}
	}
	for len(b.stack) > 0 {
		b.pop()
	}
	return b.root
}

type frame struct {
	kind     BlockKind
	implicit bool
	rng      Range

	level    int
	ordered  bool
	start    *uint64
	language string

	text     StyledText
	code     strings.Builder
	inline   []Style
	children []Node
}

func (f *frame) activeStyle() Style {
	var s Style
	for _, st := range f.inline {
		s = s.Union(st)
	}
	return s
}

type builder struct {
	stack []*frame
	root  []Node
	// fallback is the TextNode created by the previous event, if that
	// event was unclassified text. Consecutive unclassified text merges
	// into it
	fallback *TextNode
}

func (b *builder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) handle(ev Event) {
	if ev.Kind != EventText {
		b.fallback = nil
	}

	switch ev.Kind {
	case EventBlockStart:
		b.openBlock(ev)

	case EventBlockEnd:
		for i := len(b.stack) - 1; i >= 0; i-- {
			if b.stack[i].kind == ev.Block {
				for len(b.stack) > i {
					b.pop()
				}
				return
			}
		}
		// No open block of this kind; drop the event

	case EventInlineStart:
		if f := b.top(); f != nil && (f.kind == KindHeading || f.kind == KindParagraph) {
			f.inline = append(f.inline, ev.Style)
		}

	case EventInlineEnd:
		f := b.top()
		if f == nil {
			return
		}
		for i := len(f.inline) - 1; i >= 0; i-- {
			if f.inline[i].Flags == ev.Style.Flags {
				f.inline = append(f.inline[:i], f.inline[i+1:]...)
				return
			}
		}
		// Unmatched inside text: close the block so the rest of its text
		// lands in a fallback node
		if f.kind == KindHeading || f.kind == KindParagraph {
			b.pop()
		}

	case EventText:
		b.text(ev)
	}
}

func (b *builder) openBlock(ev Event) {
	for f := b.top(); f != nil && f.kind.leaf(); f = b.top() {
		b.pop()
	}
	for f := b.top(); f != nil && f.implicit; f = b.top() {
		if f.kind == KindList && ev.Block != KindListItem {
			b.pop()
			continue
		}
		if f.kind == KindListItem && ev.Block == KindListItem {
			b.pop()
			continue
		}
		break
	}

	at := Range{Start: ev.Range.Start, End: ev.Range.Start}
	top := b.top()
	switch {
	case ev.Block == KindListItem && (top == nil || top.kind != KindList):
		b.push(&frame{kind: KindList, implicit: true, rng: at})
	case ev.Block != KindListItem && top != nil && top.kind == KindList:
		b.push(&frame{kind: KindListItem, implicit: true, rng: at})
	}

	f := &frame{
		kind:     ev.Block,
		rng:      ev.Range,
		level:    ev.Level,
		language: ev.Language,
	}
	if ev.Block == KindList {
		f.ordered = ev.Ordered
		if ev.Ordered && ev.Start != nil {
			start := *ev.Start
			f.start = &start
		}
	}
	b.push(f)
}

func (b *builder) text(ev Event) {
	if ev.Text == "" {
		return
	}
	f := b.top()
	if f != nil {
		switch f.kind {
		case KindHeading, KindParagraph:
			f.text = f.text.Append(ev.Text, f.activeStyle())
			f.rng = grow(f.rng, ev.Range)
			b.fallback = nil
			return
		case KindCode:
			f.code.WriteString(ev.Text)
			f.rng = grow(f.rng, ev.Range)
			b.fallback = nil
			return
		}
	}

	if b.fallback != nil {
		b.fallback.Text += ev.Text
		b.fallback.Source = grow(b.fallback.Source, ev.Range)
		return
	}
	if f != nil && f.kind == KindList {
		b.push(&frame{kind: KindListItem, implicit: true, rng: Range{Start: ev.Range.Start, End: ev.Range.Start}})
	}
	n := &TextNode{Text: ev.Text}
	n.Source = ev.Range
	b.appendNode(n)
	b.fallback = n
}

func (b *builder) push(f *frame) {
	b.stack = append(b.stack, f)
}

func (b *builder) pop() {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if n := f.finish(); n != nil {
		b.appendNode(n)
	}
}

// appendNode attaches n to the innermost open block, or to the root. A
// node that starts before its previous sibling ends is shifted forward so
// siblings never overlap
func (b *builder) appendNode(n Node) {
	dst := &b.root
	if f := b.top(); f != nil {
		dst = &f.children
	}
	if k := len(*dst); k > 0 {
		if bound := (*dst)[k-1].Range().End; n.Range().Start < bound {
			clampSubtree(n, bound)
		}
	}
	*dst = append(*dst, n)
}

func (f *frame) finish() Node {
	r := f.rng
	for _, c := range f.children {
		r = grow(r, c.Range())
	}

	var n Node
	switch f.kind {
	case KindHeading:
		n = &Heading{Level: min(max(f.level, 1), 6), Text: f.text}
	case KindParagraph:
		if len(f.text) == 0 {
			return nil
		}
		n = &Paragraph{Text: f.text}
	case KindCode:
		n = &CodeBlock{Language: f.language, Lines: splitCodeLines(f.code.String())}
	case KindQuote:
		n = &BlockQuote{Children: f.children}
	case KindList:
		list := &List{Ordered: f.ordered, Start: f.start}
		for _, c := range f.children {
			item, ok := c.(*ListItem)
			if !ok {
				item = &ListItem{Children: []Node{c}}
				item.Source = c.Range()
			}
			list.Items = append(list.Items, item)
		}
		n = list
	case KindListItem:
		children, task := classifyTask(f.children)
		n = &ListItem{Children: children, Task: task}
	default:
		return nil
	}
	n.setRange(r)
	return n
}

func splitCodeLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// classifyTask detects a leading checkbox in the first paragraph of a list
// item and strips it
func classifyTask(children []Node) ([]Node, *TaskState) {
	if len(children) == 0 {
		return children, nil
	}
	p, ok := children[0].(*Paragraph)
	if !ok {
		return children, nil
	}
	state, n, ok := parseCheckbox(p.Text.String())
	if !ok {
		return children, nil
	}
	if rest := p.Text.TrimPrefix(n); len(rest) > 0 {
		p.Text = rest
	} else {
		children = children[1:]
	}
	return children, &state
}

// parseCheckbox reads a "[c]" marker at the start of s. It returns the
// state, the number of bytes to strip (including one trailing space) and
// whether a marker was found
func parseCheckbox(s string) (TaskState, int, bool) {
	if len(s) < 3 || s[0] != '[' {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(s[1:])
	if r == utf8.RuneError || len(s) < 2+size || s[1+size] != ']' {
		return 0, 0, false
	}
	n := 2 + size
	if n < len(s) {
		switch s[n] {
		case ' ', '\t', '\n':
			n++
		default:
			return 0, 0, false
		}
	}

	switch {
	case r == ' ':
		return TaskUnchecked, n, true
	case r == 'x' || r == 'X':
		return TaskChecked, n, true
	case r == '[' || r == ']' || unicode.IsSpace(r) || !unicode.IsPrint(r):
		return 0, 0, false
	default:
		return TaskLooselyChecked, n, true
	}
}

// grow widens r to cover o. Empty ranges carry no position information and
// only replace an r that is itself empty
func grow(r, o Range) Range {
	if o.End <= o.Start {
		return r
	}
	if r.End <= r.Start {
		if r.Start > 0 && r.Start < o.Start {
			return Range{Start: r.Start, End: o.End}
		}
		return o
	}
	return r.Union(o)
}

// clampSubtree maps every offset x in the subtree of n to max(x, bound).
// The map is monotonic, so sibling order and containment are preserved
func clampSubtree(n Node, bound int) {
	Walk([]Node{n}, func(c Node, _ int) bool {
		r := c.Range()
		c.setRange(Range{Start: max(r.Start, bound), End: max(r.End, bound)})
		return true
	})
}
