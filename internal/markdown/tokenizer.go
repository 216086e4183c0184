package markdown

import (
	"bytes"
	"iter"
	"strings"

	"github.com/gerunddev/vaultview/internal/markdown/obsidian"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// GoldmarkTokenizer adapts the goldmark parser to the Event model
type GoldmarkTokenizer struct {
	md goldmark.Markdown
}

// NewGoldmarkTokenizer returns a tokenizer with strikethrough, linkify,
// tables, ==highlight== and [[wikilink]] support. Extra extensions are
// appended to that set
func NewGoldmarkTokenizer(exts ...goldmark.Extender) *GoldmarkTokenizer {
	all := []goldmark.Extender{
		extension.Strikethrough,
		extension.Linkify,
		extension.Table,
		obsidian.Highlighting,
		obsidian.Wikilinks,
	}
	all = append(all, exts...)
	return &GoldmarkTokenizer{md: goldmark.New(goldmark.WithExtensions(all...))}
}

// Tokenize parses source and streams its events. Every iteration parses
// again, so the sequence can be consumed more than once
func (t *GoldmarkTokenizer) Tokenize(source []byte) iter.Seq[Event] {
	return t.TokenizeAt(source, 0)
}

// TokenizeAt is Tokenize for a source that sits at byte offset base inside
// a larger document. All event ranges are shifted by base
func (t *GoldmarkTokenizer) TokenizeAt(source []byte, base int) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if len(source) == 0 {
			return
		}
		doc := t.md.Parser().Parse(text.NewReader(source))
		e := &emitter{
			source: source,
			base:   base,
			yield:  yield,
			ranges: rawRanges(doc, source),
		}
		walk(doc, e.visit)
	}
}

type emitter struct {
	source  []byte
	base    int
	yield   func(Event) bool
	ranges  map[gast.Node]Range
	cursor  int
	lastRaw bool
	stopped bool
}

func (e *emitter) emit(ev Event) {
	if e.stopped {
		return
	}
	e.lastRaw = false
	if !e.yield(ev) {
		e.stopped = true
	}
}

func (e *emitter) shift(r Range) Range {
	return Range{Start: r.Start + e.base, End: r.End + e.base}
}

// extent returns the line-aligned range of a block node. Blocks without
// any source position collapse to the current cursor
func (e *emitter) extent(n gast.Node) Range {
	r, ok := e.ranges[n]
	if !ok {
		return Range{Start: e.cursor, End: e.cursor}
	}
	return Range{Start: lineStart(e.source, r.Start), End: lineEnd(e.source, r.End)}
}

func (e *emitter) open(n gast.Node) Range {
	r := e.extent(n)
	e.cursor = max(e.cursor, r.Start)
	return e.shift(r)
}

func (e *emitter) close(n gast.Node, kind BlockKind) {
	e.cursor = max(e.cursor, e.extent(n).End)
	e.emit(BlockEnd(kind))
}

func (e *emitter) visit(n gast.Node, entering bool) (gast.WalkStatus, error) {
	var status gast.WalkStatus
	if entering {
		status = e.enter(n)
	} else {
		e.leave(n)
		status = gast.WalkContinue
	}
	if e.stopped {
		return gast.WalkStop, nil
	}
	return status, nil
}

func (e *emitter) enter(n gast.Node) gast.WalkStatus {
	switch n := n.(type) {
	case *gast.Document:
	case *gast.Heading:
		e.emit(HeadingStart(n.Level, e.open(n)))
	case *gast.Paragraph, *gast.TextBlock:
		e.emit(BlockStart(KindParagraph, e.open(n)))
	case *gast.Blockquote:
		e.emit(BlockStart(KindQuote, e.open(n)))
	case *gast.List:
		var start *uint64
		if n.IsOrdered() {
			s := uint64(max(n.Start, 0))
			start = &s
		}
		e.emit(ListStart(n.IsOrdered(), start, e.open(n)))
	case *gast.ListItem:
		e.emit(BlockStart(KindListItem, e.open(n)))
	case *gast.FencedCodeBlock:
		e.emit(CodeStart(string(n.Language(e.source)), e.open(n)))
		e.codeLines(n)
		return gast.WalkSkipChildren
	case *gast.CodeBlock:
		e.emit(CodeStart("", e.open(n)))
		e.codeLines(n)
		return gast.WalkSkipChildren
	case *gast.ThematicBreak:
		e.thematicBreak()
		return gast.WalkSkipChildren
	case *gast.HTMLBlock, *east.Table:
		e.raw(n)
		return gast.WalkSkipChildren

	case *gast.Text:
		seg := n.Segment
		e.emit(Text(string(seg.Value(e.source)), e.shift(Range{Start: seg.Start, End: seg.Stop})))
		switch {
		case n.HardLineBreak():
			e.emit(Text("\n", Range{}))
		case n.SoftLineBreak():
			e.emit(Text(" ", Range{}))
		}
	case *gast.String:
		e.emit(Text(string(n.Value), Range{}))
	case *gast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			e.emit(Text(string(seg.Value(e.source)), e.shift(Range{Start: seg.Start, End: seg.Stop})))
		}
		return gast.WalkSkipChildren
	case *gast.AutoLink:
		style := Style{Flags: Link, URL: string(n.URL(e.source))}
		e.emit(InlineStart(style))
		e.emit(Text(string(n.Label(e.source)), Range{}))
		e.emit(InlineEnd(style))
		return gast.WalkSkipChildren
	case *obsidian.Wikilink:
		style := Style{Flags: Link, URL: string(n.Target)}
		e.emit(InlineStart(style))
		e.emit(Text(n.DisplayText(), Range{}))
		e.emit(InlineEnd(style))
		return gast.WalkSkipChildren

	default:
		if style, ok := e.inlineStyle(n); ok {
			e.emit(InlineStart(style))
			break
		}
		if n.Type() == gast.TypeBlock {
			if _, ok := e.ranges[n]; ok {
				e.raw(n)
				return gast.WalkSkipChildren
			}
		}
	}
	return gast.WalkContinue
}

func (e *emitter) leave(n gast.Node) {
	switch n := n.(type) {
	case *gast.Heading:
		e.close(n, KindHeading)
	case *gast.Paragraph, *gast.TextBlock:
		e.close(n, KindParagraph)
	case *gast.Blockquote:
		e.close(n, KindQuote)
	case *gast.List:
		e.close(n, KindList)
	case *gast.ListItem:
		e.close(n, KindListItem)
	case *gast.FencedCodeBlock, *gast.CodeBlock:
		e.close(n, KindCode)
	default:
		if style, ok := e.inlineStyle(n); ok {
			e.emit(InlineEnd(style))
		}
	}
}

// inlineStyle maps goldmark's styled inline containers to a Style
func (e *emitter) inlineStyle(n gast.Node) (Style, bool) {
	switch n := n.(type) {
	case *gast.Emphasis:
		if n.Level >= 2 {
			return Style{Flags: Bold}, true
		}
		return Style{Flags: Italic}, true
	case *east.Strikethrough:
		return Style{Flags: Strikethrough}, true
	case *obsidian.Highlight:
		return Style{Flags: Highlight}, true
	case *gast.CodeSpan:
		return Style{Flags: Code}, true
	case *gast.Link:
		return Style{Flags: Link, URL: string(n.Destination)}, true
	case *gast.Image:
		return Style{Flags: Link, URL: string(n.Destination)}, true
	}
	return Style{}, false
}

func (e *emitter) codeLines(n gast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		value := string(seg.Value(e.source))
		if seg.Padding > 0 {
			value = strings.Repeat(" ", seg.Padding) + value
		}
		e.emit(Text(value, e.shift(Range{Start: seg.Start, End: seg.Stop})))
	}
}

// raw emits the source of an unsupported block as one text event, which
// the builder keeps as a TextNode
func (e *emitter) raw(n gast.Node) {
	r := e.extent(n)
	e.cursor = max(e.cursor, r.End)
	body := strings.TrimRight(string(e.source[r.Start:r.End]), "\r\n")
	if strings.TrimSpace(body) == "" {
		return
	}
	e.rawText(body, r)
}

// thematicBreak has no recorded position in goldmark, so the first
// non-blank line after the cursor is taken as its source
func (e *emitter) thematicBreak() {
	for pos := e.cursor; pos < len(e.source); {
		next := nextLine(e.source, pos)
		line := strings.TrimRight(string(e.source[pos:next]), "\r\n")
		if trimmed := strings.TrimLeft(line, " \t>"); trimmed != "" {
			e.cursor = next
			e.rawText(trimmed, Range{Start: pos, End: next})
			return
		}
		pos = next
	}
	e.rawText("---", Range{Start: e.cursor, End: e.cursor})
}

func (e *emitter) rawText(body string, r Range) {
	if e.lastRaw {
		body = "\n\n" + body
	}
	e.emit(Text(body, e.shift(r)))
	e.lastRaw = true
}

// rawRanges computes, bottom-up, the byte span each node covers in the
// source: its own line segments plus its descendants' spans
func rawRanges(doc gast.Node, source []byte) map[gast.Node]Range {
	ranges := make(map[gast.Node]Range)
	walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if entering {
			return gast.WalkContinue, nil
		}
		var r Range
		has := false
		add := func(o Range) {
			if o.End < o.Start {
				return
			}
			if !has {
				r, has = o, true
				return
			}
			r = r.Union(o)
		}

		if n.Type() == gast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				add(Range{Start: seg.Start, End: seg.Stop})
			}
		}
		switch n := n.(type) {
		case *gast.Text:
			add(Range{Start: n.Segment.Start, End: n.Segment.Stop})
		case *gast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				add(Range{Start: seg.Start, End: seg.Stop})
			}
		case *gast.HTMLBlock:
			if n.HasClosure() {
				add(Range{Start: n.ClosureLine.Start, End: n.ClosureLine.Stop})
			}
		case *gast.FencedCodeBlock:
			if n.Info != nil {
				add(Range{Start: n.Info.Segment.Start, End: n.Info.Segment.Stop})
			}
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if cr, ok := ranges[c]; ok {
				add(cr)
			}
		}

		if fenced, ok := n.(*gast.FencedCodeBlock); ok && has {
			r = fenceRange(source, r, fenced.Info != nil)
		}
		if has {
			ranges[n] = r
		}
		return gast.WalkContinue, nil
	})
	return ranges
}

// fenceRange widens a fenced code block's content span to its opening and
// closing fence lines
func fenceRange(source []byte, r Range, hasInfo bool) Range {
	start := lineStart(source, r.Start)
	if !hasInfo && start > 0 {
		start = lineStart(source, start-1)
	}
	end := lineEnd(source, r.End)
	if end < len(source) {
		next := nextLine(source, end)
		fence := bytes.TrimLeft(source[end:next], " \t>")
		if bytes.HasPrefix(fence, []byte("```")) || bytes.HasPrefix(fence, []byte("~~~")) {
			end = next
		}
	}
	return Range{Start: start, End: end}
}

// lineStart returns the offset of the first byte of the line holding pos
func lineStart(source []byte, pos int) int {
	pos = min(max(pos, 0), len(source))
	if i := bytes.LastIndexByte(source[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset just past the newline ending the line that
// holds the last byte of a range ending at end
func lineEnd(source []byte, end int) int {
	end = min(max(end, 0), len(source))
	if end == 0 {
		return 0
	}
	if i := bytes.IndexByte(source[end-1:], '\n'); i >= 0 {
		return end + i
	}
	return len(source)
}

// nextLine returns the offset of the line after the one starting at pos
func nextLine(source []byte, pos int) int {
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

// walk is an iterative ast.Walk: same visiting order and status handling,
// without recursing on the Go stack
func walk(root gast.Node, fn gast.Walker) {
	n := root
	for n != nil {
		status, err := fn(n, true)
		if err != nil || status == gast.WalkStop {
			return
		}
		if status != gast.WalkSkipChildren && n.FirstChild() != nil {
			n = n.FirstChild()
			continue
		}
		for {
			if status, err := fn(n, false); err != nil || status == gast.WalkStop {
				return
			}
			if n == root {
				return
			}
			if next := n.NextSibling(); next != nil {
				n = next
				break
			}
			n = n.Parent()
			if n == nil {
				return
			}
		}
	}
}
