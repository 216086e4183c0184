// Package render lays out a markdown document tree as width-bounded,
// styled terminal lines
package render

import (
	"iter"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/gerunddev/vaultview/internal/markdown"
)

// Heading glyphs, densest for level 1
var headingGlyphs = [6]string{"█", "▓", "▒", "░", "▪", "·"}

var headingRules = [6]string{"▀", "═", "", "", "", ""}

const (
	quoteMarker  = "┃ "
	quoteNarrow  = "┃"
	bulletMarker = "- "
	itemIndent   = "  "
	headingText  = "  "
	uncheckedBox = "□ "
	checkedBox   = "■ "
	tabSpaces    = "    "
)

// Option configures a View
type Option func(*View)

// WithTheme overrides the default theme
func WithTheme(t Theme) Option {
	return func(v *View) {
		v.theme = t
	}
}

// View is a document laid out at a fixed width
type View struct {
	nodes  []markdown.Node
	width  int
	theme  Theme
	height func() int
	quotes func() map[markdown.Node]int
}

// Render lays out nodes for a terminal width columns wide. Widths below 1
// are treated as 1. Layout is lazy: nothing is computed until Lines or
// Height is called
func Render(nodes []markdown.Node, width int, opts ...Option) *View {
	v := &View{
		nodes: nodes,
		width: max(width, 1),
		theme: DefaultTheme(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.quotes = sync.OnceValue(func() map[markdown.Node]int {
		return quoteHeights(v.nodes)
	})
	v.height = sync.OnceValue(func() int {
		n := 0
		for range v.Lines() {
			n++
		}
		return n
	})
	return v
}

// Width returns the layout width
func (v *View) Width() int {
	return v.width
}

// Lines yields the rendered lines in document order. Each call starts a
// fresh layout pass
func (v *View) Lines() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		l := &layout{
			width:    v.width,
			theme:    v.theme,
			yield:    yield,
			sepDepth: -1,
			heights:  v.quotes(),
		}
		l.run(v.nodes)
	}
}

// Height returns the number of lines Lines yields
func (v *View) Height() int {
	return v.height()
}

// Window returns up to n lines starting at line offset
func (v *View) Window(offset, n int) []Line {
	if n <= 0 {
		return nil
	}
	offset = max(offset, 0)
	out := make([]Line, 0, n)
	i := 0
	for line := range v.Lines() {
		if i >= offset {
			out = append(out, line)
			if len(out) == n {
				break
			}
		}
		i++
	}
	return out
}

// String renders every line with ANSI styling, joined by newlines
func (v *View) String() string {
	var b strings.Builder
	i := 0
	for line := range v.Lines() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.String())
		i++
	}
	return b.String()
}

type stepOp uint8

const (
	stepNode stepOp = iota
	stepSeparator
	stepPopPrefix
)

type step struct {
	op     stepOp
	node   markdown.Node
	marker string
}

// prefixFrame is one level of line decoration. The first line produced
// inside the frame starts with first; later lines use the frame's
// continuation. restLine caches the continuation of this frame and all
// outer frames, clipped to the widest prefix a line can hold
type prefixFrame struct {
	first    []Span
	restLine []Span
	restW    int
	quote    bool
	narrow   bool
}

type layout struct {
	width   int
	theme   Theme
	yield   func(Line) bool
	stopped bool

	stack  []step
	frames []prefixFrame
	// frames[:emitted] have already produced a line
	emitted int
	anyLine bool
	// sepDepth is the frame depth of a pending separator line, or -1
	sepDepth int

	// heights holds the quote nesting depth below each node
	heights map[markdown.Node]int
	quotes  int
	narrow  int
}

func (l *layout) run(nodes []markdown.Node) {
	l.pushChildren(nodes, separateAlways)
	for len(l.stack) > 0 && !l.stopped {
		s := l.stack[len(l.stack)-1]
		l.stack = l.stack[:len(l.stack)-1]
		switch s.op {
		case stepNode:
			l.node(s)
		case stepSeparator:
			l.requestSeparator()
		case stepPopPrefix:
			l.popPrefix()
		}
	}
}

func separateAlways(prev, next markdown.Node) bool {
	return true
}

// Blocks inside a list item are spaced apart, except around nested lists
func separateInItem(prev, next markdown.Node) bool {
	_, prevList := prev.(*markdown.List)
	_, nextList := next.(*markdown.List)
	return !prevList && !nextList
}

func (l *layout) pushChildren(nodes []markdown.Node, sep func(prev, next markdown.Node) bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		l.stack = append(l.stack, step{op: stepNode, node: nodes[i]})
		if i > 0 && sep(nodes[i-1], nodes[i]) {
			l.stack = append(l.stack, step{op: stepSeparator})
		}
	}
}

func (l *layout) node(s step) {
	if s.node == nil {
		return
	}
	switch n := s.node.(type) {
	case *markdown.Heading:
		l.heading(n)
	case *markdown.Paragraph:
		l.text(n.Text, l.theme.Text, n.Range())
	case *markdown.CodeBlock:
		l.code(n)
	case *markdown.TextNode:
		l.text(markdown.Plain(strings.TrimRight(n.Text, "\r\n")), l.theme.Text, n.Range())
	case *markdown.BlockQuote:
		l.pushQuote(n)
		l.stack = append(l.stack, step{op: stepPopPrefix})
		l.pushChildren(n.Children, separateAlways)
	case *markdown.List:
		for i := len(n.Items) - 1; i >= 0; i-- {
			l.stack = append(l.stack, step{op: stepNode, node: n.Items[i], marker: listMarker(n, i)})
		}
	case *markdown.ListItem:
		l.item(n, s.marker)
	default:
		l.text(markdown.Plain(markdown.PlainText(n)), l.theme.Text, n.Range())
	}
}

// pushQuote opens a quote level. When the full markers of the deepest
// quote below would not fit, this level and every level inside it use a
// one-column marker, so each level keeps its marker down to width depth+1
func (l *layout) pushQuote(q *markdown.BlockQuote) {
	narrow := l.narrow > 0 || (l.quotes+l.heights[q])*ansi.StringWidth(quoteMarker) > l.maxPrefix()
	text := quoteMarker
	if narrow {
		text = quoteNarrow
		l.narrow++
	}
	marker := []Span{{Text: text, Attr: l.theme.QuoteMarker}}
	l.pushPrefix(marker, marker)
	f := &l.frames[len(l.frames)-1]
	f.quote, f.narrow = true, narrow
	l.quotes++
}

// quoteHeights maps every node that contains quotes to the deepest quote
// nesting inside it, counting the node itself
func quoteHeights(nodes []markdown.Node) map[markdown.Node]int {
	heights := make(map[markdown.Node]int)
	type visit struct {
		node markdown.Node
		done bool
	}
	stack := make([]visit, 0, len(nodes))
	for _, n := range nodes {
		stack = append(stack, visit{node: n})
	}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		children := markdown.Children(v.node)
		_, quote := v.node.(*markdown.BlockQuote)
		if !v.done {
			if quote || len(children) > 0 {
				stack = append(stack, visit{node: v.node, done: true})
				for _, c := range children {
					stack = append(stack, visit{node: c})
				}
			}
			continue
		}
		h := 0
		for _, c := range children {
			h = max(h, heights[c])
		}
		if quote {
			h++
		}
		if h > 0 {
			heights[v.node] = h
		}
	}
	return heights
}

func listMarker(list *markdown.List, i int) string {
	if !list.Ordered {
		return bulletMarker
	}
	return strconv.FormatUint(list.StartIndex()+uint64(i), 10) + ". "
}

func (l *layout) heading(h *markdown.Heading) {
	level := min(max(h.Level, 1), 6)
	base := l.theme.Headings[level-1]

	text := h.Text
	if level == 1 {
		upper := make(markdown.StyledText, len(text))
		for i, r := range text {
			upper[i] = markdown.Run{Text: strings.ToUpper(r.Text), Style: r.Style}
		}
		text = upper
	}
	switch level {
	case 1, 2, 3, 4:
		text = text.WithStyle(markdown.Style{Flags: markdown.Bold})
	case 5:
		text = text.WithStyle(markdown.Style{Variant: markdown.VariantFraktur})
	case 6:
		text = text.WithStyle(markdown.Style{Variant: markdown.VariantDoubleStruck})
	}

	l.pushPrefix(
		[]Span{{Text: headingGlyphs[level-1] + " ", Attr: base}},
		[]Span{{Text: headingText, Attr: l.theme.Text}},
	)
	if l.text(text, base, h.Range()) == 0 {
		l.emit(nil, h.Range())
	}
	l.popPrefix()

	if rule := headingRules[level-1]; rule != "" && !l.stopped {
		l.emit([]Span{{Text: strings.Repeat(rule, l.nextAvail()), Attr: base}}, h.Range())
	}
}

func (l *layout) item(n *markdown.ListItem, marker string) {
	if marker == "" {
		marker = bulletMarker
	}
	first := []Span{{Text: marker, Attr: l.theme.ListMarker}}
	if n.Task != nil {
		box, attr := uncheckedBox, l.theme.TaskUnchecked
		if n.Task.IsChecked() {
			box, attr = checkedBox, l.theme.TaskChecked
		}
		first = append(first, Span{Text: box, Attr: attr})
	}
	l.pushPrefix(first, []Span{{Text: itemIndent, Attr: l.theme.Text}})
	l.stack = append(l.stack, step{op: stepPopPrefix})

	if len(n.Children) == 0 {
		l.emit(nil, n.Range())
		return
	}
	l.pushChildren(n.Children, separateInItem)
}

func (l *layout) code(c *markdown.CodeBlock) {
	bg := l.theme.CodeBlock
	src := c.Range()

	avail := l.nextAvail()
	top := []Span{{Text: strings.Repeat(" ", avail), Attr: bg}}
	if label := c.Language; label != "" {
		if lw := ansi.StringWidth(label); lw+2 <= avail {
			top = []Span{
				{Text: strings.Repeat(" ", avail-lw-1), Attr: bg},
				{Text: label + " ", Attr: l.theme.CodeLabel},
			}
		}
	}
	l.emit(top, src)

	codeStyle := markdown.Style{Flags: markdown.Code}
	for _, line := range c.Lines {
		if l.stopped {
			return
		}
		text := fit(" "+codeDisplay(line), l.nextAvail())
		l.emit([]Span{{Text: text, Style: codeStyle, Attr: bg}}, src)
	}
	if !l.stopped {
		l.emit([]Span{{Text: strings.Repeat(" ", l.nextAvail()), Attr: bg}}, src)
	}
}

// codeDisplay expands tabs and drops control characters, which would
// otherwise be interpreted by the terminal
func codeDisplay(line string) string {
	line = strings.ReplaceAll(line, "\t", tabSpaces)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, line)
}

// fit clips s to w columns and pads it with spaces to exactly w
func fit(s string, w int) string {
	if ansi.StringWidth(s) > w {
		s = ansi.Truncate(s, w, "")
	}
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// text wraps t into the space left by the current prefix and emits the
// lines. It returns the number of lines produced
func (l *layout) text(t markdown.StyledText, base lipgloss.Style, src markdown.Range) int {
	lines := wrap(stylizeRuns(t), l.nextAvail(), l.width-l.restWidth())
	for i, pieces := range lines {
		if l.stopped {
			return i
		}
		spans := make([]Span, len(pieces))
		for j, p := range pieces {
			spans[j] = Span{Text: p.text, Style: p.style, Attr: l.theme.resolve(p.style, base)}
		}
		l.emit(spans, src)
	}
	return len(lines)
}

func stylizeRuns(t markdown.StyledText) markdown.StyledText {
	if !slices.ContainsFunc(t, func(r markdown.Run) bool { return r.Style.Variant != markdown.VariantNone }) {
		return t
	}
	out := make(markdown.StyledText, len(t))
	for i, r := range t {
		out[i] = markdown.Run{Text: Stylize(r.Text, r.Style.Variant), Style: r.Style}
	}
	return out
}

func (l *layout) maxPrefix() int {
	return l.width - 1
}

func (l *layout) pushPrefix(first, rest []Span) {
	f := prefixFrame{first: first}
	if k := len(l.frames); k > 0 {
		f.restLine, f.restW = l.frames[k-1].restLine, l.frames[k-1].restW
	}
	if f.restW < l.maxPrefix() {
		f.restLine, f.restW = appendClipped(slices.Clip(f.restLine), f.restW, rest, l.maxPrefix())
	}
	l.frames = append(l.frames, f)
}

func (l *layout) popPrefix() {
	if len(l.frames) == 0 {
		return
	}
	if f := l.frames[len(l.frames)-1]; f.quote {
		l.quotes--
		if f.narrow {
			l.narrow--
		}
	}
	l.frames = l.frames[:len(l.frames)-1]
	l.emitted = min(l.emitted, len(l.frames))
	if l.sepDepth > len(l.frames) {
		l.sepDepth = -1
	}
}

// linePrefix builds the decoration for the next line: the continuation of
// every frame that has already produced a line, then the first-line
// segment of each frame that has not
func (l *layout) linePrefix() ([]Span, int) {
	var (
		spans []Span
		w     int
	)
	if k := l.emitted; k > 0 {
		spans, w = slices.Clip(l.frames[k-1].restLine), l.frames[k-1].restW
	}
	for i := l.emitted; i < len(l.frames) && w < l.maxPrefix(); i++ {
		spans, w = appendClipped(spans, w, l.frames[i].first, l.maxPrefix())
	}
	return spans, w
}

// nextAvail returns the content width of the next line
func (l *layout) nextAvail() int {
	_, w := l.linePrefix()
	return l.width - w
}

func (l *layout) restWidth() int {
	if len(l.frames) == 0 {
		return 0
	}
	return l.frames[len(l.frames)-1].restW
}

// appendClipped appends segs to dst, which is w columns wide, stopping at
// limit columns
func appendClipped(dst []Span, w int, segs []Span, limit int) ([]Span, int) {
	for _, s := range segs {
		sw := ansi.StringWidth(s.Text)
		if w+sw <= limit {
			dst = append(dst, s)
			w += sw
			continue
		}
		if t := ansi.Truncate(s.Text, limit-w, ""); t != "" {
			s.Text = t
			dst = append(dst, s)
			w += ansi.StringWidth(t)
		}
		break
	}
	return dst, w
}

func (l *layout) requestSeparator() {
	d := len(l.frames)
	if d == 0 {
		if l.anyLine {
			l.sepDepth = 0
		}
		return
	}
	if d <= l.emitted {
		l.sepDepth = d
	}
}

func (l *layout) emit(content []Span, src markdown.Range) {
	if l.stopped {
		return
	}
	if d := l.sepDepth; d >= 0 {
		l.sepDepth = -1
		var spans []Span
		if d > 0 {
			spans = slices.Clone(l.frames[d-1].restLine)
		}
		if !l.send(Line{Spans: spans}) {
			return
		}
	}
	prefix, _ := l.linePrefix()
	l.emitted = len(l.frames)
	l.anyLine = true
	l.send(Line{Spans: append(prefix, content...), Source: src})
}

func (l *layout) send(line Line) bool {
	if !l.yield(line) {
		l.stopped = true
		return false
	}
	return true
}
