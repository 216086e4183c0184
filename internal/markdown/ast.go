package markdown

// Range is a half-open byte interval [Start, End) into the source document
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset lies inside r
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Union returns the smallest range covering r and o
func (r Range) Union(o Range) Range {
	return Range{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

// Node is one block of the document tree. The set of implementations is
// closed: Heading, Paragraph, BlockQuote, List, ListItem, CodeBlock and
// TextNode
type Node interface {
	Range() Range
	setRange(Range)
	node()
}

type block struct {
	Source Range
}

func (b *block) Range() Range     { return b.Source }
func (b *block) setRange(r Range) { b.Source = r }
func (*block) node()              {}

// Heading is an ATX or setext heading
type Heading struct {
	block
	Level int
	Text  StyledText
}

// Paragraph is a run of inline text
type Paragraph struct {
	block
	Text StyledText
}

// BlockQuote holds nested blocks
type BlockQuote struct {
	block
	Children []Node
}

// List is an ordered or bullet list
type List struct {
	block
	Ordered bool
	// Start is the numeral of the first item when the source gave one
	Start *uint64
	Items []*ListItem
}

// StartIndex returns the number displayed on the first item
func (l *List) StartIndex() uint64 {
	if l.Start == nil {
		return 1
	}
	return *l.Start
}

// TaskState is the checkbox state of a task list item
type TaskState uint8

const (
	TaskUnchecked TaskState = iota
	TaskChecked
	// TaskLooselyChecked is a checked box written with a marker other
	// than x or X, such as [?] or [-]
	TaskLooselyChecked
)

func (s TaskState) String() string {
	switch s {
	case TaskUnchecked:
		return "unchecked"
	case TaskChecked:
		return "checked"
	case TaskLooselyChecked:
		return "loosely-checked"
	default:
		return "unknown"
	}
}

// IsChecked reports whether the box counts as ticked
func (s TaskState) IsChecked() bool {
	return s == TaskChecked || s == TaskLooselyChecked
}

// ListItem is one entry of a List
type ListItem struct {
	block
	Children []Node
	Task     *TaskState
}

// CodeBlock is a fenced or indented code block. Lines hold the content
// verbatim without line terminators
type CodeBlock struct {
	block
	Language string
	Lines    []string
}

// TextNode carries source text that could not be classified
type TextNode struct {
	block
	Text string
}

// Children returns the direct child blocks of n
func Children(n Node) []Node {
	switch n := n.(type) {
	case *BlockQuote:
		return n.Children
	case *ListItem:
		return n.Children
	case *List:
		out := make([]Node, len(n.Items))
		for i, item := range n.Items {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

// Walk visits every node in pre-order. fn receives the nesting depth of the
// node (0 for top-level blocks) and returns false to skip its children
func Walk(nodes []Node, fn func(n Node, depth int) bool) {
	type entry struct {
		node  Node
		depth int
	}
	stack := make([]entry, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, entry{nodes[i], 0})
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(e.node, e.depth) {
			continue
		}
		children := Children(e.node)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, entry{children[i], e.depth + 1})
		}
	}
}
