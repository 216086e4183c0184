package markdown

import (
	"fmt"
	"iter"
)

// EventKind distinguishes the events a tokenizer produces
type EventKind uint8

const (
	EventBlockStart EventKind = iota
	EventBlockEnd
	EventInlineStart
	EventInlineEnd
	EventText
)

func (k EventKind) String() string {
	switch k {
	case EventBlockStart:
		return "block-start"
	case EventBlockEnd:
		return "block-end"
	case EventInlineStart:
		return "inline-start"
	case EventInlineEnd:
		return "inline-end"
	case EventText:
		return "text"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// BlockKind names the block variants of the document tree
type BlockKind uint8

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindQuote
	KindList
	KindListItem
	KindCode
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindQuote:
		return "quote"
	case KindList:
		return "list"
	case KindListItem:
		return "item"
	case KindCode:
		return "code"
	default:
		return fmt.Sprintf("block(%d)", uint8(k))
	}
}

// leaf blocks hold text directly and cannot contain other blocks
func (k BlockKind) leaf() bool {
	return k == KindHeading || k == KindParagraph || k == KindCode
}

// Event is one step of a tokenizer's output. Which fields are meaningful
// depends on Kind and Block
type Event struct {
	Kind  EventKind
	Block BlockKind
	Style Style
	Text  string
	Range Range

	Level    int     // heading
	Ordered  bool    // list
	Start    *uint64 // ordered list
	Language string  // code
}

// Tokenizer turns Markdown source into an event stream
type Tokenizer interface {
	Tokenize(source []byte) iter.Seq[Event]
}

// BlockStart opens a block of the given kind
func BlockStart(kind BlockKind, r Range) Event {
	return Event{Kind: EventBlockStart, Block: kind, Range: r}
}

// HeadingStart opens a heading
func HeadingStart(level int, r Range) Event {
	return Event{Kind: EventBlockStart, Block: KindHeading, Level: level, Range: r}
}

// ListStart opens a list. start may be nil
func ListStart(ordered bool, start *uint64, r Range) Event {
	return Event{Kind: EventBlockStart, Block: KindList, Ordered: ordered, Start: start, Range: r}
}

// CodeStart opens a code block
func CodeStart(language string, r Range) Event {
	return Event{Kind: EventBlockStart, Block: KindCode, Language: language, Range: r}
}

// BlockEnd closes the innermost open block of the given kind
func BlockEnd(kind BlockKind) Event {
	return Event{Kind: EventBlockEnd, Block: kind}
}

// InlineStart pushes an inline style
func InlineStart(style Style) Event {
	return Event{Kind: EventInlineStart, Style: style}
}

// InlineEnd pops the innermost matching inline style
func InlineEnd(style Style) Event {
	return Event{Kind: EventInlineEnd, Style: style}
}

// Text carries literal text
func Text(text string, r Range) Event {
	return Event{Kind: EventText, Text: text, Range: r}
}
