package obsidian

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindWikilink is the node kind of Wikilink
var KindWikilink = ast.NewNodeKind("Wikilink")

// Wikilink is an internal link written as [[Target]] or [[Target|Label]]
type Wikilink struct {
	ast.BaseInline
	Target []byte
	Label  []byte
}

// DisplayText returns the label, or the target when no label was given
func (n *Wikilink) DisplayText() string {
	if len(n.Label) > 0 {
		return string(n.Label)
	}
	return string(n.Target)
}

// Dump implements ast.Node
func (n *Wikilink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": string(n.Target),
		"Label":  string(n.Label),
	}, nil)
}

// Kind implements ast.Node
func (n *Wikilink) Kind() ast.NodeKind {
	return KindWikilink
}

var (
	openWikilink  = []byte("[[")
	closeWikilink = []byte("]]")
)

type wikilinkParser struct{}

// NewWikilinkParser returns an inline parser for [[wikilinks]]
func NewWikilinkParser() parser.InlineParser {
	return &wikilinkParser{}
}

func (p *wikilinkParser) Trigger() []byte {
	return []byte{'['}
}

func (p *wikilinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, openWikilink) {
		return nil
	}
	end := bytes.Index(line[len(openWikilink):], closeWikilink)
	if end <= 0 {
		return nil
	}
	inner := line[len(openWikilink) : len(openWikilink)+end]
	if bytes.ContainsAny(inner, "[]\n") {
		return nil
	}

	target, label := inner, []byte(nil)
	if i := bytes.IndexByte(inner, '|'); i >= 0 {
		target, label = inner[:i], inner[i+1:]
	}
	target = bytes.TrimSpace(target)
	if len(target) == 0 {
		return nil
	}

	block.Advance(len(openWikilink) + end + len(closeWikilink))
	return &Wikilink{
		Target: bytes.Clone(target),
		Label:  bytes.Clone(bytes.TrimSpace(label)),
	}
}

type wikilinks struct{}

// Wikilinks enables [[wikilink]] syntax. It runs ahead of the standard
// link parser, which also triggers on '['
var Wikilinks = &wikilinks{}

func (e *wikilinks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewWikilinkParser(), 199),
	))
}
