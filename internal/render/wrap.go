package render

import (
	"unicode"
	"unicode/utf8"

	"github.com/gerunddev/vaultview/internal/markdown"
	"github.com/rivo/uniseg"
)

type piece struct {
	text  string
	style markdown.Style
}

type atom struct {
	text  string
	style markdown.Style
	width int
}

// wrapper fills lines greedily. A word is a maximal run of non-space
// graphemes and may cross style runs; it only breaks mid-word when it is
// wider than a whole line
type wrapper struct {
	first, rest int

	lines [][]piece
	cur   []piece
	curW  int

	word   []atom
	wordW  int
	space  []atom
	spaceW int
}

// wrap lays text out with first columns on the first line and rest on the
// following ones. Both must be at least 1. A "\n" forces a break
func wrap(text markdown.StyledText, first, rest int) [][]piece {
	w := &wrapper{first: first, rest: rest}
	for _, run := range text {
		state := -1
		s := run.Text
		for len(s) > 0 {
			var cluster string
			var width int
			cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
			switch {
			case cluster == "\n" || cluster == "\r\n":
				w.flushWord()
				w.space, w.spaceW = nil, 0
				w.breakLine()
			case isBreakingSpace(cluster):
				w.flushWord()
				w.space = append(w.space, atom{text: " ", style: run.Style, width: 1})
				w.spaceW++
			case isControl(cluster):
			default:
				w.word = append(w.word, atom{text: cluster, style: run.Style, width: width})
				w.wordW += width
			}
		}
	}
	w.flushWord()
	if len(w.cur) > 0 {
		w.breakLine()
	}
	return w.lines
}

func (w *wrapper) limit() int {
	if len(w.lines) == 0 {
		return w.first
	}
	return w.rest
}

func (w *wrapper) flushWord() {
	if len(w.word) == 0 {
		return
	}
	switch {
	case w.curW == 0:
	case w.curW+w.spaceW+w.wordW <= w.limit():
		for _, a := range w.space {
			w.add(a)
		}
	default:
		w.breakLine()
	}
	w.space, w.spaceW = nil, 0

	for _, a := range w.word {
		if w.curW+a.width > w.limit() {
			if w.curW > 0 {
				w.breakLine()
			}
			if a.width > w.limit() {
				continue
			}
		}
		w.add(a)
	}
	w.word, w.wordW = nil, 0
}

func (w *wrapper) add(a atom) {
	if n := len(w.cur); n > 0 && w.cur[n-1].style == a.style {
		w.cur[n-1].text += a.text
	} else {
		w.cur = append(w.cur, piece{text: a.text, style: a.style})
	}
	w.curW += a.width
}

func (w *wrapper) breakLine() {
	w.lines = append(w.lines, w.cur)
	w.cur, w.curW = nil, 0
}

func isBreakingSpace(cluster string) bool {
	r, size := utf8.DecodeRuneInString(cluster)
	if size != len(cluster) {
		return false
	}
	switch r {
	case '\u00a0', '\u2007', '\u202f':
		return false
	}
	return unicode.IsSpace(r)
}

func isControl(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return unicode.IsControl(r)
}
