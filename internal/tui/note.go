package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/gerunddev/vaultview/internal/logger"
	"github.com/gerunddev/vaultview/internal/markdown"
	"github.com/gerunddev/vaultview/internal/render"
)

// noteModel shows one rendered note in a scrolling viewport. The layout is
// redone whenever the document or the pane width changes
type noteModel struct {
	viewport viewport.Model
	path     string
	doc      *markdown.Document
	view     *render.View
	width    int
	maxWidth int
	words    int
	chars    int
	title    string
	tags     []string
	aliases  []string
	log      *logger.Logger
}

func newNoteModel(maxWidth int, log *logger.Logger) noteModel {
	return noteModel{
		viewport: viewport.New(0, 0),
		maxWidth: maxWidth,
		log:      log,
	}
}

func (n *noteModel) SetSize(width, height int) {
	n.viewport.Width = width
	n.viewport.Height = height
	if width != n.width {
		n.width = width
		n.relayout()
	}
	n.viewport.SetYOffset(n.viewport.YOffset)
}

func (n *noteModel) SetDocument(path string, doc *markdown.Document) {
	n.path = path
	n.doc = doc
	text := string(doc.Source)
	n.words = markdown.WordCount(text)
	n.chars = markdown.CharCount(text)
	n.title = doc.Title()
	n.tags = doc.FrontMatter.Tags()
	n.aliases = doc.FrontMatter.Aliases()
	n.viewport.SetYOffset(0)
	n.relayout()
}

func (n *noteModel) Clear() {
	n.path = ""
	n.doc = nil
	n.words, n.chars = 0, 0
	n.title, n.tags, n.aliases = "", nil, nil
	n.relayout()
}

func (n *noteModel) Loaded() bool {
	return n.doc != nil
}

func (n *noteModel) renderWidth() int {
	w := n.width
	if n.maxWidth > 0 && w > n.maxWidth {
		w = n.maxWidth
	}
	return max(w, 1)
}

func (n *noteModel) relayout() {
	if n.doc == nil {
		n.view = nil
		n.viewport.SetContent("")
		return
	}
	start := time.Now()
	offset := n.viewport.YOffset
	n.view = render.Render(n.doc.Nodes, n.renderWidth())
	n.viewport.SetContent(n.view.String())
	n.viewport.SetYOffset(offset)
	n.log.NoteRendered(n.path, n.renderWidth(), n.view.Height(), time.Since(start))
}

func (n *noteModel) ScrollBy(lines int) {
	n.viewport.SetYOffset(n.viewport.YOffset + lines)
}

func (n *noteModel) PageDown() { n.ScrollBy(max(n.viewport.Height, 1)) }
func (n *noteModel) PageUp()   { n.ScrollBy(-max(n.viewport.Height, 1)) }
func (n *noteModel) Top()      { n.viewport.GotoTop() }
func (n *noteModel) Bottom()   { n.viewport.GotoBottom() }

func (n *noteModel) Offset() int {
	return n.viewport.YOffset
}

func (n *noteModel) SetOffset(offset int) {
	n.viewport.SetYOffset(offset)
}

// TopSource returns the source offset of the first visible line, or -1
// when it is a separator or nothing is shown
func (n *noteModel) TopSource() int {
	if n.view == nil {
		return -1
	}
	for _, line := range n.view.Window(n.viewport.YOffset, n.viewport.Height) {
		if line.Source.Len() > 0 {
			return line.Source.Start
		}
	}
	return -1
}

// LineFor returns the first line produced at or after source offset
func (n *noteModel) LineFor(offset int) int {
	if n.view == nil {
		return 0
	}
	i := 0
	for line := range n.view.Lines() {
		if line.Source.Len() > 0 && line.Source.End > offset {
			return i
		}
		i++
	}
	return max(i-1, 0)
}

// ScrollToSource scrolls so the line rendered from offset is at the top
func (n *noteModel) ScrollToSource(offset int) {
	n.viewport.SetYOffset(n.LineFor(offset))
}

func (n *noteModel) Height() int {
	if n.view == nil {
		return 0
	}
	return n.view.Height()
}

func (n noteModel) View() string {
	if n.doc == nil {
		return helpStyle.Render("No note open")
	}
	return n.viewport.View()
}
