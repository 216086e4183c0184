package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/gerunddev/vaultview/internal/markdown"
)

// outlineModel lists the headings of the open note
type outlineModel struct {
	table   table.Model
	entries []*markdown.OutlineEntry
}

func newOutlineModel() outlineModel {
	return outlineModel{table: newTable(outlineColumns(40), 10)}
}

func outlineColumns(width int) []table.Column {
	return []table.Column{{Title: "Outline", Width: max(width-2, 8)}}
}

func (o *outlineModel) SetSize(width, height int) {
	o.table.SetColumns(outlineColumns(width))
	o.table.SetWidth(width)
	setTableHeight(&o.table, height)
}

// SetDocument lists the document's headings in order, indented by depth
func (o *outlineModel) SetDocument(doc *markdown.Document) {
	o.entries = o.entries[:0]
	var rows []table.Row

	type item struct {
		entry *markdown.OutlineEntry
		depth int
	}
	roots := markdown.Outline(doc.Nodes)
	stack := make([]item, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, item{roots[i], 0})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		o.entries = append(o.entries, it.entry)
		rows = append(rows, table.Row{strings.Repeat("  ", it.depth) + it.entry.Title})

		for i := len(it.entry.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{it.entry.Children[i], it.depth + 1})
		}
	}
	o.table.SetRows(rows)
	o.table.SetCursor(0)
}

// SelectAt moves the cursor to the innermost section containing offset
func (o *outlineModel) SelectAt(offset int) {
	best := -1
	for i, e := range o.entries {
		if e.Range.Contains(offset) {
			best = i
		}
	}
	if best >= 0 {
		o.table.SetCursor(best)
	}
}

// Selected returns the heading under the cursor
func (o *outlineModel) Selected() (*markdown.OutlineEntry, bool) {
	i := o.table.Cursor()
	if i < 0 || i >= len(o.entries) {
		return nil, false
	}
	return o.entries[i], true
}

func (o *outlineModel) Len() int {
	return len(o.entries)
}
